package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/business"
	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/loyalty"
	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
	"github.com/OlaWorkspace/olla-website-sub000/internal/staff"
	"github.com/OlaWorkspace/olla-website-sub000/internal/subscription"
)

type stub struct {
	business *business.Business
	program  *loyalty.Program
	sub      *subscription.Subscription
	members  []*staff.Member
	err      error
}

func (s *stub) Get(context.Context, string) (*business.Business, error) {
	if s.business == nil {
		return nil, business.ErrNotFound
	}
	return s.business, nil
}

func (s *stub) GetProgram(context.Context, string) (*loyalty.Program, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.program == nil {
		return nil, loyalty.ErrProgramNotFound
	}
	return s.program, nil
}

func (s *stub) ForUser(context.Context, string) (*subscription.Subscription, error) {
	if s.sub == nil {
		return nil, subscription.ErrNotFound
	}
	return s.sub, nil
}

func (s *stub) List(context.Context, string) ([]*staff.Member, error) {
	if s.business == nil {
		return nil, core.ErrNoBusiness
	}
	return s.members, nil
}

func handlerFor(s *stub) *Handler {
	return NewHandler(s, s, s, s, zap.NewNop())
}

func TestLoad_Full(t *testing.T) {
	s := &stub{
		business: &business.Business{ID: "b1", Name: "Ola"},
		program:  &loyalty.Program{ID: "p1"},
		sub:      &subscription.Subscription{PlanCode: "pro"},
		members:  []*staff.Member{{Active: true}, {Active: false}, {Active: true}},
	}

	sum, err := handlerFor(s).Load(context.Background(), "owner")
	require.NoError(t, err)

	assert.Equal(t, "Ola", sum.Business.Name)
	assert.Equal(t, "p1", sum.Program.ID)
	assert.Equal(t, "pro", sum.Subscription.PlanCode)
	assert.Equal(t, 2, sum.StaffCount)
}

func TestLoad_EmptySectionsAreNotErrors(t *testing.T) {
	sum, err := handlerFor(&stub{}).Load(context.Background(), "owner")
	require.NoError(t, err)

	assert.Nil(t, sum.Business)
	assert.Nil(t, sum.Program)
	assert.Nil(t, sum.Subscription)
	assert.Zero(t, sum.StaffCount)
}

func TestGet_FailsOnRealError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handlerFor(&stub{err: errors.New("db down")})

	r := gin.New()
	r.GET("/dashboard", func(c *gin.Context) {
		c.Set(middleware.KeyUserID, "owner")
		c.Next()
	}, h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
