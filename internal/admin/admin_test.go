package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

type countFunc func(context.Context) (int, error)

func (f countFunc) Count(ctx context.Context) (int, error) { return f(ctx) }

type statusCounts map[string]int

func (s statusCounts) CountByStatus(context.Context) (map[string]int, error) { return s, nil }

type fakeSteps struct {
	calls []string
}

func (f *fakeSteps) Record(_ context.Context, userID, sessionID string, to onboarding.Status) (onboarding.Status, error) {
	f.calls = append(f.calls, userID+"|"+sessionID+"|"+to.String())
	return to, nil
}

type fixture struct {
	users   *auth.Service
	steps   *fakeSteps
	service *Service
}

func newFixture(t *testing.T, businesses BusinessCounter) *fixture {
	t.Helper()
	users := auth.NewService(auth.NewInMemoryUserRepository())
	steps := &fakeSteps{}
	return &fixture{
		users:   users,
		steps:   steps,
		service: NewService(users, businesses, statusCounts{"active": 2}, steps, zap.NewNop()),
	}
}

func (f *fixture) register(t *testing.T, email string, professional bool) *auth.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), auth.RegisterInput{
		Name: "User", Email: email, Password: "Password@123", Professional: professional,
	})
	require.NoError(t, err)
	return u
}

func TestOverview(t *testing.T) {
	f := newFixture(t, countFunc(func(context.Context) (int, error) { return 7, nil }))
	f.register(t, "pro@example.com", true)
	f.register(t, "cust@example.com", false)

	o, err := f.service.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{auth.RoleProfessional: 1, auth.RoleCustomer: 1}, o.UsersByRole)
	assert.Equal(t, 7, o.Businesses)
	assert.Equal(t, 2, o.SubscriptionsByStatus["active"])
}

func TestOverview_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	f := newFixture(t, countFunc(func(context.Context) (int, error) { return 0, boom }))

	_, err := f.service.Overview(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCompleteOnboarding(t *testing.T) {
	f := newFixture(t, countFunc(func(context.Context) (int, error) { return 0, nil }))
	pro := f.register(t, "pro@example.com", true)
	cust := f.register(t, "cust@example.com", false)

	status, err := f.service.CompleteOnboarding(context.Background(), pro.ID)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusCompleted, status)
	assert.Equal(t, []string{pro.ID + "||completed"}, f.steps.calls)

	_, err = f.service.CompleteOnboarding(context.Background(), cust.ID)
	assert.ErrorIs(t, err, ErrNotProfessional)

	_, err = f.service.CompleteOnboarding(context.Background(), "missing")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestAdminHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t, countFunc(func(context.Context) (int, error) { return 1, nil }))
	pro := f.register(t, "pro@example.com", true)

	h := NewHandler(f.service, zap.NewNop())
	r := gin.New()
	r.GET("/admin/overview", h.Overview)
	r.GET("/admin/users", h.ListUsers)
	r.POST("/admin/users/:id/onboarding/complete", h.CompleteOnboarding)

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	w := do(http.MethodGet, "/admin/overview")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"businesses":1`)

	w = do(http.MethodGet, "/admin/users?limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Users []map[string]any `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Users, 1)
	assert.NotContains(t, list.Users[0], "password")

	w = do(http.MethodPost, "/admin/users/"+pro.ID+"/onboarding/complete")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)

	w = do(http.MethodPost, "/admin/users/nobody/onboarding/complete")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
