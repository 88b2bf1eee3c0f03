package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

func newTestStore(t *testing.T, h http.HandlerFunc) *SupabaseStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := NewSupabaseStore(SupabaseConfig{URL: srv.URL + "/", APIKey: "service-key"})
	require.NoError(t, err)
	return s
}

func TestNewSupabaseStore_RequiresConfig(t *testing.T) {
	_, err := NewSupabaseStore(SupabaseConfig{APIKey: "k"})
	assert.Error(t, err)

	_, err = NewSupabaseStore(SupabaseConfig{URL: "https://x.supabase.co"})
	assert.Error(t, err)
}

func TestSupabaseGetProfile(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("id"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `[{"id":"user-1","role":"PROFESSIONAL","is_professional":true,"onboarding_status":"business_info"}]`)
	})

	p, err := s.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, p.Professional)
	assert.Equal(t, "PROFESSIONAL", p.Role)
	require.NotNil(t, p.Status)
	assert.Equal(t, "business_info", *p.Status)
}

func TestSupabaseGetProfile_NullStatus(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"user-1","is_professional":false,"onboarding_status":null}]`)
	})

	p, err := s.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, p.Professional)
	assert.Nil(t, p.Status)
}

func TestSupabaseGetProfile_NotFound(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := s.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, onboarding.ErrProfileNotFound)
}

func TestSupabaseGetProfile_ServerError(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"message":"upstream down"}`)
	})

	_, err := s.GetProfile(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

// fakeProfilesTable is a one-row PostgREST stand-in that applies the id and
// onboarding_status filters it is sent.
type fakeProfilesTable struct {
	mu      sync.Mutex
	row     map[string]any
	patches int
	// beforePatch runs before each PATCH is applied.
	beforePatch func(row map[string]any)
}

func (pt *fakeProfilesTable) matches(q url.Values) bool {
	if q.Get("id") != "eq."+pt.row["id"].(string) {
		return false
	}
	filter := q.Get("onboarding_status")
	stored, _ := pt.row["onboarding_status"].(string)
	switch {
	case filter == "":
		return true
	case filter == "is.null":
		return pt.row["onboarding_status"] == nil
	case strings.HasPrefix(filter, "eq."):
		return pt.row["onboarding_status"] != nil && stored == strings.TrimPrefix(filter, "eq.")
	}
	return false
}

func (pt *fakeProfilesTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if r.Method == http.MethodPatch {
		pt.patches++
		if pt.beforePatch != nil {
			pt.beforePatch(pt.row)
		}
	}
	if !pt.matches(r.URL.Query()) {
		_, _ = io.WriteString(w, `[]`)
		return
	}
	if r.Method == http.MethodPatch {
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for k, v := range fields {
			pt.row[k] = v
		}
	}
	_ = json.NewEncoder(w).Encode([]map[string]any{pt.row})
}

func (pt *fakeProfilesTable) get(field string) any {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.row[field]
}

func (pt *fakeProfilesTable) status() any {
	return pt.get("onboarding_status")
}

func newProfilesTable(status any) *fakeProfilesTable {
	return &fakeProfilesTable{row: map[string]any{
		"id":                "user-1",
		"role":              "PROFESSIONAL",
		"is_professional":   true,
		"onboarding_status": status,
	}}
}

func TestSupabaseAdvance_Updates(t *testing.T) {
	table := newProfilesTable("plan_selected")
	s := newTestStore(t, table.ServeHTTP)

	got, err := s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusBusinessInfo)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusBusinessInfo, got)
	assert.Equal(t, "business_info", table.status())
}

func TestSupabaseAdvance_FromNull(t *testing.T) {
	table := newProfilesTable(nil)
	s := newTestStore(t, table.ServeHTTP)

	got, err := s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusPlanSelected)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusPlanSelected, got)
	assert.Equal(t, "plan_selected", table.status())
}

func TestSupabaseAdvance_AlreadyAhead(t *testing.T) {
	table := newProfilesTable("completed")
	s := newTestStore(t, table.ServeHTTP)

	got, err := s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusPlanSelected)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusCompleted, got)
	assert.Equal(t, "completed", table.status())
	table.mu.Lock()
	assert.Zero(t, table.patches)
	table.mu.Unlock()
}

func TestSupabaseAdvance_OverwritesUnknownValue(t *testing.T) {
	table := newProfilesTable("garbage-value")
	s := newTestStore(t, table.ServeHTTP)

	got, err := s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusPlanSelected)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusPlanSelected, got)
	assert.Equal(t, "plan_selected", table.status())
}

func TestSupabaseAdvance_ReadsStoredCaseInsensitively(t *testing.T) {
	// " COMPLETED " parses as completed and must not be pulled back.
	table := newProfilesTable(" COMPLETED ")
	s := newTestStore(t, table.ServeHTTP)

	got, err := s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusLoyaltySetup)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusCompleted, got)
	assert.Equal(t, " COMPLETED ", table.status())

	table = newProfilesTable("PLAN_SELECTED")
	s = newTestStore(t, table.ServeHTTP)

	got, err = s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusBusinessInfo)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusBusinessInfo, got)
	assert.Equal(t, "business_info", table.status())
}

func TestSupabaseAdvance_ConcurrentWriterWins(t *testing.T) {
	table := newProfilesTable("plan_selected")
	// Another instance completes onboarding between our read and patch.
	table.beforePatch = func(row map[string]any) {
		row["onboarding_status"] = "completed"
	}
	s := newTestStore(t, table.ServeHTTP)

	got, err := s.AdvanceStatus(context.Background(), "user-1", onboarding.StatusBusinessInfo)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StatusCompleted, got)
	assert.Equal(t, "completed", table.status())
}

func TestSupabaseSetProfessional(t *testing.T) {
	table := newProfilesTable(nil)
	table.row["role"] = "CUSTOMER"
	table.row["is_professional"] = false
	s := newTestStore(t, table.ServeHTTP)

	require.NoError(t, s.SetProfessional(context.Background(), "user-1", true))

	assert.Equal(t, true, table.get("is_professional"))
	assert.Equal(t, "PROFESSIONAL", table.get("role"))
	assert.Equal(t, "none", table.status())
}

func TestSupabaseSetProfessional_KeepsExistingStatus(t *testing.T) {
	table := newProfilesTable("loyalty_setup")
	s := newTestStore(t, table.ServeHTTP)

	require.NoError(t, s.SetProfessional(context.Background(), "user-1", true))
	assert.Equal(t, "loyalty_setup", table.status())
}

func TestSupabaseSetProfessional_NotFound(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	err := s.SetProfessional(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, onboarding.ErrProfileNotFound)
}
