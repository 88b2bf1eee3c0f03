package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func statusPtr(s Status) *string {
	v := s.String()
	return &v
}

func proInput(local, remote *string, path string) Input {
	return Input{UserID: "user-1", Professional: true, Local: local, Remote: remote, Path: path}
}

func TestDecide_Unauthenticated(t *testing.T) {
	d := Decide(Input{Path: PathBusiness, Local: ptr("completed")})

	assert.False(t, d.Allowed)
	assert.Equal(t, PathLogin, d.Redirect)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestDecide_NotProfessional(t *testing.T) {
	d := Decide(Input{UserID: "user-1", Path: PathPlan})

	assert.False(t, d.Allowed)
	assert.Equal(t, PathHome, d.Redirect)
	assert.Equal(t, ReasonNotProfessional, d.Reason)
}

func TestDecide_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		local     *string
		remote    *string
		path      string
		effective Status
		allowed   bool
		redirect  string
	}{
		{
			name:      "remote ahead of empty cache",
			remote:    ptr("business_info"),
			path:      PathPlan,
			effective: StatusBusinessInfo,
			redirect:  PathLoyalty,
		},
		{
			name:      "cache ahead of lagging remote",
			local:     ptr("loyalty_setup"),
			remote:    ptr("plan_selected"),
			path:      PathWelcome,
			effective: StatusLoyaltySetup,
			allowed:   true,
		},
		{
			name:      "completed user on a step page",
			local:     ptr("completed"),
			path:      PathPlan,
			effective: StatusCompleted,
			redirect:  PathDashboard,
		},
		{
			name:      "garbage cache value",
			local:     ptr("garbage-value"),
			path:      PathBusiness,
			effective: StatusNone,
			redirect:  PathPlan,
		},
		{
			name:      "both sources absent",
			path:      PathLoyalty,
			effective: StatusNone,
			redirect:  PathPlan,
		},
		{
			name:      "completed user on dashboard",
			remote:    ptr("completed"),
			path:      PathDashboard,
			effective: StatusCompleted,
			allowed:   true,
		},
		{
			name:      "dashboard sub-page inherits dashboard rule",
			local:     ptr("business_info"),
			path:      "/dashboard/staff",
			effective: StatusBusinessInfo,
			redirect:  PathLoyalty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(proInput(tt.local, tt.remote, tt.path))

			assert.Equal(t, tt.effective, d.Effective)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestDecide_EveryRoutePermittedAtItsRequiredStatus(t *testing.T) {
	for path, required := range requiredStatus {
		d := Decide(proInput(statusPtr(required), nil, path))

		assert.True(t, d.Allowed, "path %s at %s", path, required)
		assert.Empty(t, d.Redirect, "path %s at %s", path, required)
	}
}

func TestDecide_RoutesAheadRedirectToCurrentStep(t *testing.T) {
	for path, required := range requiredStatus {
		for _, current := range Steps {
			if required.Index() <= current.Index() || current == StatusCompleted {
				continue
			}

			d := Decide(proInput(nil, statusPtr(current), path))

			assert.False(t, d.Allowed, "path %s at %s", path, current)
			assert.Equal(t, CanonicalPath(current), d.Redirect, "path %s at %s", path, current)
		}
	}
}

func TestDecide_CompletedLeavesOnboardingPages(t *testing.T) {
	for _, path := range []string{PathPlan, PathBusiness, PathLoyalty, PathWelcome} {
		d := Decide(proInput(statusPtr(StatusCompleted), nil, path))

		assert.False(t, d.Allowed, path)
		assert.Equal(t, PathDashboard, d.Redirect, path)
		assert.Equal(t, ReasonFinished, d.Reason, path)
	}
}

func TestDecide_DashboardNeedsCompleted(t *testing.T) {
	for _, current := range Steps[:len(Steps)-1] {
		d := Decide(proInput(statusPtr(current), nil, PathDashboard))

		assert.False(t, d.Allowed, current.String())
		assert.Equal(t, CanonicalPath(current), d.Redirect, current.String())
	}
}

func TestDecide_CompletedIsSticky(t *testing.T) {
	// Normal forward progress can only ever leave one source at completed
	// while the other lags; neither combination may reopen onboarding.
	for _, lagging := range Steps {
		for _, path := range []string{PathDashboard, PathPlan, PathWelcome} {
			a := Decide(proInput(statusPtr(StatusCompleted), statusPtr(lagging), path))
			b := Decide(proInput(statusPtr(lagging), statusPtr(StatusCompleted), path))

			assert.Equal(t, StatusCompleted, a.Effective)
			assert.Equal(t, StatusCompleted, b.Effective)
			assert.Equal(t, a, b)
		}
	}
}

func TestDecide_UnguardedPath(t *testing.T) {
	d := Decide(proInput(nil, nil, "/plans"))

	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonUnguarded, d.Reason)
}

func TestEffective_IsMax(t *testing.T) {
	for _, a := range Steps {
		for _, b := range Steps {
			want := a
			if b > a {
				want = b
			}
			assert.Equal(t, want, Effective(statusPtr(a), statusPtr(b)))
			assert.Equal(t, Effective(statusPtr(a), statusPtr(b)), Effective(statusPtr(b), statusPtr(a)))
		}
		assert.Equal(t, a, Effective(statusPtr(a), statusPtr(a)))
		assert.Equal(t, a, Effective(statusPtr(a), nil))
	}
}
