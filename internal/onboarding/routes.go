package onboarding

import "strings"

const (
	PathLogin     = "/login"
	PathHome      = "/"
	PathDashboard = "/dashboard"

	PathPlan     = "/onboarding/plan"
	PathBusiness = "/onboarding/business"
	PathLoyalty  = "/onboarding/loyalty"
	PathWelcome  = "/onboarding/welcome"
)

// requiredStatus maps each guarded page to the status a user must hold to
// view it. The page for status S is also the canonical path of S.
var requiredStatus = map[string]Status{
	PathPlan:      StatusNone,
	PathBusiness:  StatusPlanSelected,
	PathLoyalty:   StatusBusinessInfo,
	PathWelcome:   StatusLoyaltySetup,
	PathDashboard: StatusCompleted,
}

var canonicalPaths = [...]string{
	StatusNone:         PathPlan,
	StatusPlanSelected: PathBusiness,
	StatusBusinessInfo: PathLoyalty,
	StatusLoyaltySetup: PathWelcome,
	StatusCompleted:    PathDashboard,
}

// CanonicalPath is the page a user holding s belongs on.
func CanonicalPath(s Status) string {
	return canonicalPaths[s.Index()]
}

// RequiredStatus reports the status needed to view path. Sub-paths of a
// guarded page (e.g. /dashboard/staff) inherit its requirement.
func RequiredStatus(path string) (Status, bool) {
	path = normalizePath(path)
	if s, ok := requiredStatus[path]; ok {
		return s, true
	}
	for p, s := range requiredStatus {
		if strings.HasPrefix(path, p+"/") {
			return s, true
		}
	}
	return StatusNone, false
}

// IsDashboard reports whether path is the dashboard root or below it.
func IsDashboard(path string) bool {
	path = normalizePath(path)
	return path == PathDashboard || strings.HasPrefix(path, PathDashboard+"/")
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
