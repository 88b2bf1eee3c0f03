package onboarding

// Input is everything a guard decision depends on.
type Input struct {
	// UserID is empty when nobody is logged in.
	UserID       string
	Professional bool
	// Local and Remote are raw stored values; nil means the source had
	// nothing (or could not be read).
	Local  *string
	Remote *string
	Path   string
}

type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonUnguarded       Reason = "unguarded"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotProfessional Reason = "not_professional"
	ReasonWrongStep       Reason = "wrong_step"
	ReasonFinished        Reason = "onboarding_finished"
	ReasonIncomplete      Reason = "onboarding_incomplete"
)

type Decision struct {
	Allowed   bool   `json:"allowed"`
	Redirect  string `json:"redirect,omitempty"`
	Effective Status `json:"effective_status"`
	Reason    Reason `json:"reason"`
}

func allow(effective Status, reason Reason) Decision {
	return Decision{Allowed: true, Effective: effective, Reason: reason}
}

func redirect(to string, effective Status, reason Reason) Decision {
	return Decision{Redirect: to, Effective: effective, Reason: reason}
}

// Effective reconciles the two status sources. Ties and absent values
// resolve naturally because StatusNone is the minimum.
func Effective(local, remote *string) Status {
	return Max(ParseStatusPtr(local), ParseStatusPtr(remote))
}

// Decide is the progression guard. It is a pure function of its input.
//
// A step page is viewable only by a user whose effective status is exactly
// the page's required status: the page's own step index may be at most one
// past the user's, and users are never sent back to a step they already
// finished.
func Decide(in Input) Decision {
	if in.UserID == "" {
		return redirect(PathLogin, StatusNone, ReasonUnauthenticated)
	}
	if !in.Professional {
		return redirect(PathHome, StatusNone, ReasonNotProfessional)
	}

	effective := Effective(in.Local, in.Remote)

	required, guarded := RequiredStatus(in.Path)
	if !guarded {
		return allow(effective, ReasonUnguarded)
	}

	if effective == StatusCompleted {
		if IsDashboard(in.Path) {
			return allow(effective, ReasonAllowed)
		}
		return redirect(PathDashboard, effective, ReasonFinished)
	}

	if IsDashboard(in.Path) {
		return redirect(CanonicalPath(effective), effective, ReasonIncomplete)
	}

	expectedIndex := required.Next().Index()
	currentIndex := effective.Index()
	if expectedIndex <= currentIndex+1 && required.Index() >= currentIndex {
		return allow(effective, ReasonAllowed)
	}
	return redirect(CanonicalPath(effective), effective, ReasonWrongStep)
}
