// Package onboarding gates the professional dashboard behind a strictly
// ordered setup flow: plan, business info, loyalty program, welcome.
//
// A user's progress is held in two places, a per-session cache and the
// remote profile record. Every decision reconciles them by taking the more
// advanced of the two, so progress only ever moves forward.
package onboarding

import "strings"

// Status is a user's position in the onboarding flow. The zero value is
// StatusNone.
type Status int

const (
	StatusNone Status = iota
	StatusPlanSelected
	StatusBusinessInfo
	StatusLoyaltySetup
	StatusCompleted
)

var statusNames = [...]string{
	StatusNone:         "none",
	StatusPlanSelected: "plan_selected",
	StatusBusinessInfo: "business_info",
	StatusLoyaltySetup: "loyalty_setup",
	StatusCompleted:    "completed",
}

// Steps lists every status in flow order.
var Steps = []Status{
	StatusNone,
	StatusPlanSelected,
	StatusBusinessInfo,
	StatusLoyaltySetup,
	StatusCompleted,
}

// ParseStatus never fails: empty, unknown or malformed values are StatusNone
// so a corrupted cache sends the user back to the start of the flow.
func ParseStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	for i, name := range statusNames {
		if s == name {
			return Status(i)
		}
	}
	return StatusNone
}

// ParseStatusPtr treats nil as StatusNone.
func ParseStatusPtr(raw *string) Status {
	if raw == nil {
		return StatusNone
	}
	return ParseStatus(*raw)
}

func (s Status) String() string {
	if !s.Valid() {
		return statusNames[StatusNone]
	}
	return statusNames[s]
}

func (s Status) Valid() bool {
	return s >= StatusNone && s <= StatusCompleted
}

// Index is the position of s in Steps.
func (s Status) Index() int {
	if !s.Valid() {
		return 0
	}
	return int(s)
}

// Next returns the status that follows s. StatusCompleted is terminal.
func (s Status) Next() Status {
	if s >= StatusCompleted {
		return StatusCompleted
	}
	return s + 1
}

// Max returns whichever of a and b is further along the flow.
func Max(a, b Status) Status {
	if b.Index() > a.Index() {
		return b
	}
	return a
}

// AtLeast returns s and every status after it, in flow order.
func (s Status) AtLeast() []Status {
	return Steps[s.Index():]
}

// Names returns the stored form of each status.
func Names(statuses []Status) []string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = st.String()
	}
	return names
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}
