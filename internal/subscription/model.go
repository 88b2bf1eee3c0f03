package subscription

import "time"

const (
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

var validStatuses = map[string]bool{
	StatusTrialing: true,
	StatusActive:   true,
	StatusPastDue:  true,
	StatusCanceled: true,
	StatusExpired:  true,
}

// Current reports whether a subscription in this status grants access to
// its plan.
func Current(status string) bool {
	return status == StatusTrialing || status == StatusActive || status == StatusPastDue
}

// Plan is one entry of the catalogue. Zero limits mean unlimited.
type Plan struct {
	Code       string   `yaml:"code" json:"code"`
	Name       string   `yaml:"name" json:"name"`
	PriceCents int64    `yaml:"price_cents" json:"price_cents"`
	Currency   string   `yaml:"currency" json:"currency"`
	MaxStaff   int      `yaml:"max_staff" json:"max_staff"`
	MaxTiers   int      `yaml:"max_tiers" json:"max_tiers"`
	TrialDays  int      `yaml:"trial_days" json:"trial_days"`
	Features   []string `yaml:"features" json:"features"`
}

type Subscription struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	PlanCode         string    `json:"plan_code"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
