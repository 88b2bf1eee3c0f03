package loyalty

import "time"

type Program struct {
	ID             string    `json:"id"`
	BusinessID     string    `json:"business_id"`
	Name           string    `json:"name"`
	PointsPerVisit int       `json:"points_per_visit"`
	Tiers          []*Tier   `json:"tiers"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Tier is a reward unlocked once a customer holds Threshold points.
type Tier struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"program_id"`
	Name      string    `json:"name"`
	Threshold int       `json:"threshold"`
	Reward    string    `json:"reward"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
