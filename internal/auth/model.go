package auth

import "time"

const (
	RoleProfessional = "PROFESSIONAL"
	RoleCustomer     = "CUSTOMER"
	RoleAdmin        = "ADMIN"
)

// User is the domain entity.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	Role             string    `json:"role"`
	Professional     bool      `json:"is_professional"`
	OnboardingStatus *string   `json:"onboarding_status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
