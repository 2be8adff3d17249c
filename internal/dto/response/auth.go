package response

import (
	"time"

	"golocal-spaces/internal/data/entity"
)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID                       string          `json:"id"`
	Email                    string          `json:"email"`
	FirstName                string          `json:"first_name"`
	LastName                 string          `json:"last_name"`
	Phone                    *string         `json:"phone,omitempty"`
	UserType                 entity.UserType `json:"user_type"`
	Verified                 bool            `json:"verified"`
	StripeOnboardingComplete bool            `json:"stripe_onboarding_complete"`
	CreatedAt                time.Time       `json:"created_at"`
}

type PartyResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:                       user.ID.String(),
		Email:                    user.Email,
		FirstName:                user.FirstName,
		LastName:                 user.LastName,
		Phone:                    user.Phone,
		UserType:                 user.UserType,
		Verified:                 user.Verified,
		StripeOnboardingComplete: user.StripeOnboardingComplete,
		CreatedAt:                user.CreatedAt,
	}
}

func PartyToResponse(p entity.PartySummary) *PartyResponse {
	return &PartyResponse{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
	}
}
