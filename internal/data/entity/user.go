package entity

type UserType string

const (
	UserTypeLandlord UserType = "landlord"
	UserTypeVendor   UserType = "vendor"
	UserTypeBoth     UserType = "both"
)

func (t UserType) CanHost() bool {
	return t == UserTypeLandlord || t == UserTypeBoth
}

func (t UserType) CanBook() bool {
	return t == UserTypeVendor || t == UserTypeBoth
}

type User struct {
	Base
	Email                    string   `db:"email"`
	PasswordHash             string   `db:"password_hash"`
	FirstName                string   `db:"first_name"`
	LastName                 string   `db:"last_name"`
	Phone                    *string  `db:"phone"`
	UserType                 UserType `db:"user_type"`
	Verified                 bool     `db:"verified"`
	StripeAccountID          *string  `db:"stripe_account_id"`
	StripeOnboardingComplete bool     `db:"stripe_onboarding_complete"`
}

func (u *User) Summary() PartySummary {
	return PartySummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}
