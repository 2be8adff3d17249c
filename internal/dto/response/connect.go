package response

type ConnectStatusResponse struct {
	Connected          bool    `json:"connected"`
	AccountID          *string `json:"account_id,omitempty"`
	ChargesEnabled     bool    `json:"charges_enabled"`
	PayoutsEnabled     bool    `json:"payouts_enabled"`
	DetailsSubmitted   bool    `json:"details_submitted"`
	OnboardingComplete bool    `json:"onboarding_complete"`
}

type OnboardingLinkResponse struct {
	AccountID string `json:"account_id"`
	URL       string `json:"url"`
}
