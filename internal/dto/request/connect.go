package request

type OnboardingRequest struct {
	RefreshURL string `json:"refresh_url,omitempty" validate:"omitempty,url"`
	ReturnURL  string `json:"return_url,omitempty" validate:"omitempty,url"`
}
