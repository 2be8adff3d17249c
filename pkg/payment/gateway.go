// Package payment talks to the external payment processor: payment authorizations,
// Connect payout accounts and signed webhook events.
package payment

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by every call when no processor key is set.
var ErrNotConfigured = errors.New("payment processor not configured")

type Authorization struct {
	ID           string
	ClientSecret string
}

type Account struct {
	ID               string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}

// PayoutsReady reports whether the account can both take charges and receive payouts.
func (a *Account) PayoutsReady() bool {
	return a.ChargesEnabled && a.PayoutsEnabled
}

type AuthorizationRequest struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type Gateway interface {
	CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error)
	CancelAuthorization(ctx context.Context, authorizationID string) error
	RefundAuthorization(ctx context.Context, authorizationID string) error

	GetAccount(ctx context.Context, accountID string) (*Account, error)
	CreateAccount(ctx context.Context, email string) (*Account, error)
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
}

// Verifier authenticates a raw webhook body against its signature header.
type Verifier interface {
	ConstructEvent(payload []byte, signature string) (*Event, error)
}
