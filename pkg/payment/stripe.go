package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway against the Stripe API. A zero secret key
// yields a gateway whose every call returns ErrNotConfigured.
type StripeGateway struct {
	api *client.API
	log *zap.Logger
}

func NewStripeGateway(secretKey string, log *zap.Logger) *StripeGateway {
	g := &StripeGateway{log: log.With(zap.String("gateway", "stripe"))}
	if secretKey == "" {
		g.log.Warn("Stripe secret key not set, payment calls will fail")
		return g
	}

	g.api = &client.API{}
	g.api.Init(secretKey, nil)
	return g
}

func (g *StripeGateway) CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	if g.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountCents),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	g.log.Debug("Payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", req.AmountCents),
	)

	return &Authorization{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (g *StripeGateway) CancelAuthorization(ctx context.Context, authorizationID string) error {
	if g.api == nil {
		return ErrNotConfigured
	}

	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := g.api.PaymentIntents.Cancel(authorizationID, params); err != nil {
		return fmt.Errorf("cancel payment intent %s: %w", authorizationID, err)
	}
	return nil
}

func (g *StripeGateway) RefundAuthorization(ctx context.Context, authorizationID string) error {
	if g.api == nil {
		return ErrNotConfigured
	}

	params := &stripe.RefundParams{PaymentIntent: stripe.String(authorizationID)}
	params.Context = ctx

	if _, err := g.api.Refunds.New(params); err != nil {
		return fmt.Errorf("refund payment intent %s: %w", authorizationID, err)
	}
	return nil
}

func (g *StripeGateway) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	if g.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := g.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", accountID, err)
	}

	return &Account{
		ID:               acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

func (g *StripeGateway) CreateAccount(ctx context.Context, email string) (*Account, error) {
	if g.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String("US"),
		Email:   stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		BusinessType: stripe.String(string(stripe.AccountBusinessTypeIndividual)),
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			ProductDescription: stripe.String("Space rental marketplace"),
		},
	}
	params.Context = ctx

	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return nil, fmt.Errorf("create connect account: %w", err)
	}

	return &Account{
		ID:               acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

func (g *StripeGateway) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	if g.api == nil {
		return "", ErrNotConfigured
	}

	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("create account link %s: %w", accountID, err)
	}
	return link.URL, nil
}

// StripeVerifier checks the Stripe-Signature header against the endpoint secret.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(webhookSecret string) *StripeVerifier {
	return &StripeVerifier{secret: webhookSecret}
}

func (v *StripeVerifier) ConstructEvent(payload []byte, signature string) (*Event, error) {
	if v.secret == "" {
		return nil, ErrNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	return decodeEvent(evt.ID, EventType(evt.Type), evt.Data.Raw)
}

type paymentError struct {
	Message string `json:"message"`
}

type intentObject struct {
	ID               string        `json:"id"`
	Amount           int64         `json:"amount"`
	AmountReceived   int64         `json:"amount_received"`
	LastPaymentError *paymentError `json:"last_payment_error"`
}

type refundObject struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type refundList struct {
	Data []refundObject `json:"data"`
}

type chargeObject struct {
	ID             string          `json:"id"`
	Amount         int64           `json:"amount"`
	AmountRefunded int64           `json:"amount_refunded"`
	PaymentIntent  json.RawMessage `json:"payment_intent"`
	Refunds        refundList      `json:"refunds"`
}

type accountObject struct {
	ID               string `json:"id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

func decodeEvent(id string, eventType EventType, raw json.RawMessage) (*Event, error) {
	event := &Event{ID: id, Type: eventType}

	switch eventType {
	case EventPaymentSucceeded, EventPaymentFailed:
		var obj intentObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		event.PaymentIntent = &PaymentIntentData{
			ID:                  obj.ID,
			AmountCents:         obj.Amount,
			AmountReceivedCents: obj.AmountReceived,
		}
		if obj.LastPaymentError != nil {
			event.PaymentIntent.FailureMessage = obj.LastPaymentError.Message
		}

	case EventChargeRefunded:
		var obj chargeObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode charge: %w", err)
		}
		event.Charge = &ChargeData{
			ID:                  obj.ID,
			PaymentIntentID:     expandableID(obj.PaymentIntent),
			AmountCents:         obj.Amount,
			AmountRefundedCents: obj.AmountRefunded,
		}
		for _, r := range obj.Refunds.Data {
			if r.Status == "failed" || r.Status == "canceled" {
				continue
			}
			event.Charge.Refunds = append(event.Charge.Refunds, RefundData{
				ID:          r.ID,
				AmountCents: r.Amount,
				Status:      r.Status,
			})
		}

	case EventAccountUpdated:
		var obj accountObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		event.Account = &Account{
			ID:               obj.ID,
			ChargesEnabled:   obj.ChargesEnabled,
			PayoutsEnabled:   obj.PayoutsEnabled,
			DetailsSubmitted: obj.DetailsSubmitted,
		}
	}

	return event, nil
}

// expandableID reads a Stripe reference that is either a bare id or an expanded object.
func expandableID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}
