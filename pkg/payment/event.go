package payment

type EventType string

const (
	EventPaymentSucceeded EventType = "payment_intent.succeeded"
	EventPaymentFailed    EventType = "payment_intent.payment_failed"
	EventChargeRefunded   EventType = "charge.refunded"
	EventAccountUpdated   EventType = "account.updated"
)

// Event is a verified processor event reduced to the fields this service acts on.
// Exactly one of PaymentIntent, Charge, Account is set for the handled types.
type Event struct {
	ID   string
	Type EventType

	PaymentIntent *PaymentIntentData
	Charge        *ChargeData
	Account       *Account
}

type PaymentIntentData struct {
	ID                  string
	AmountCents         int64
	AmountReceivedCents int64
	FailureMessage      string
}

type ChargeData struct {
	ID                  string
	PaymentIntentID     string
	AmountCents         int64
	AmountRefundedCents int64

	// Refunds lists the charge's refunds that have not failed or been canceled.
	Refunds []RefundData
}

type RefundData struct {
	ID          string
	AmountCents int64
	Status      string
}
