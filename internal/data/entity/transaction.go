package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeRefund  TransactionType = "refund"
	TransactionTypePayout  TransactionType = "payout"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is one money movement. ChargeRef is the processor reference
// (payment intent id for payments, charge id for refunds).
type Transaction struct {
	BaseSimple
	BookingID        uuid.UUID         `db:"booking_id"`
	PayerID          uuid.UUID         `db:"payer_id"`
	PayeeID          uuid.UUID         `db:"payee_id"`
	AmountCents      int64             `db:"amount_cents"`
	PlatformFeeCents int64             `db:"platform_fee_cents"`
	ChargeRef        string            `db:"charge_ref"`
	TransferRef      *string           `db:"transfer_ref"`
	Type             TransactionType   `db:"transaction_type"`
	Status           TransactionStatus `db:"transaction_status"`
	ProcessedAt      *time.Time        `db:"processed_at"`
}

func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}
