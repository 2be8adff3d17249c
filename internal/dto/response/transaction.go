package response

import (
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/utils"
)

type TransactionResponse struct {
	ID          string                   `json:"id"`
	BookingID   string                   `json:"booking_id"`
	PayerID     string                   `json:"payer_id"`
	PayeeID     string                   `json:"payee_id"`
	Amount      float64                  `json:"amount"`
	PlatformFee float64                  `json:"platform_fee"`
	ChargeRef   string                   `json:"charge_ref"`
	Type        entity.TransactionType   `json:"transaction_type"`
	Status      entity.TransactionStatus `json:"transaction_status"`
	ProcessedAt *time.Time               `json:"processed_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

func TransactionToResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		BookingID:   t.BookingID.String(),
		PayerID:     t.PayerID.String(),
		PayeeID:     t.PayeeID.String(),
		Amount:      utils.FromCents(t.AmountCents),
		PlatformFee: utils.FromCents(t.PlatformFeeCents),
		ChargeRef:   t.ChargeRef,
		Type:        t.Type,
		Status:      t.Status,
		ProcessedAt: t.ProcessedAt,
		CreatedAt:   t.CreatedAt,
	}
}
