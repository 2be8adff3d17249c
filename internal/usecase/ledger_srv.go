package usecase

import (
	"context"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService records money movements. Every write is keyed by booking and
// charge reference, and a terminal row is never rewritten.
type LedgerService interface {
	RecordPending(ctx context.Context, booking *entity.Booking) error
	MarkCompleted(ctx context.Context, booking *entity.Booking, chargeRef string, processedAt time.Time) error
	MarkFailed(ctx context.Context, booking *entity.Booking, chargeRef string) error
	RecordRefund(ctx context.Context, booking *entity.Booking, refundedCents int64, refundRef string) error
	ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error)
}

type ledgerService struct {
	transactionRepo repository.TransactionRepository
	log             *zap.Logger
}

func NewLedgerService(transactionRepo repository.TransactionRepository, log *zap.Logger) LedgerService {
	return &ledgerService{
		transactionRepo: transactionRepo,
		log:             log.With(zap.String("service", "ledger")),
	}
}

// RecordPending opens the payment row for a freshly authorized booking.
func (s *ledgerService) RecordPending(ctx context.Context, booking *entity.Booking) error {
	tx := paymentTransaction(booking, booking.PaymentIntentID, entity.TransactionStatusPending, nil)

	if _, err := s.transactionRepo.Create(ctx, tx); err != nil {
		s.log.Error("Failed to record pending payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return apperror.Persistence("failed to record transaction", err)
	}
	return nil
}

func (s *ledgerService) MarkCompleted(ctx context.Context, booking *entity.Booking, chargeRef string, processedAt time.Time) error {
	return s.finish(ctx, booking, chargeRef, entity.TransactionStatusCompleted, processedAt)
}

func (s *ledgerService) MarkFailed(ctx context.Context, booking *entity.Booking, chargeRef string) error {
	return s.finish(ctx, booking, chargeRef, entity.TransactionStatusFailed, time.Now())
}

// finish moves the pending payment row to status. When the pending row was never
// written the terminal row is inserted instead, so the ledger still ends up with
// exactly one payment row per charge.
func (s *ledgerService) finish(ctx context.Context, booking *entity.Booking, chargeRef string, status entity.TransactionStatus, processedAt time.Time) error {
	log := s.log.With(
		zap.String("booking_id", booking.ID.String()),
		zap.String("charge_ref", chargeRef),
		zap.String("status", string(status)))

	updated, err := s.transactionRepo.UpdatePendingStatus(ctx, booking.ID, chargeRef, entity.TransactionTypePayment, status, &processedAt)
	if err != nil {
		log.Error("Failed to update payment row", zap.Error(err))
		return apperror.Persistence("failed to update transaction", err)
	}
	if updated {
		log.Info("Payment row finalized")
		return nil
	}

	existing, err := s.transactionRepo.FindByCharge(ctx, booking.ID, chargeRef, entity.TransactionTypePayment)
	if err != nil {
		log.Error("Failed to find payment row", zap.Error(err))
		return apperror.Persistence("failed to find transaction", err)
	}
	if existing != nil {
		if existing.Status != status {
			log.Warn("Payment row already terminal", zap.String("current", string(existing.Status)))
		}
		return nil
	}

	tx := paymentTransaction(booking, chargeRef, status, &processedAt)
	if _, err := s.transactionRepo.Create(ctx, tx); err != nil {
		log.Error("Failed to insert payment row", zap.Error(err))
		return apperror.Persistence("failed to record transaction", err)
	}
	log.Warn("Pending payment row was missing, inserted terminal row")
	return nil
}

// RecordRefund writes the refund row for one processor refund reference. The
// money flows back, so payer and payee are swapped relative to the payment and
// no platform fee applies.
func (s *ledgerService) RecordRefund(ctx context.Context, booking *entity.Booking, refundedCents int64, refundRef string) error {
	payerID, payeeID := booking.VendorID, booking.LandlordID

	original, err := s.transactionRepo.FindByCharge(ctx, booking.ID, booking.PaymentIntentID, entity.TransactionTypePayment)
	if err != nil {
		s.log.Error("Failed to find original payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return apperror.Persistence("failed to find transaction", err)
	}
	if original != nil {
		payerID, payeeID = original.PayerID, original.PayeeID
	}

	now := time.Now()
	refund := &entity.Transaction{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		BookingID:   booking.ID,
		PayerID:     payeeID,
		PayeeID:     payerID,
		AmountCents: refundedCents,
		ChargeRef:   refundRef,
		Type:        entity.TransactionTypeRefund,
		Status:      entity.TransactionStatusCompleted,
		ProcessedAt: &now,
	}

	inserted, err := s.transactionRepo.Create(ctx, refund)
	if err != nil {
		s.log.Error("Failed to record refund", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return apperror.Persistence("failed to record refund", err)
	}
	if inserted {
		s.log.Info("Refund recorded",
			zap.String("booking_id", booking.ID.String()),
			zap.String("charge_ref", refundRef),
			zap.Int64("amount_cents", refundedCents))
	}
	return nil
}

func (s *ledgerService) ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error) {
	transactions, err := s.transactionRepo.FindByBookingID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to list transactions", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, apperror.Persistence("failed to list transactions", err)
	}
	return transactions, nil
}

func paymentTransaction(booking *entity.Booking, chargeRef string, status entity.TransactionStatus, processedAt *time.Time) *entity.Transaction {
	return &entity.Transaction{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		BookingID:        booking.ID,
		PayerID:          booking.VendorID,
		PayeeID:          booking.LandlordID,
		AmountCents:      booking.TotalPriceCents,
		PlatformFeeCents: booking.PlatformFeeCents,
		ChargeRef:        chargeRef,
		Type:             entity.TransactionTypePayment,
		Status:           status,
		ProcessedAt:      processedAt,
	}
}
