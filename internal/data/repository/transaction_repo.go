package repository

import (
	"context"
	"fmt"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TransactionRepository never rewrites a terminal row: inserts skip existing
// (booking, charge_ref, type) keys and status changes only move pending rows.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) (bool, error)
	FindByCharge(ctx context.Context, bookingID uuid.UUID, chargeRef string, txType entity.TransactionType) (*entity.Transaction, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error)
	UpdatePendingStatus(ctx context.Context, bookingID uuid.UUID, chargeRef string, txType entity.TransactionType, status entity.TransactionStatus, processedAt *time.Time) (bool, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

const transactionColumns = `id, booking_id, payer_id, payee_id, amount_cents, platform_fee_cents,
	charge_ref, transfer_ref, transaction_type, transaction_status, processed_at, created_at`

func transactionFields(t *entity.Transaction) []any {
	return []any{
		&t.ID,
		&t.BookingID,
		&t.PayerID,
		&t.PayeeID,
		&t.AmountCents,
		&t.PlatformFeeCents,
		&t.ChargeRef,
		&t.TransferRef,
		&t.Type,
		&t.Status,
		&t.ProcessedAt,
		&t.CreatedAt,
	}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (id, booking_id, payer_id, payee_id, amount_cents, platform_fee_cents,
		                          charge_ref, transfer_ref, transaction_type, transaction_status,
		                          processed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (booking_id, charge_ref, transaction_type) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		transaction.ID,
		transaction.BookingID,
		transaction.PayerID,
		transaction.PayeeID,
		transaction.AmountCents,
		transaction.PlatformFeeCents,
		transaction.ChargeRef,
		transaction.TransferRef,
		transaction.Type,
		transaction.Status,
		transaction.ProcessedAt,
		transaction.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("booking_id", transaction.BookingID.String()),
			zap.String("charge_ref", transaction.ChargeRef),
			zap.String("type", string(transaction.Type)),
		)
		return false, fmt.Errorf("create %s transaction for booking %s: %w", transaction.Type, transaction.BookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *transactionRepository) FindByCharge(ctx context.Context, bookingID uuid.UUID, chargeRef string, txType entity.TransactionType) (*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE booking_id = $1 AND charge_ref = $2 AND transaction_type = $3
	`

	var transaction entity.Transaction
	err := r.db.QueryRow(ctx, query, bookingID, chargeRef, txType).Scan(transactionFields(&transaction)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by charge",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("charge_ref", chargeRef),
		)
		return nil, fmt.Errorf("find transaction %s for booking %s: %w", chargeRef, bookingID.String(), err)
	}

	return &transaction, nil
}

func (r *transactionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find transactions by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find transactions by booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var transactions []*entity.Transaction
	for rows.Next() {
		var transaction entity.Transaction
		if err := rows.Scan(transactionFields(&transaction)...); err != nil {
			r.log.Error("Failed to scan transaction row", zap.Error(err))
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, &transaction)
	}

	return transactions, rows.Err()
}

func (r *transactionRepository) UpdatePendingStatus(
	ctx context.Context,
	bookingID uuid.UUID,
	chargeRef string,
	txType entity.TransactionType,
	status entity.TransactionStatus,
	processedAt *time.Time,
) (bool, error) {
	query := `
		UPDATE transactions
		SET transaction_status = $4, processed_at = $5
		WHERE booking_id = $1 AND charge_ref = $2 AND transaction_type = $3
		  AND transaction_status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, bookingID, chargeRef, txType, status, processedAt)
	if err != nil {
		r.log.Error("Failed to update transaction status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("charge_ref", chargeRef),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update transaction %s status to %s: %w", chargeRef, string(status), err)
	}

	return result.RowsAffected() > 0, nil
}
