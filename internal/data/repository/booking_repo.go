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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Booking, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error)
	FindByUser(ctx context.Context, userID uuid.UUID, role entity.BookingRole, limit, offset int) ([]*entity.BookingDetail, error)
	CountByUser(ctx context.Context, userID uuid.UUID, role entity.BookingRole) (int64, error)

	// Business queries
	HasConfirmedOverlap(ctx context.Context, spaceID uuid.UUID, start, end time.Time) (bool, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entity.BookingStatus, to entity.Transition, reason *string) (bool, error)
	ApplyTransition(ctx context.Context, event *entity.ProcessedEvent, allowed func(*entity.Booking) bool, to entity.Transition) (entity.TransitionOutcome, *entity.Booking, error)
	CompleteFinished(ctx context.Context, now time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.space_id, b.vendor_id, b.landlord_id, b.start_date, b.end_date,
	b.total_price_cents, b.platform_fee_cents, b.booking_status, b.payment_status, b.payment_intent_id,
	b.special_requests, b.cancellation_reason, b.paid_at, b.created_at, b.updated_at`

const bookingDetailSelect = `
	SELECT ` + bookingColumns + `,
	       s.id, s.title, s.address, s.city, s.state, s.space_type,
	       v.id, v.first_name, v.last_name, v.email, v.phone,
	       l.id, l.first_name, l.last_name, l.email, l.phone
	FROM bookings b
	JOIN spaces s ON s.id = b.space_id
	JOIN users v ON v.id = b.vendor_id
	JOIN users l ON l.id = b.landlord_id
`

func bookingFields(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.SpaceID,
		&b.VendorID,
		&b.LandlordID,
		&b.StartDate,
		&b.EndDate,
		&b.TotalPriceCents,
		&b.PlatformFeeCents,
		&b.BookingStatus,
		&b.PaymentStatus,
		&b.PaymentIntentID,
		&b.SpecialRequests,
		&b.CancellationReason,
		&b.PaidAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func bookingDetailFields(d *entity.BookingDetail) []any {
	return append(bookingFields(&d.Booking),
		&d.Space.ID, &d.Space.Title, &d.Space.Address, &d.Space.City, &d.Space.State, &d.Space.SpaceType,
		&d.Vendor.ID, &d.Vendor.FirstName, &d.Vendor.LastName, &d.Vendor.Email, &d.Vendor.Phone,
		&d.Landlord.ID, &d.Landlord.FirstName, &d.Landlord.LastName, &d.Landlord.Email, &d.Landlord.Phone,
	)
}

// roleFilter returns the predicate selecting a user's bookings; the user id is always $1.
func roleFilter(role entity.BookingRole) string {
	switch role {
	case entity.BookingRoleVendor:
		return "b.vendor_id = $1"
	case entity.BookingRoleLandlord:
		return "b.landlord_id = $1"
	default:
		return "(b.vendor_id = $1 OR b.landlord_id = $1)"
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, space_id, vendor_id, landlord_id, start_date, end_date,
		                      total_price_cents, platform_fee_cents, booking_status, payment_status,
		                      payment_intent_id, special_requests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.SpaceID,
		booking.VendorID,
		booking.LandlordID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalPriceCents,
		booking.PlatformFeeCents,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.PaymentIntentID,
		booking.SpecialRequests,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("payment_intent_id", booking.PaymentIntentID),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(bookingFields(&booking)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.payment_intent_id = $1`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, paymentIntentID).Scan(bookingFields(&booking)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by payment intent",
			zap.Error(err),
			zap.String("payment_intent_id", paymentIntentID),
		)
		return nil, fmt.Errorf("find booking by payment intent %s: %w", paymentIntentID, err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE b.id = $1`

	var detail entity.BookingDetail
	err := r.db.QueryRow(ctx, query, id).Scan(bookingDetailFields(&detail)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking detail",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking detail %s: %w", id.String(), err)
	}

	return &detail, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID uuid.UUID, role entity.BookingRole, limit, offset int) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE ` + roleFilter(role) + `
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("role", string(role)),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.BookingDetail
	for rows.Next() {
		var detail entity.BookingDetail
		if err := rows.Scan(bookingDetailFields(&detail)...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &detail)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) CountByUser(ctx context.Context, userID uuid.UUID, role entity.BookingRole) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings b WHERE ` + roleFilter(role)

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user %s: %w", userID.String(), err)
	}

	return count, nil
}

// HasConfirmedOverlap checks [start, end) against confirmed bookings of the space.
func (r *bookingRepository) HasConfirmedOverlap(ctx context.Context, spaceID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE space_id = $1
			  AND booking_status = 'confirmed'
			  AND start_date < $3
			  AND end_date > $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, spaceID, start, end).Scan(&exists); err != nil {
		r.log.Error("Failed to check booking overlap",
			zap.Error(err),
			zap.String("space_id", spaceID.String()),
		)
		return false, fmt.Errorf("check overlap for space %s: %w", spaceID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entity.BookingStatus, to entity.Transition, reason *string) (bool, error) {
	query := `
		UPDATE bookings
		SET booking_status = $3, payment_status = $4,
		    cancellation_reason = COALESCE($5, cancellation_reason), updated_at = NOW()
		WHERE id = $1 AND booking_status = $2
	`

	result, err := r.db.Exec(ctx, query, id, expected, to.BookingStatus, to.PaymentStatus, reason)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(to.BookingStatus)),
		)
		return false, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(to.BookingStatus), err)
	}

	return result.RowsAffected() > 0, nil
}

// ApplyTransition records the event and moves the booking in one transaction.
// The booking row is locked first so concurrent deliveries of the same event
// serialize; an already-recorded event is reported as a duplicate before the
// state check, so redeliveries can still finish their side effects.
func (r *bookingRepository) ApplyTransition(
	ctx context.Context,
	event *entity.ProcessedEvent,
	allowed func(*entity.Booking) bool,
	to entity.Transition,
) (entity.TransitionOutcome, *entity.Booking, error) {
	outcome := entity.TransitionRejected
	var booking entity.Booking

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		lock := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`
		if err := tx.QueryRow(ctx, lock, event.BookingID).Scan(bookingFields(&booking)...); err != nil {
			return fmt.Errorf("lock booking %s: %w", event.BookingID.String(), err)
		}

		var seen bool
		check := `
			SELECT EXISTS (
				SELECT 1 FROM processed_webhook_events
				WHERE booking_id = $1 AND charge_ref = $2 AND event_type = $3
			)
		`
		if err := tx.QueryRow(ctx, check, event.BookingID, event.ChargeRef, event.EventType).Scan(&seen); err != nil {
			return fmt.Errorf("check processed event: %w", err)
		}
		if seen {
			outcome = entity.TransitionDuplicate
			return nil
		}

		if !allowed(&booking) {
			outcome = entity.TransitionRejected
			return nil
		}

		insert := `
			INSERT INTO processed_webhook_events (booking_id, charge_ref, event_type, event_id, processed_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (booking_id, charge_ref, event_type) DO NOTHING
		`
		result, err := tx.Exec(ctx, insert, event.BookingID, event.ChargeRef, event.EventType, event.EventID, event.ProcessedAt)
		if err != nil {
			return fmt.Errorf("record processed event: %w", err)
		}
		if result.RowsAffected() == 0 {
			outcome = entity.TransitionDuplicate
			return nil
		}

		update := `
			UPDATE bookings
			SET booking_status = $2, payment_status = $3,
			    paid_at = CASE WHEN $3 = 'paid' THEN $4 ELSE paid_at END,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at, paid_at
		`
		err = tx.QueryRow(ctx, update, event.BookingID, to.BookingStatus, to.PaymentStatus, event.ProcessedAt).
			Scan(&booking.UpdatedAt, &booking.PaidAt)
		if err != nil {
			return fmt.Errorf("update booking %s status to %s: %w", event.BookingID.String(), string(to.BookingStatus), err)
		}

		booking.BookingStatus = to.BookingStatus
		booking.PaymentStatus = to.PaymentStatus
		outcome = entity.TransitionApplied
		return nil
	})

	if err != nil {
		r.log.Error("Failed to apply booking transition",
			zap.Error(err),
			zap.String("booking_id", event.BookingID.String()),
			zap.String("event_type", event.EventType),
			zap.String("charge_ref", event.ChargeRef),
		)
		return entity.TransitionRejected, nil, err
	}

	return outcome, &booking, nil
}

func (r *bookingRepository) CompleteFinished(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	query := `
		UPDATE bookings b
		SET booking_status = 'completed', updated_at = NOW()
		WHERE b.booking_status = 'confirmed' AND b.end_date <= $1
		RETURNING ` + bookingColumns

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to complete finished bookings", zap.Error(err))
		return nil, fmt.Errorf("complete finished bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		if err := rows.Scan(bookingFields(&booking)...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
