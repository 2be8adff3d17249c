package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/cache"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookService drives bookings forward from signed payment processor events.
//
// The booking status change and its idempotency record commit together. Ledger
// rows and notifications are written afterwards with their own idempotent
// writes; when one of them fails the event is reported as failed so the
// processor redelivers it, and the redelivery only redoes what is missing.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type webhookService struct {
	repo         *repository.Repository
	ledger       LedgerService
	notification NotificationService
	connect      ConnectService
	verifier     payment.Verifier
	events       cache.EventCache
	metrics      *metrics.Metrics
	log          *zap.Logger
	now          func() time.Time
}

func NewWebhookService(
	repo *repository.Repository,
	ledger LedgerService,
	notification NotificationService,
	connect ConnectService,
	infra Infra,
	log *zap.Logger,
) WebhookService {
	return &webhookService{
		repo:         repo,
		ledger:       ledger,
		notification: notification,
		connect:      connect,
		verifier:     infra.Verifier,
		events:       infra.Events,
		metrics:      infra.Metrics,
		log:          log.With(zap.String("service", "webhook")),
		now:          time.Now,
	}
}

// Outcomes beyond the transition ones.
const (
	outcomeInvalid      = "invalid_signature"
	outcomeUnconfigured = "not_configured"
	outcomeCached       = "cached"
	outcomeUnmatched    = "unmatched"
	outcomeIgnored      = "ignored"
	outcomeFailed       = "failed"
	outcomeSynced       = "synced"
)

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	// 1. Authenticate before anything else
	event, err := s.verifier.ConstructEvent(payload, signature)
	if errors.Is(err, payment.ErrNotConfigured) {
		s.metrics.WebhookEvents.WithLabelValues("unknown", outcomeUnconfigured).Inc()
		s.log.Error("Webhook secret is not configured")
		return apperror.PaymentProvider("webhook verification is not configured", err)
	}
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues("unknown", outcomeInvalid).Inc()
		s.log.Warn("Webhook signature verification failed", zap.Error(err))
		return apperror.Signature("invalid webhook signature", err)
	}

	log := s.log.With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))

	// 2. Fast path for events already fully handled
	seen, err := s.events.Seen(ctx, event.ID)
	if err != nil {
		log.Warn("Event cache lookup failed", zap.Error(err))
	}
	if seen {
		s.record(event, outcomeCached)
		log.Debug("Event already processed")
		return nil
	}

	// 3. Dispatch
	var outcome string
	switch event.Type {
	case payment.EventPaymentSucceeded:
		outcome, err = s.paymentSucceeded(ctx, event, log)
	case payment.EventPaymentFailed:
		outcome, err = s.paymentFailed(ctx, event, log)
	case payment.EventChargeRefunded:
		outcome, err = s.chargeRefunded(ctx, event, log)
	case payment.EventAccountUpdated:
		outcome, err = s.accountUpdated(ctx, event)
	default:
		outcome = outcomeIgnored
		log.Info("Unhandled event type")
	}

	if err != nil {
		s.record(event, outcomeFailed)
		log.Error("Webhook processing failed", zap.Error(err))
		return err
	}
	s.record(event, outcome)

	if err := s.events.Remember(ctx, event.ID); err != nil {
		log.Warn("Failed to cache processed event", zap.Error(err))
	}
	return nil
}

func (s *webhookService) paymentSucceeded(ctx context.Context, event *payment.Event, log *zap.Logger) (string, error) {
	if event.PaymentIntent == nil {
		return outcomeIgnored, nil
	}
	intentID := event.PaymentIntent.ID

	booking, outcome, err := s.transition(ctx, event, intentID, intentID,
		(*entity.Booking).CanConfirm,
		entity.Transition{BookingStatus: entity.BookingStatusConfirmed, PaymentStatus: entity.PaymentStatusPaid},
		log)
	if err != nil || booking == nil {
		return outcome, err
	}

	processedAt := s.now()
	if booking.PaidAt != nil {
		processedAt = *booking.PaidAt
	}

	title := s.spaceTitle(ctx, booking)
	return outcome, errors.Join(
		s.ledger.MarkCompleted(ctx, booking, intentID, processedAt),
		s.notifyOnce(ctx, event, booking, booking.VendorID, entity.NotificationPaymentConfirmation,
			"Payment Successful",
			fmt.Sprintf("Your payment for %s has been confirmed. Booking is now active.", title)),
		s.notifyOnce(ctx, event, booking, booking.LandlordID, entity.NotificationBookingConfirmed,
			"Booking Confirmed",
			fmt.Sprintf("Payment received for %s. The booking is now confirmed.", title)),
	)
}

func (s *webhookService) paymentFailed(ctx context.Context, event *payment.Event, log *zap.Logger) (string, error) {
	if event.PaymentIntent == nil {
		return outcomeIgnored, nil
	}
	intentID := event.PaymentIntent.ID

	booking, outcome, err := s.transition(ctx, event, intentID, intentID,
		(*entity.Booking).CanFail,
		entity.Transition{BookingStatus: entity.BookingStatusCancelled, PaymentStatus: entity.PaymentStatusFailed},
		log)
	if err != nil || booking == nil {
		return outcome, err
	}

	message := fmt.Sprintf("Payment for %s failed. Please update your payment method and try again.", s.spaceTitle(ctx, booking))
	if reason := event.PaymentIntent.FailureMessage; reason != "" {
		log.Info("Payment failure reason", zap.String("reason", reason))
	}

	return outcome, errors.Join(
		s.ledger.MarkFailed(ctx, booking, intentID),
		s.notifyOnce(ctx, event, booking, booking.VendorID, entity.NotificationPaymentFailed,
			"Payment Failed", message),
	)
}

// chargeRefunded moves the booking to refunded on the first refund event for a
// charge; later events for the same charge are duplicates of that transition.
// Ledger rows and notifications are keyed on each refund id, so every partial
// refund is recorded once with its own amount.
func (s *webhookService) chargeRefunded(ctx context.Context, event *payment.Event, log *zap.Logger) (string, error) {
	charge := event.Charge
	if charge == nil || charge.PaymentIntentID == "" {
		log.Info("Refund without payment intent")
		return outcomeIgnored, nil
	}

	booking, outcome, err := s.transition(ctx, event, charge.PaymentIntentID, charge.ID,
		(*entity.Booking).CanRefund,
		entity.Transition{BookingStatus: entity.BookingStatusCancelled, PaymentStatus: entity.PaymentStatusRefunded},
		log)
	if err != nil || booking == nil {
		return outcome, err
	}

	refunds := charge.Refunds
	if len(refunds) == 0 {
		// older payloads omit the refund list
		amount := charge.AmountRefundedCents
		if amount <= 0 {
			amount = booking.TotalPriceCents
		}
		refunds = []payment.RefundData{{ID: charge.ID, AmountCents: amount}}
	}

	var errs []error
	for _, refund := range refunds {
		errs = append(errs,
			s.ledger.RecordRefund(ctx, booking, refund.AmountCents, refund.ID),
			s.notifyRefund(ctx, event, booking, refund, booking.VendorID, "Refund Processed",
				fmt.Sprintf("Your refund of $%.2f for booking #%s has been processed.", utils.FromCents(refund.AmountCents), booking.ID)),
			s.notifyRefund(ctx, event, booking, refund, booking.LandlordID, "Refund Issued",
				fmt.Sprintf("A refund of $%.2f has been issued for booking #%s.", utils.FromCents(refund.AmountCents), booking.ID)),
		)
	}
	return outcome, errors.Join(errs...)
}

func (s *webhookService) accountUpdated(ctx context.Context, event *payment.Event) (string, error) {
	if event.Account == nil {
		return outcomeIgnored, nil
	}
	if err := s.connect.SyncAccount(ctx, event.Account); err != nil {
		return outcomeFailed, err
	}
	return outcomeSynced, nil
}

// transition resolves the booking by its payment intent and applies the status
// change under the (booking, chargeRef, event type) idempotency key. It returns
// a nil booking when there is nothing left to do.
func (s *webhookService) transition(
	ctx context.Context,
	event *payment.Event,
	intentID, chargeRef string,
	allowed func(*entity.Booking) bool,
	to entity.Transition,
	log *zap.Logger,
) (*entity.Booking, string, error) {
	booking, err := s.repo.Booking.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		return nil, outcomeFailed, apperror.Persistence("failed to find booking", err)
	}
	if booking == nil {
		// acknowledged so the processor stops retrying something we cannot resolve
		log.Warn("No booking for payment intent", zap.String("payment_intent_id", intentID))
		return nil, outcomeUnmatched, nil
	}

	outcome, updated, err := s.repo.Booking.ApplyTransition(ctx, &entity.ProcessedEvent{
		BookingID:   booking.ID,
		ChargeRef:   chargeRef,
		EventType:   string(event.Type),
		EventID:     event.ID,
		ProcessedAt: s.now(),
	}, allowed, to)
	if err != nil {
		return nil, outcomeFailed, apperror.Persistence("failed to apply booking transition", err)
	}

	log = log.With(
		zap.String("booking_id", booking.ID.String()),
		zap.String("outcome", outcome.String()))

	switch outcome {
	case entity.TransitionRejected:
		log.Warn("Transition not allowed from current state",
			zap.String("booking_status", string(booking.BookingStatus)),
			zap.String("payment_status", string(booking.PaymentStatus)))
		return nil, outcome.String(), nil
	case entity.TransitionDuplicate:
		log.Info("Event already applied, completing side effects")
	default:
		log.Info("Booking transitioned",
			zap.String("booking_status", string(to.BookingStatus)),
			zap.String("payment_status", string(to.PaymentStatus)))
	}

	if updated == nil {
		updated = booking
	}
	return updated, outcome.String(), nil
}

// notifyOnce writes one notification per (event type, booking, recipient).
func (s *webhookService) notifyOnce(
	ctx context.Context,
	event *payment.Event,
	booking *entity.Booking,
	userID uuid.UUID,
	nType entity.NotificationType,
	title, message string,
) error {
	n := NewNotification(userID, nType, title, message, &booking.ID)
	n.DedupeKey = DedupeKey(string(event.Type), booking.ID.String(), userID.String())
	return s.notification.NotifyNow(ctx, n)
}

// notifyRefund writes one notification per (refund, recipient).
func (s *webhookService) notifyRefund(
	ctx context.Context,
	event *payment.Event,
	booking *entity.Booking,
	refund payment.RefundData,
	userID uuid.UUID,
	title, message string,
) error {
	n := NewNotification(userID, entity.NotificationRefundProcessed, title, message, &booking.ID)
	n.DedupeKey = DedupeKey(string(event.Type), booking.ID.String(), refund.ID, userID.String())
	return s.notification.NotifyNow(ctx, n)
}

func (s *webhookService) spaceTitle(ctx context.Context, booking *entity.Booking) string {
	space, err := s.repo.Space.FindByID(ctx, booking.SpaceID)
	if err != nil || space == nil {
		s.log.Warn("Space not loaded for notification", zap.Error(err), zap.String("space_id", booking.SpaceID.String()))
		return "your booking"
	}
	return space.Title
}

func (s *webhookService) record(event *payment.Event, outcome string) {
	s.metrics.WebhookEvents.WithLabelValues(string(event.Type), outcome).Inc()
}
