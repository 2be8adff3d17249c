package entity

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationBookingRequest      NotificationType = "booking_request"
	NotificationBookingConfirmed    NotificationType = "booking_confirmed"
	NotificationBookingCancelled    NotificationType = "booking_cancelled"
	NotificationBookingDeclined     NotificationType = "booking_declined"
	NotificationBookingCompleted    NotificationType = "booking_completed"
	NotificationPaymentConfirmation NotificationType = "payment_confirmation"
	NotificationPaymentFailed       NotificationType = "payment_failed"
	NotificationRefundProcessed     NotificationType = "refund_processed"
	NotificationStripeConnected     NotificationType = "stripe_connected"
)

// Notification rows with a DedupeKey are written at most once per key.
type Notification struct {
	BaseSimple
	UserID    uuid.UUID        `db:"user_id"`
	Type      NotificationType `db:"notification_type"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	RelatedID *uuid.UUID       `db:"related_id"`
	DedupeKey *string          `db:"dedupe_key"`
	IsRead    bool             `db:"is_read"`
}
