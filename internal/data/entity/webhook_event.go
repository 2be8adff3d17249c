package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProcessedEvent marks a payment event as applied to a booking. The triple
// (BookingID, ChargeRef, EventType) is unique.
type ProcessedEvent struct {
	BookingID   uuid.UUID `db:"booking_id"`
	ChargeRef   string    `db:"charge_ref"`
	EventType   string    `db:"event_type"`
	EventID     string    `db:"event_id"`
	ProcessedAt time.Time `db:"processed_at"`
}

type TransitionOutcome int

const (
	// TransitionApplied means the event was recorded and the booking updated.
	TransitionApplied TransitionOutcome = iota
	// TransitionDuplicate means the event was already applied earlier.
	TransitionDuplicate
	// TransitionRejected means the booking's state does not allow the move; nothing was recorded.
	TransitionRejected
)

func (o TransitionOutcome) String() string {
	switch o {
	case TransitionApplied:
		return "applied"
	case TransitionDuplicate:
		return "duplicate"
	case TransitionRejected:
		return "rejected"
	}
	return "unknown"
}
