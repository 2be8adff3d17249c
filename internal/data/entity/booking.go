package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusDeclined  BookingStatus = "declined"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking covers the half-open range [StartDate, EndDate). LandlordID is copied
// from the space when the booking is created.
type Booking struct {
	Base
	SpaceID            uuid.UUID     `db:"space_id"`
	VendorID           uuid.UUID     `db:"vendor_id"`
	LandlordID         uuid.UUID     `db:"landlord_id"`
	StartDate          time.Time     `db:"start_date"`
	EndDate            time.Time     `db:"end_date"`
	TotalPriceCents    int64         `db:"total_price_cents"`
	PlatformFeeCents   int64         `db:"platform_fee_cents"`
	BookingStatus      BookingStatus `db:"booking_status"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	PaymentIntentID    string        `db:"payment_intent_id"`
	SpecialRequests    *string       `db:"special_requests"`
	CancellationReason *string       `db:"cancellation_reason"`
	PaidAt             *time.Time    `db:"paid_at"`
}

func (b *Booking) LandlordAmountCents() int64 {
	return b.TotalPriceCents - b.PlatformFeeCents
}

func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.VendorID == userID || b.LandlordID == userID
}

// Counterparty returns the other side of the booking from userID.
func (b *Booking) Counterparty(userID uuid.UUID) uuid.UUID {
	if b.VendorID == userID {
		return b.LandlordID
	}
	return b.VendorID
}

// Transition is a target pair of statuses applied together.
type Transition struct {
	BookingStatus BookingStatus
	PaymentStatus PaymentStatus
}

// CanConfirm only accepts pending bookings. A failed payment is terminal and
// its ledger row stays failed; retrying means a new booking.
func (b *Booking) CanConfirm() bool {
	return b.BookingStatus == BookingStatusPending
}

func (b *Booking) CanFail() bool {
	return b.BookingStatus == BookingStatusPending
}

func (b *Booking) CanRefund() bool {
	if b.PaymentStatus == PaymentStatusRefunded {
		return false
	}
	switch b.BookingStatus {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted:
		return true
	}
	return false
}

func (b *Booking) CanCancel() bool {
	return b.BookingStatus == BookingStatusPending || b.BookingStatus == BookingStatusConfirmed
}

func (b *Booking) CanDecline() bool {
	return b.BookingStatus == BookingStatusPending
}

// BookingDetail is a booking joined with its space and both parties.
type BookingDetail struct {
	Booking
	Space    SpaceSummary
	Vendor   PartySummary
	Landlord PartySummary
}

type BookingRole string

const (
	BookingRoleVendor   BookingRole = "vendor"
	BookingRoleLandlord BookingRole = "landlord"
	BookingRoleAny      BookingRole = ""
)
