package response

import (
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/utils"
)

// Money fields are dollars rounded to cents.
type BookingResponse struct {
	ID                 string                `json:"id"`
	SpaceID            string                `json:"space_id"`
	VendorID           string                `json:"vendor_id"`
	LandlordID         string                `json:"landlord_id"`
	StartDate          time.Time             `json:"start_date"`
	EndDate            time.Time             `json:"end_date"`
	TotalPrice         float64               `json:"total_price"`
	PlatformFee        float64               `json:"platform_fee"`
	LandlordAmount     float64               `json:"landlord_amount"`
	BookingStatus      entity.BookingStatus  `json:"booking_status"`
	PaymentStatus      entity.PaymentStatus  `json:"payment_status"`
	PaymentIntentID    string                `json:"payment_intent_id"`
	SpecialRequests    *string               `json:"special_requests,omitempty"`
	CancellationReason *string               `json:"cancellation_reason,omitempty"`
	PaidAt             *time.Time            `json:"paid_at,omitempty"`
	Space              *SpaceSummaryResponse `json:"space,omitempty"`
	Vendor             *PartyResponse        `json:"vendor,omitempty"`
	Landlord           *PartyResponse        `json:"landlord,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type CreateBookingResponse struct {
	Booking        BookingResponse `json:"booking"`
	ClientSecret   string          `json:"client_secret"`
	TotalPrice     float64         `json:"total_price"`
	PlatformFee    float64         `json:"platform_fee"`
	LandlordAmount float64         `json:"landlord_amount"`
	Days           int             `json:"days"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:                 booking.ID.String(),
		SpaceID:            booking.SpaceID.String(),
		VendorID:           booking.VendorID.String(),
		LandlordID:         booking.LandlordID.String(),
		StartDate:          booking.StartDate,
		EndDate:            booking.EndDate,
		TotalPrice:         utils.FromCents(booking.TotalPriceCents),
		PlatformFee:        utils.FromCents(booking.PlatformFeeCents),
		LandlordAmount:     utils.FromCents(booking.LandlordAmountCents()),
		BookingStatus:      booking.BookingStatus,
		PaymentStatus:      booking.PaymentStatus,
		PaymentIntentID:    booking.PaymentIntentID,
		SpecialRequests:    booking.SpecialRequests,
		CancellationReason: booking.CancellationReason,
		PaidAt:             booking.PaidAt,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}
}

func BookingDetailToResponse(detail *entity.BookingDetail) BookingResponse {
	resp := BookingToResponse(&detail.Booking)
	resp.Space = &SpaceSummaryResponse{
		ID:        detail.Space.ID.String(),
		Title:     detail.Space.Title,
		Address:   detail.Space.Address,
		City:      detail.Space.City,
		State:     detail.Space.State,
		SpaceType: detail.Space.SpaceType,
	}
	resp.Vendor = PartyToResponse(detail.Vendor)
	resp.Landlord = PartyToResponse(detail.Landlord)
	return resp
}
