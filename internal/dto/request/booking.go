package request

// CreateBookingRequest dates accept YYYY-MM-DD or RFC3339. VendorID defaults
// to the authenticated user.
type CreateBookingRequest struct {
	SpaceID         string  `json:"space_id" validate:"required,uuid"`
	VendorID        string  `json:"vendor_id,omitempty" validate:"omitempty,uuid"`
	StartDate       string  `json:"start_date" validate:"required,date"`
	EndDate         string  `json:"end_date" validate:"required,date"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=2000"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Role   string `json:"role" validate:"omitempty,oneof=vendor landlord"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}
