package usecase

import (
	"context"
	"fmt"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/dto/response"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	ListBookings(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	GetBookingTransactions(ctx context.Context, userID uuid.UUID, bookingID string) ([]response.TransactionResponse, error)

	// Lifecycle
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	DeclineBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	CompleteFinishedBookings(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	repo         *repository.Repository
	ledger       LedgerService
	notification NotificationService
	gateway      payment.Gateway
	config       *utils.Config
	metrics      *metrics.Metrics
	log          *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	ledger LedgerService,
	notification NotificationService,
	gateway payment.Gateway,
	config *utils.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:         repo,
		ledger:       ledger,
		notification: notification,
		gateway:      gateway,
		config:       config,
		metrics:      m,
		log:          log.With(zap.String("service", "booking")),
	}
}

// CreateBooking prices the stay, opens a payment authorization and stores the
// booking as pending. The booking only becomes confirmed once the processor
// reports the payment as succeeded.
func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	// 1. Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperror.ValidationFields("validation failed", errs)
	}

	vendorID := userID
	if req.VendorID != "" {
		parsed, err := uuid.Parse(req.VendorID)
		if err != nil {
			return nil, apperror.Validation("invalid vendor ID")
		}
		if parsed != userID {
			return nil, apperror.Forbidden("cannot book on behalf of another user")
		}
	}

	spaceID, err := uuid.Parse(req.SpaceID)
	if err != nil {
		return nil, apperror.Validation("invalid space ID")
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperror.Validation("invalid start_date")
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperror.Validation("invalid end_date")
	}
	if !end.After(start) {
		return nil, apperror.Validation("end_date must be after start_date")
	}

	// 2. Space and vendor must exist
	space, err := s.repo.Space.FindByID(ctx, spaceID)
	if err != nil {
		s.log.Error("Failed to find space", zap.Error(err), zap.String("space_id", req.SpaceID))
		return nil, apperror.Persistence("failed to find space", err)
	}
	if space == nil {
		return nil, apperror.NotFound("space not found")
	}
	if space.Status != entity.SpaceStatusActive {
		return nil, apperror.Validation("space is not available for booking")
	}

	vendor, err := s.repo.User.FindByID(ctx, vendorID)
	if err != nil {
		s.log.Error("Failed to find vendor", zap.Error(err), zap.String("vendor_id", vendorID.String()))
		return nil, apperror.Persistence("failed to find vendor", err)
	}
	if vendor == nil {
		return nil, apperror.NotFound("vendor not found")
	}
	if space.OwnerID == vendor.ID {
		return nil, apperror.Validation("cannot book your own space")
	}

	// 3. Price
	quote, err := CalculateQuote(space, start, end)
	if err != nil {
		return nil, err
	}

	// 4. Confirmed bookings own their dates
	overlap, err := s.repo.Booking.HasConfirmedOverlap(ctx, space.ID, start, end)
	if err != nil {
		s.log.Error("Failed to check overlap", zap.Error(err), zap.String("space_id", req.SpaceID))
		return nil, apperror.Persistence("failed to check availability", err)
	}
	if overlap {
		return nil, apperror.Conflict("space is already booked for the requested dates")
	}

	if s.config.Booking.RequireLandlordOnboarding {
		landlord, err := s.repo.User.FindByID(ctx, space.OwnerID)
		if err != nil {
			s.log.Error("Failed to find landlord", zap.Error(err), zap.String("landlord_id", space.OwnerID.String()))
			return nil, apperror.Persistence("failed to find landlord", err)
		}
		if landlord == nil || !landlord.StripeOnboardingComplete {
			return nil, apperror.Validation("landlord has not completed payout setup")
		}
	}

	// 5. Open the payment authorization
	auth, err := s.gateway.CreateAuthorization(ctx, payment.AuthorizationRequest{
		AmountCents: quote.TotalCents,
		Currency:    Currency,
		Description: fmt.Sprintf("Booking for %s", space.Title),
		Metadata: map[string]string{
			"space_id":        space.ID.String(),
			"vendor_id":       vendor.ID.String(),
			"landlord_id":     space.OwnerID.String(),
			"start_date":      req.StartDate,
			"end_date":        req.EndDate,
			"platform_fee":    fmt.Sprintf("%.2f", utils.FromCents(quote.PlatformFeeCents)),
			"landlord_amount": fmt.Sprintf("%.2f", utils.FromCents(quote.LandlordAmountCents)),
		},
	})
	if err != nil {
		s.metrics.PaymentProviderErrors.WithLabelValues("create_authorization").Inc()
		s.log.Error("Failed to open payment authorization", zap.Error(err), zap.String("space_id", req.SpaceID))
		return nil, apperror.PaymentProvider("failed to create payment", err)
	}

	// 6. Persist the pending booking
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SpaceID:          space.ID,
		VendorID:         vendor.ID,
		LandlordID:       space.OwnerID,
		StartDate:        start,
		EndDate:          end,
		TotalPriceCents:  quote.TotalCents,
		PlatformFeeCents: quote.PlatformFeeCents,
		BookingStatus:    entity.BookingStatusPending,
		PaymentStatus:    entity.PaymentStatusPending,
		PaymentIntentID:  auth.ID,
		SpecialRequests:  req.SpecialRequests,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("payment_intent_id", auth.ID))
		s.releaseAuthorization(ctx, auth.ID)
		return nil, apperror.Persistence("failed to create booking", err)
	}

	// 7. Ledger row; the payment webhook backfills it if this write is lost
	if err := s.ledger.RecordPending(ctx, booking); err != nil {
		s.log.Warn("Pending transaction not recorded", zap.Error(err), zap.String("booking_id", booking.ID.String()))
	}

	s.metrics.BookingsCreated.Inc()

	s.notification.Notify(ctx, NewNotification(space.OwnerID, entity.NotificationBookingRequest,
		"New Booking Request",
		fmt.Sprintf("You have a new booking request for %s", space.Title),
		&booking.ID))

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("space_id", space.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
		zap.Int64("total_cents", quote.TotalCents))

	return &response.CreateBookingResponse{
		Booking:        response.BookingToResponse(booking),
		ClientSecret:   auth.ClientSecret,
		TotalPrice:     utils.FromCents(quote.TotalCents),
		PlatformFee:    utils.FromCents(quote.PlatformFeeCents),
		LandlordAmount: utils.FromCents(quote.LandlordAmountCents),
		Days:           quote.Days,
	}, nil
}

// releaseAuthorization cancels an authorization that no local booking refers to.
// A failure leaves an orphan at the processor, so it is logged with the id.
func (s *bookingService) releaseAuthorization(ctx context.Context, authorizationID string) {
	if err := s.gateway.CancelAuthorization(context.WithoutCancel(ctx), authorizationID); err != nil {
		s.metrics.PaymentProviderErrors.WithLabelValues("cancel_authorization").Inc()
		s.log.Error("Orphaned payment authorization, reconcile manually",
			zap.Error(err),
			zap.String("payment_intent_id", authorizationID))
		return
	}
	s.log.Warn("Payment authorization cancelled after failed booking insert",
		zap.String("payment_intent_id", authorizationID))
}

func (s *bookingService) ListBookings(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.ValidationFields("validation failed", errs)
	}
	if req.UserID != "" && req.UserID != userID.String() {
		return nil, apperror.Forbidden("cannot list another user's bookings")
	}

	role := entity.BookingRole(req.Role)

	bookings, err := s.repo.Booking.FindByUser(ctx, userID, role, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Persistence("failed to list bookings", err)
	}

	total, err := s.repo.Booking.CountByUser(ctx, userID, role)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Persistence("failed to count bookings", err)
	}

	data := make([]response.BookingResponse, len(bookings))
	for i, detail := range bookings {
		data[i] = response.BookingDetailToResponse(detail)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Validation("invalid booking ID")
	}

	detail, err := s.repo.Booking.FindDetailByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperror.Persistence("failed to get booking", err)
	}
	if detail == nil || !detail.IsParty(userID) {
		// strangers get the same answer as for a missing booking
		return nil, apperror.NotFound("booking not found")
	}

	resp := response.BookingDetailToResponse(detail)
	return &resp, nil
}

func (s *bookingService) GetBookingTransactions(ctx context.Context, userID uuid.UUID, bookingID string) ([]response.TransactionResponse, error) {
	booking, err := s.partyBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.ledger.ListForBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	data := make([]response.TransactionResponse, len(transactions))
	for i, t := range transactions {
		data[i] = response.TransactionToResponse(t)
	}
	return data, nil
}

// CancelBooking withdraws a booking. A pending booking releases its authorization
// and is cancelled at once. A confirmed booking is refunded at the processor and
// the refund webhook moves it to cancelled/refunded.
func (s *bookingService) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.ValidationFields("validation failed", errs)
	}

	booking, err := s.partyBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.CanCancel() {
		return nil, apperror.Conflict(fmt.Sprintf("booking is %s and cannot be cancelled", booking.BookingStatus))
	}

	switch booking.BookingStatus {
	case entity.BookingStatusPending:
		if err := s.gateway.CancelAuthorization(ctx, booking.PaymentIntentID); err != nil {
			s.metrics.PaymentProviderErrors.WithLabelValues("cancel_authorization").Inc()
			s.log.Error("Failed to cancel authorization", zap.Error(err), zap.String("booking_id", bookingID))
			return nil, apperror.PaymentProvider("failed to cancel payment", err)
		}

		to := entity.Transition{BookingStatus: entity.BookingStatusCancelled, PaymentStatus: entity.PaymentStatusFailed}
		if err := s.moveFrom(ctx, booking, entity.BookingStatusPending, to, req.Reason); err != nil {
			return nil, err
		}
		if err := s.ledger.MarkFailed(ctx, booking, booking.PaymentIntentID); err != nil {
			s.log.Warn("Pending transaction not closed", zap.Error(err), zap.String("booking_id", bookingID))
		}

	case entity.BookingStatusConfirmed:
		if err := s.gateway.RefundAuthorization(ctx, booking.PaymentIntentID); err != nil {
			s.metrics.PaymentProviderErrors.WithLabelValues("refund_authorization").Inc()
			s.log.Error("Failed to request refund", zap.Error(err), zap.String("booking_id", bookingID))
			return nil, apperror.PaymentProvider("failed to refund payment", err)
		}
		s.log.Info("Refund requested", zap.String("booking_id", bookingID))
		return s.bookingResponse(booking), nil
	}

	s.notification.Notify(ctx, NewNotification(booking.Counterparty(userID), entity.NotificationBookingCancelled,
		"Booking Cancelled",
		fmt.Sprintf("Booking #%s has been cancelled.", booking.ID),
		&booking.ID))

	s.log.Info("Booking cancelled", zap.String("booking_id", bookingID), zap.String("by", userID.String()))
	return s.bookingResponse(booking), nil
}

// DeclineBooking lets the landlord turn down a pending request.
func (s *bookingService) DeclineBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.ValidationFields("validation failed", errs)
	}

	booking, err := s.partyBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.LandlordID != userID {
		return nil, apperror.Forbidden("only the landlord can decline a booking")
	}
	if !booking.CanDecline() {
		return nil, apperror.Conflict(fmt.Sprintf("booking is %s and cannot be declined", booking.BookingStatus))
	}

	if err := s.gateway.CancelAuthorization(ctx, booking.PaymentIntentID); err != nil {
		s.metrics.PaymentProviderErrors.WithLabelValues("cancel_authorization").Inc()
		s.log.Error("Failed to cancel authorization", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperror.PaymentProvider("failed to cancel payment", err)
	}

	to := entity.Transition{BookingStatus: entity.BookingStatusDeclined, PaymentStatus: entity.PaymentStatusFailed}
	if err := s.moveFrom(ctx, booking, entity.BookingStatusPending, to, req.Reason); err != nil {
		return nil, err
	}
	if err := s.ledger.MarkFailed(ctx, booking, booking.PaymentIntentID); err != nil {
		s.log.Warn("Pending transaction not closed", zap.Error(err), zap.String("booking_id", bookingID))
	}

	s.notification.Notify(ctx, NewNotification(booking.VendorID, entity.NotificationBookingDeclined,
		"Booking Declined",
		fmt.Sprintf("Your booking request #%s was declined by the landlord.", booking.ID),
		&booking.ID))

	s.log.Info("Booking declined", zap.String("booking_id", bookingID))
	return s.bookingResponse(booking), nil
}

// CompleteFinishedBookings moves confirmed bookings whose end date has passed to
// completed and tells both parties.
func (s *bookingService) CompleteFinishedBookings(ctx context.Context, now time.Time) (int, error) {
	bookings, err := s.repo.Booking.CompleteFinished(ctx, now)
	if err != nil {
		s.log.Error("Failed to complete bookings", zap.Error(err))
		return 0, apperror.Persistence("failed to complete bookings", err)
	}

	for _, booking := range bookings {
		for _, userID := range []uuid.UUID{booking.VendorID, booking.LandlordID} {
			n := NewNotification(userID, entity.NotificationBookingCompleted,
				"Booking Completed",
				fmt.Sprintf("Booking #%s has ended. Thank you for using GoLocal Spaces!", booking.ID),
				&booking.ID)
			n.DedupeKey = DedupeKey(string(entity.NotificationBookingCompleted), booking.ID.String(), userID.String())
			s.notification.Notify(ctx, n)
		}
	}

	if len(bookings) > 0 {
		s.metrics.BookingsCompleted.Add(float64(len(bookings)))
		s.log.Info("Bookings completed", zap.Int("count", len(bookings)))
	}
	return len(bookings), nil
}

// partyBooking loads a booking the user is a party to.
func (s *bookingService) partyBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Validation("invalid booking ID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperror.Persistence("failed to get booking", err)
	}
	if booking == nil || !booking.IsParty(userID) {
		return nil, apperror.NotFound("booking not found")
	}
	return booking, nil
}

// moveFrom applies to only if the booking is still in expected, so a webhook that
// landed in between wins.
func (s *bookingService) moveFrom(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus, to entity.Transition, reason *string) error {
	updated, err := s.repo.Booking.UpdateStatusIf(ctx, booking.ID, expected, to, reason)
	if err != nil {
		s.log.Error("Failed to update booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return apperror.Persistence("failed to update booking", err)
	}
	if !updated {
		return apperror.Conflict("booking changed while processing, please retry")
	}

	booking.BookingStatus = to.BookingStatus
	booking.PaymentStatus = to.PaymentStatus
	if reason != nil {
		booking.CancellationReason = reason
	}
	booking.UpdatedAt = time.Now()
	return nil
}

func (s *bookingService) bookingResponse(booking *entity.Booking) *response.BookingResponse {
	resp := response.BookingToResponse(booking)
	return &resp
}
