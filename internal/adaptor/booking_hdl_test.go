package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/dto/response"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.CreateBookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ListBookings(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingResponse])
	return resp, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, bookingID)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) GetBookingTransactions(ctx context.Context, userID uuid.UUID, bookingID string) ([]response.TransactionResponse, error) {
	args := m.Called(ctx, userID, bookingID)
	resp, _ := args.Get(0).([]response.TransactionResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, bookingID, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) DeclineBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, bookingID, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CompleteFinishedBookings(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func bookingRouter(h *BookingHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(utils.SetUserContext(req.Context(), userID, "vendor")))
		})
	})
	r.Post("/api/bookings", h.CreateBooking)
	r.Get("/api/bookings", h.ListBookings)
	r.Post("/api/bookings/{id}/cancel", h.CancelBooking)
	return r
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	userID := uuid.New()
	svc := &mockBookingService{}
	svc.On("CreateBooking", mock.Anything, userID, mock.MatchedBy(func(req *request.CreateBookingRequest) bool {
		return req.StartDate == "2025-01-01" && req.EndDate == "2025-01-11"
	})).Return(&response.CreateBookingResponse{ClientSecret: "pi_1_secret", TotalPrice: 1500, PlatformFee: 150, LandlordAmount: 1350, Days: 10}, nil)

	body := `{"space_id":"` + uuid.NewString() + `","start_date":"2025-01-01","end_date":"2025-01-11"}`
	w := httptest.NewRecorder()
	bookingRouter(NewBookingHandler(svc, zap.NewNop()), userID).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Status)

	var created response.CreateBookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pi_1_secret", created.ClientSecret)
	assert.Equal(t, 150.0, created.PlatformFee)
	assert.Equal(t, 10, created.Days)
}

func TestBookingHandler_CreateBookingErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: apperror.ValidationFields("validation failed", map[string]string{"end_date": "This field is required"}), wantStatus: http.StatusBadRequest},
		{name: "space not found", err: apperror.NotFound("space not found"), wantStatus: http.StatusNotFound},
		{name: "overlap", err: apperror.Conflict("space is already booked for these dates"), wantStatus: http.StatusConflict},
		{name: "on behalf of another vendor", err: apperror.Forbidden("cannot book on behalf of another user"), wantStatus: http.StatusForbidden},
		{name: "processor down", err: apperror.PaymentProvider("failed to create payment", assert.AnError), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			svc := &mockBookingService{}
			svc.On("CreateBooking", mock.Anything, userID, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			bookingRouter(NewBookingHandler(svc, zap.NewNop()), userID).
				ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{}`)))

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Status)
			assert.NotContains(t, env.Message, assert.AnError.Error())
		})
	}
}

func TestBookingHandler_ValidationFieldsInEnvelope(t *testing.T) {
	userID := uuid.New()
	svc := &mockBookingService{}
	svc.On("CreateBooking", mock.Anything, userID, mock.Anything).
		Return(nil, apperror.ValidationFields("validation failed", map[string]string{"space_id": "This field is required"}))

	w := httptest.NewRecorder()
	bookingRouter(NewBookingHandler(svc, zap.NewNop()), userID).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{}`)))

	env := decodeEnvelope(t, w)
	assert.Equal(t, "validation failed", env.Message)
	assert.Equal(t, "This field is required", env.Errors["space_id"])
}

func TestBookingHandler_MalformedBody(t *testing.T) {
	svc := &mockBookingService{}

	w := httptest.NewRecorder()
	bookingRouter(NewBookingHandler(svc, zap.NewNop()), uuid.New()).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"space_id":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_ListBookingsParsesQuery(t *testing.T) {
	userID := uuid.New()
	svc := &mockBookingService{}
	svc.On("ListBookings", mock.Anything, userID, &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 10},
		UserID:           userID.String(),
		Role:             "landlord",
	}).Return(response.NewPaginatedResponse([]response.BookingResponse{}, 2, 10, 0), nil)

	w := httptest.NewRecorder()
	bookingRouter(NewBookingHandler(svc, zap.NewNop()), userID).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings?user_id="+userID.String()+"&role=landlord&page=2&per_page=abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestBookingHandler_CancelWithoutBody(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.NewString()
	svc := &mockBookingService{}
	svc.On("CancelBooking", mock.Anything, userID, bookingID, &request.CancelBookingRequest{}).
		Return(&response.BookingResponse{ID: bookingID, BookingStatus: "cancelled"}, nil)

	w := httptest.NewRecorder()
	bookingRouter(NewBookingHandler(svc, zap.NewNop()), userID).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/"+bookingID+"/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestBookingHandler_RequiresUser(t *testing.T) {
	svc := &mockBookingService{}
	h := NewBookingHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.ListBookings(w, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
