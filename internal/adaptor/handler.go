package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/usecase"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Space        *SpaceHandler
	Booking      *BookingHandler
	Connect      *ConnectHandler
	Notification *NotificationHandler
	Webhook      *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Space:        NewSpaceHandler(service.Space, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Connect:      NewConnectHandler(service.Connect, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Webhook:      NewWebhookHandler(service.Webhook, log),
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// handleServiceError writes err with its classified status. Client errors are
// logged at warn, everything else at error.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	} else {
		log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", string(apperror.KindOf(err))))
	}
	utils.ResponseError(w, err)
}
