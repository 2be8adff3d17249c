package adaptor

import (
	"net/http"

	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/usecase"
	"golocal-spaces/pkg/utils"

	"go.uber.org/zap"
)

type ConnectHandler struct {
	service usecase.ConnectService
	log     *zap.Logger
}

func NewConnectHandler(service usecase.ConnectService, log *zap.Logger) *ConnectHandler {
	return &ConnectHandler{
		service: service,
		log:     log.With(zap.String("handler", "connect")),
	}
}

// Status handles GET /api/connect/status
func (h *ConnectHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	status, err := h.service.GetConnectStatus(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get connect status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// Onboard handles POST /api/connect/onboard
func (h *ConnectHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.OnboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	link, err := h.service.StartOnboarding(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "start onboarding")
		return
	}

	utils.ResponseSuccess(w, "success", link)
}
