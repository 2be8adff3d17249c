package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"golocal-spaces/internal/usecase"
	"golocal-spaces/pkg/apperror"

	"go.uber.org/zap"
)

// maxWebhookBody matches the processor's documented payload ceiling.
const maxWebhookBody = 65536

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// PaymentEvents handles POST /api/webhooks/payment-events. The body must be
// passed to the verifier byte for byte, so it is read raw.
func (h *WebhookHandler) PaymentEvents(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.log.Warn("Failed to read webhook body", zap.Error(err))
		writeWebhookError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.service.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		status := apperror.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("Webhook processing failed, processor will retry", zap.Error(err))
		} else {
			h.log.Warn("Webhook rejected", zap.Error(err))
		}
		writeWebhookError(w, status, apperror.PublicMessage(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

func writeWebhookError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
