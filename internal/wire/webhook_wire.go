package wire

import (
	"golocal-spaces/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireWebhook registers the processor callback. It carries no JWT; the
// signature header authenticates it.
func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	r.Post("/api/webhooks/payment-events", webhookHandler.PaymentEvents)
}
