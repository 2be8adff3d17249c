package wire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/usecase"
	"golocal-spaces/pkg/broker"
	"golocal-spaces/pkg/cache"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"
	"golocal-spaces/pkg/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "wire-test-secret"

func newTestApp(t *testing.T) *App {
	return newTestAppWithWebhookSecret(t, "whsec_test")
}

func newTestAppWithWebhookSecret(t *testing.T, webhookSecret string) *App {
	t.Helper()

	config := &utils.Config{JWT: utils.JWTConfig{Secret: testSecret, ExpiryHours: 1}}
	tasks, err := worker.NewDispatcher(1, time.Second, nil, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { tasks.Stop(time.Second) })

	return Wiring(&repository.Repository{}, config, usecase.Infra{
		Gateway:   payment.NewStripeGateway("", zap.NewNop()),
		Verifier:  payment.NewStripeVerifier(webhookSecret),
		Events:    cache.NopEventCache{},
		Publisher: broker.NopPublisher{},
		Tasks:     tasks,
		Metrics:   metrics.New(),
	}, zap.NewNop())
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/spaces"},
		{http.MethodGet, "/api/bookings"},
		{http.MethodPost, "/api/bookings/" + uuid.NewString() + "/cancel"},
		{http.MethodGet, "/api/connect/status"},
		{http.MethodPut, "/api/notifications/read-all"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.Router.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_UserTypeGates(t *testing.T) {
	app := newTestApp(t)
	token, _, err := utils.NewToken(uuid.New(), "vendor", testSecret, time.Hour)
	require.NoError(t, err)

	for _, path := range []string{"/api/spaces", "/api/connect/onboard"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestRouter_WebhookIsSignatureAuthenticated(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment-events", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_WebhookWithoutSecretIsServerError(t *testing.T) {
	app := newTestAppWithWebhookSecret(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment-events", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "signature")
}
