package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerExposesDomainCounters(t *testing.T) {
	m := New()
	m.BookingsCreated.Inc()
	m.WebhookEvents.WithLabelValues("payment_intent.succeeded", "applied").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookings_created_total 1")
	assert.Contains(t, w.Body.String(), `payment_webhook_events_total{outcome="applied",type="payment_intent.succeeded"} 1`)
}

func TestMetrics_RegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.BookingsCompleted.Add(3)

	wa, wb := httptest.NewRecorder(), httptest.NewRecorder()
	a.Handler().ServeHTTP(wa, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b.Handler().ServeHTTP(wb, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, wa.Body.String(), "bookings_completed_total 3")
	assert.Contains(t, wb.Body.String(), "bookings_completed_total 0")
}
