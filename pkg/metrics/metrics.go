// Package metrics owns the Prometheus registry and the metrics HTTP server.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	reg *prometheus.Registry

	HTTPDuration          *prometheus.HistogramVec
	BookingsCreated       prometheus.Counter
	WebhookEvents         *prometheus.CounterVec
	NotificationFailures  *prometheus.CounterVec
	PaymentProviderErrors *prometheus.CounterVec
	BookingsCompleted     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status code.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.6, 1, 3, 6},
		}, []string{"method", "route", "status"}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings created with an open payment authorization.",
		}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Payment processor events by type and outcome.",
		}, []string{"type", "outcome"}),
		NotificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Best-effort notification tasks that failed.",
		}, []string{"type"}),
		PaymentProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_provider_errors_total",
			Help: "Failed calls to the payment processor by operation.",
		}, []string{"operation"}),
		BookingsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookings_completed_total",
			Help: "Bookings moved to completed by the scheduler.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Run serves /metrics on its own port until ctx is done.
func (m *Metrics) Run(ctx context.Context, port string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Exposing Prometheus metrics", zap.String("port", port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
