package wire

import (
	"net/http"

	"golocal-spaces/internal/adaptor"
	"golocal-spaces/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler, log *zap.Logger) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)

		r.With(middleware.RequireUserType(log, "vendor")).Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.ListBookings)

		// party checks happen in the service
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Get("/{id}/transactions", bookingHandler.GetTransactions)
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)
		r.Post("/{id}/decline", bookingHandler.DeclineBooking)
	})
}
