package wire

import (
	"net/http"

	"golocal-spaces/internal/adaptor"
	"golocal-spaces/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireConnect(r chi.Router, connectHandler *adaptor.ConnectHandler, auth func(http.Handler) http.Handler, log *zap.Logger) {
	r.Route("/api/connect", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireUserType(log, "landlord"))

		r.Get("/status", connectHandler.Status)
		r.Post("/onboard", connectHandler.Onboard)
	})
}
