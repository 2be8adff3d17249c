package wire

import (
	"net/http"

	"golocal-spaces/internal/adaptor"
	"golocal-spaces/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSpace(r chi.Router, spaceHandler *adaptor.SpaceHandler, auth func(http.Handler) http.Handler, log *zap.Logger) {
	r.Route("/api/spaces", func(r chi.Router) {
		// public browsing
		r.Get("/", spaceHandler.ListSpaces)
		r.Get("/{id}", spaceHandler.GetSpace)

		// listing management, landlords only
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.RequireUserType(log, "landlord"))

			r.Post("/", spaceHandler.CreateSpace)
			r.Put("/{id}", spaceHandler.UpdateSpace)
			r.Delete("/{id}", spaceHandler.DeactivateSpace)
		})
	})
}
