// internal/wire/wire.go
package wire

import (
	"net/http"

	"golocal-spaces/internal/adaptor"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/usecase"
	"golocal-spaces/pkg/middleware"
	"golocal-spaces/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the services background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, infra usecase.Infra, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, infra, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, infra, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	infra usecase.Infra,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Metrics(infra.Metrics))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.AuthJWT(config.JWT.Secret, logger)

	wireAuth(r, handler.Auth, auth)
	wireSpace(r, handler.Space, auth, logger)
	wireBooking(r, handler.Booking, auth, logger)
	wireConnect(r, handler.Connect, auth, logger)
	wireNotification(r, handler.Notification, auth)
	wireWebhook(r, handler.Webhook)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
