package usecase

import (
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/pkg/broker"
	"golocal-spaces/pkg/cache"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"
	"golocal-spaces/pkg/worker"

	"go.uber.org/zap"
)

// TaskSubmitter queues best-effort work. *worker.Dispatcher implements it.
type TaskSubmitter interface {
	Submit(task worker.Task)
}

// Infra groups the external collaborators shared by the services.
type Infra struct {
	Gateway   payment.Gateway
	Verifier  payment.Verifier
	Events    cache.EventCache
	Publisher broker.Publisher
	Tasks     TaskSubmitter
	Metrics   *metrics.Metrics
}

type Service struct {
	Auth         AuthService
	Space        SpaceService
	Booking      BookingService
	Ledger       LedgerService
	Notification NotificationService
	Connect      ConnectService
	Webhook      WebhookService
}

func NewService(repo *repository.Repository, config *utils.Config, infra Infra, log *zap.Logger) *Service {
	notification := NewNotificationService(repo.Notification, infra.Tasks, infra.Publisher, log)
	ledger := NewLedgerService(repo.Transaction, log)
	connect := NewConnectService(repo.User, infra.Gateway, notification, config, infra.Metrics, log)

	return &Service{
		Auth:         NewAuthService(repo.User, config, log),
		Space:        NewSpaceService(repo, infra.Tasks, log),
		Booking:      NewBookingService(repo, ledger, notification, infra.Gateway, config, infra.Metrics, log),
		Ledger:       ledger,
		Notification: notification,
		Connect:      connect,
		Webhook:      NewWebhookService(repo, ledger, notification, connect, infra, log),
	}
}
