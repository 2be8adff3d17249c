// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golocal-spaces/cmd"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/scheduler"
	"golocal-spaces/internal/usecase"
	"golocal-spaces/internal/wire"
	"golocal-spaces/pkg/broker"
	"golocal-spaces/pkg/cache"
	"golocal-spaces/pkg/database"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"
	"golocal-spaces/pkg/worker"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Processed-event cache, optional
	events, err := cache.InitRedis(ctx, config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, webhook fast path disabled", zap.Error(err))
		events = cache.NopEventCache{}
	}
	defer events.Close()

	// Notification fan-out, optional
	publisher := broker.NewPublisher(config.Kafka.Brokers, config.Kafka.Topic)
	defer publisher.Close()
	if len(config.Kafka.Brokers) > 0 {
		logger.Info("Publishing notifications to Kafka",
			zap.String("brokers", strings.Join(config.Kafka.Brokers, ",")),
			zap.String("topic", config.Kafka.Topic))
	}

	if config.Stripe.SecretKey == "" || config.Stripe.WebhookSecret == "" {
		logger.Warn("Stripe keys missing, payment calls and webhooks will fail")
	}

	m := metrics.New()

	dispatcher, err := worker.NewDispatcher(
		config.Booking.NotificationWorkers,
		10*time.Second,
		func(task worker.Task, err error) {
			m.NotificationFailures.WithLabelValues(strings.TrimPrefix(task.Name, "notify:")).Inc()
		},
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to start worker pool", zap.Error(err))
	}
	defer dispatcher.Stop(15 * time.Second)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, usecase.Infra{
		Gateway:   payment.NewStripeGateway(config.Stripe.SecretKey, logger),
		Verifier:  payment.NewStripeVerifier(config.Stripe.WebhookSecret),
		Events:    events,
		Publisher: publisher,
		Tasks:     dispatcher,
		Metrics:   m,
	}, logger)

	go func() {
		if err := m.Run(ctx, config.Metrics.Port, logger); err != nil {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	go scheduler.New(app.Service.Booking, config.Booking.CompletionInterval, logger).Start(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}
}
