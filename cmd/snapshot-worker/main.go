package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Maxerns/moneymentor-sub000/internal/backend"
	"github.com/Maxerns/moneymentor-sub000/internal/config"
	"github.com/Maxerns/moneymentor-sub000/internal/events"
	applog "github.com/Maxerns/moneymentor-sub000/internal/log"
	"github.com/Maxerns/moneymentor-sub000/internal/profile"
	"github.com/Maxerns/moneymentor-sub000/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting snapshot-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the snapshot worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeResult, err := backend.NewFactory(logger).CreateStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if storeResult.Cleanup != nil {
		defer storeResult.Cleanup()
	}

	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer eventsClient.Close()

	profiles := profile.NewService(storeResult.Store, nil)
	snapshotWorker := worker.NewSnapshotWorker(storeResult.Store, profiles)

	logger.Info("Consuming transaction events",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	if err := snapshotWorker.Run(ctx, eventsClient); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
