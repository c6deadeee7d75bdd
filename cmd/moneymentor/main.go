package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Maxerns/moneymentor-sub000/internal/backend"
	"github.com/Maxerns/moneymentor-sub000/internal/cache"
	"github.com/Maxerns/moneymentor-sub000/internal/config"
	"github.com/Maxerns/moneymentor-sub000/internal/events"
	apphttp "github.com/Maxerns/moneymentor-sub000/internal/http"
	"github.com/Maxerns/moneymentor-sub000/internal/identity"
	"github.com/Maxerns/moneymentor-sub000/internal/identity/firebase"
	"github.com/Maxerns/moneymentor-sub000/internal/learning"
	"github.com/Maxerns/moneymentor-sub000/internal/ledger"
	applog "github.com/Maxerns/moneymentor-sub000/internal/log"
	"github.com/Maxerns/moneymentor-sub000/internal/market"
	"github.com/Maxerns/moneymentor-sub000/internal/profile"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
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

	var verifier identity.Verifier
	var accounts identity.Manager
	if cfg.AuthBackend == "firebase" {
		fb, err := firebase.New(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			logger.Error("Failed to initialize Firebase auth", "error", err)
			os.Exit(1)
		}
		verifier, accounts = fb, fb
		logger.Info("Initialized Firebase auth", "project_id", cfg.FirebaseProjectID)
	} else {
		logger.Warn("Auth disabled, bearer tokens are trusted as user IDs")
	}

	// AMQP is optional; without it, ledger mutations simply go unpublished.
	var publisher ledger.Publisher
	if cfg.AMQPURL != "" {
		eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer eventsClient.Close()
			publisher = eventsClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	var ledgerOpts []ledger.Option
	if publisher != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithPublisher(publisher))
	}
	ledgerSvc := ledger.NewService(storeResult.Store, ledgerOpts...)
	tracker := learning.NewTracker(storeResult.Store)
	profiles := profile.NewService(storeResult.Store, accounts)

	cacheManager := cache.NewManager()
	var marketClient *market.Client
	if cfg.MarketAPIURL != "" {
		marketClient = market.NewClient(cfg.MarketAPIURL, cfg.MarketAPIKey, cfg.MarketCacheTTL)
		cacheManager.Register(marketClient.Cache())
		logger.Info("Initialized market data client", "url", cfg.MarketAPIURL)
	}
	cacheManager.StartCleanup(5 * time.Minute)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, tracker, profiles, apphttp.Options{
		Market:            marketClient,
		Verifier:          verifier,
		Logger:            logger.WithComponent(applog.ComponentHTTP),
		RequestsPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
