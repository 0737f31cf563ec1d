package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/amqp"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/config"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/httpapi"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/log"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/remote"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/service"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: "finance-dashboard"})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	var gateway service.Gateway
	switch cfg.DataBackend {
	case "supabase":
		g, err := remote.NewSupabaseGateway(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			logger.Error("failed to initialize supabase gateway", "error", err)
			os.Exit(1)
		}
		gateway = g
	default:
		g, err := storage.NewSQLiteGateway(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("failed to initialize sqlite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer g.Close()
		gateway = g
	}

	// Sync publishing only matters for the local backend; the supabase
	// backend writes upstream directly. A missing broker degrades to a
	// standalone dashboard instead of refusing to start.
	var publisher service.SyncPublisher
	if cfg.DataBackend == "sqlite" && cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("sync publishing disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	notifier := service.LogNotifier{Logger: logger.WithComponent("notice")}
	svc := service.New(gateway, publisher, notifier, nil, logger)
	srv := httpapi.NewServer(":"+cfg.Port, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting finance dashboard",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"sync_enabled", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
