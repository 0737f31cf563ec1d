package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/amqp"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/config"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/log"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/remote"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/sheets"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/storage"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: "sync-worker"})
	log.SetDefault(logger)

	logger.Info("starting sync worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	// The worker always pushes upstream, regardless of the dashboard's
	// backend selection.
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		logger.Error("SUPABASE_URL and SUPABASE_KEY are required for the sync worker")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteGateway(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize sqlite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	remoteGateway, err := remote.NewSupabaseGateway(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		logger.Error("failed to initialize supabase gateway", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mirror worker.TransactionMirror
	if cfg.SheetsConfigured() {
		m, err := sheets.NewMirror(ctx, sheets.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("failed to initialize sheets mirror", "error", err)
			os.Exit(1)
		}
		mirror = m
		logger.Info("sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("sheets mirror disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(store, remoteGateway, mirror, cfg.SyncBatchSize)

	// Push anything that accumulated while the worker was down.
	logger.Info("performing startup sync check")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("startup sync check failed", "error", err)
		// Keep going; the periodic sweep retries.
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeStateSync(ctx, func(msg *amqp.StateSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPending(ctx); err != nil {
					logger.Error("periodic sync failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully")
}
