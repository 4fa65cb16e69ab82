package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"budgetbook/internal/amqp"
	"budgetbook/internal/backend"
	"budgetbook/internal/cli"
	"budgetbook/internal/config"
	"budgetbook/internal/ledger"
	"budgetbook/internal/log"
	gsheet "budgetbook/internal/sheets/google"
	"budgetbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentWorker)

	logger.Info("Starting budgetbook-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the worker")
		os.Exit(1)
	}
	if !cfg.MirrorEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required by the worker")
		os.Exit(1)
	}
	if cfg.DataBackend == backend.MemoryBackend.String() {
		logger.Error("The worker needs a shared store; memory backend is not supported")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	err := run(ctx, cfg, logger, backend.NewFactory(logger.Slog()))
	stop()
	if err != nil {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}

// run mirrors ledger events into the spreadsheet until ctx is cancelled.
// Every resource it opens is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logger *log.Logger, factory backend.Factory) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid backend configuration: %w", err)
	}
	// The worker only reads the ledger; it never publishes.
	backendCfg.AMQPURL = ""

	res, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("initialize %s backend: %w", cfg.DataBackend, err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	svc := ledger.NewService(res.Repository, nil, logger.WithComponent(log.ComponentLedger).Slog())

	sheetsClient, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("initialize google sheets client: %w", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize amqp client: %w", err)
	}
	defer func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close failed", "error", err)
		}
	}()

	mirror := worker.NewMirrorWorker(svc, sheetsClient, logger.WithComponent(log.ComponentSheets).Slog())

	// Events published while the worker was down are covered by the resync.
	logger.Info("Performing startup resync", log.FieldOperation, log.OpSync)
	if err := mirror.ResyncAll(ctx); err != nil {
		logger.Error("Startup resync failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEvents(gctx, mirror.HandleEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("message consumption: %w", err)
	}
	return nil
}
