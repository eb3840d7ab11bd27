package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fincopilot/internal/amqp"
	"fincopilot/internal/backend"
	"fincopilot/internal/cli"
	"fincopilot/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting fincopilot-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	// The worker never publishes; strip the AMQP URL so the factory does
	// not open a second connection for publishing.
	backendCfg.AMQPURL = ""

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create data backend", "error", err)
		os.Exit(1)
	}

	reportWorker := worker.NewReportWorker(result.Store, nil)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Consuming analysis refresh messages",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		func(msg *amqp.AnalysisRefreshMessage) error {
			return reportWorker.HandleRefreshMessage(ctx, msg)
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
