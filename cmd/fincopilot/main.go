package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fincopilot/internal/analysis"
	"fincopilot/internal/backend"
	"fincopilot/internal/cache"
	"fincopilot/internal/cli"
	apphttp "fincopilot/internal/http"
	"fincopilot/internal/llm"
	"fincopilot/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting fincopilot server", "backend", cfg.DataBackend)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create data backend", "error", err)
		os.Exit(1)
	}

	reports := cache.NewLRUCache[*analysis.Report](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(reports)
	cacheManager.StartCleanup(10 * time.Minute)

	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if !llmClient.Available() {
		logger.Warn("OPENAI_API_KEY not set, /api/ask will return 503")
	}

	svc := services.NewCopilotService(result.Store, reports, result.Publisher, llmClient)

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		CORSOrigin:    cfg.CORSOrigin,
		DefaultUserID: cfg.DefaultUserID,
		OpenAIEnabled: llmClient.Available(),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
