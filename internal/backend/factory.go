package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fincopilot/internal/amqp"
	"fincopilot/internal/config"
	gsheet "fincopilot/internal/finance/google"
	"fincopilot/internal/finance/memory"
	"fincopilot/internal/storage"
)

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                backendType,
		SQLiteDBPath:        appConfig.SQLiteDBPath,
		AMQPURL:             appConfig.AMQPURL,
		AMQPExchange:        appConfig.AMQPExchange,
		AMQPQueue:           appConfig.AMQPQueue,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		DefaultUserID:       appConfig.DefaultUserID,
	}, nil
}

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(cfg)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, cfg)
	case MemoryBackend:
		return f.createMemoryBackend(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	result := &Result{
		Store:   repo,
		Cleanup: repo.Close,
	}

	// AMQP is optional; without it writes simply skip the refresh message.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without refresh messages", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			result.Publisher = amqpClient
			result.Cleanup = func() error {
				amqpClient.Close()
				return repo.Close()
			}
		}
	}

	f.logger.Info("Created SQLite backend", "db_path", cfg.SQLiteDBPath)
	return result, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
	}

	client, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Created Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return &Result{Store: client}, nil
}

func (f *DefaultFactory) createMemoryBackend(cfg Config) (*Result, error) {
	userID := cfg.DefaultUserID
	if userID == "" {
		userID = "demo-user"
	}

	f.logger.Info("Created in-memory backend with demo data", "user_id", userID)
	return &Result{Store: memory.NewWithDemoData(userID)}, nil
}
