// Package backend builds the configured data backend and its
// collaborators from application config.
package backend

import (
	"context"

	"fincopilot/internal/finance"
	"fincopilot/internal/services"
)

// Type selects which data backend serves financial records.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the record store with its optional collaborators.
// Publisher is nil when AMQP is not configured.
type Result struct {
	Store     finance.RecordStore
	Publisher services.RefreshPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}

// Config holds what backend creation needs, decoupled from the full
// application config.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets specific
	GoogleSpreadsheetID string

	// Memory backend specific
	DefaultUserID string
}
