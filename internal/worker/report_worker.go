// Package worker rebuilds advisory reports in the background when a
// user's financial data changes.
package worker

import (
	"context"
	"fmt"
	"time"

	"fincopilot/internal/amqp"
	"fincopilot/internal/analysis"
	"fincopilot/internal/cache"
	"fincopilot/internal/finance"
	"fincopilot/internal/log"
)

// ReportWorker consumes analysis refresh messages, recomputes the report,
// and warms the shared cache so the next read is served immediately.
type ReportWorker struct {
	provider finance.ContextProvider
	reports  cache.Cache[*analysis.Report]
	logger   *log.Logger
	timeout  time.Duration
}

func NewReportWorker(provider finance.ContextProvider, reports cache.Cache[*analysis.Report]) *ReportWorker {
	return &ReportWorker{
		provider: provider,
		reports:  reports,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker),
		timeout:  30 * time.Second,
	}
}

// HandleRefreshMessage processes one refresh request. Returned errors
// requeue the message.
func (w *ReportWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.AnalysisRefreshMessage) error {
	if msg.UserID == "" {
		w.logger.WarnContext(ctx, "Refresh message without user id, dropping")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	started := time.Now()

	fc, err := w.provider.FetchContext(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("fetch context: %w", err)
	}

	report := analysis.RunAnalysis(ctx, fc)

	if w.reports != nil {
		w.reports.Set(msg.UserID, &report)
	}

	w.logger.InfoContext(ctx, "Rebuilt advisory report",
		log.FieldUserID, msg.UserID,
		"reason", msg.Reason,
		"insights", len(report.Output.KeyInsights),
		"risks", len(report.Output.RisksWarnings),
		"suggestions", len(report.Output.ActionableSuggestions),
		"duration", time.Since(started))

	return nil
}
