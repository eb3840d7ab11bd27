// Package services orchestrates the data backend, the analysis pipeline,
// the report cache, and the optional LLM elaboration.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fincopilot/internal/amqp"
	"fincopilot/internal/analysis"
	"fincopilot/internal/cache"
	"fincopilot/internal/core"
	"fincopilot/internal/finance"
)

// RefreshPublisher notifies the report worker that a user's data changed.
type RefreshPublisher interface {
	PublishAnalysisRefresh(ctx context.Context, userID, reason string) error
}

// Answerer elaborates the deterministic output in natural language.
type Answerer interface {
	Available() bool
	AnswerWithData(ctx context.Context, question string, out analysis.AdvisoryOutput) (string, error)
}

// ErrAnswererUnavailable is returned by Ask when no LLM is configured.
// Callers fall back to the deterministic report.
var ErrAnswererUnavailable = errors.New("answerer not configured")

type CopilotService struct {
	store     finance.RecordStore
	reports   cache.Cache[*analysis.Report]
	publisher RefreshPublisher
	answerer  Answerer
}

// NewCopilotService wires the service. publisher and answerer may be nil;
// writes then skip the refresh message and Ask reports unavailability.
func NewCopilotService(store finance.RecordStore, reports cache.Cache[*analysis.Report], publisher RefreshPublisher, answerer Answerer) *CopilotService {
	return &CopilotService{
		store:     store,
		reports:   reports,
		publisher: publisher,
		answerer:  answerer,
	}
}

// Analyze returns the advisory report for userID, serving a cached report
// while it is fresh.
func (s *CopilotService) Analyze(ctx context.Context, userID string) (*analysis.Report, error) {
	if s.reports != nil {
		if report, ok := s.reports.Get(userID); ok {
			return report, nil
		}
	}

	fc, err := s.store.FetchContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch context: %w", err)
	}

	report := analysis.RunAnalysis(ctx, fc)

	if s.reports != nil {
		s.reports.Set(userID, &report)
	}
	return &report, nil
}

// Report renders the advisory output as markdown.
func (s *CopilotService) Report(ctx context.Context, userID string) (string, error) {
	report, err := s.Analyze(ctx, userID)
	if err != nil {
		return "", err
	}
	return analysis.FormatReport(report.Output), nil
}

// Ask answers a free-form question grounded in the user's report.
func (s *CopilotService) Ask(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("empty question")
	}

	report, err := s.Analyze(ctx, userID)
	if err != nil {
		return "", err
	}

	if s.answerer == nil || !s.answerer.Available() {
		return "", ErrAnswererUnavailable
	}
	answer, err := s.answerer.AnswerWithData(ctx, question, report.Output)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return answer, nil
}

// AddIncome saves the record, invalidates the cached report, and asks the
// worker to rebuild it. A failed publish never fails the write.
func (s *CopilotService) AddIncome(ctx context.Context, rec core.MonthlyIncome) (string, error) {
	id, err := s.store.AddIncome(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("save income: %w", err)
	}
	s.invalidate(ctx, rec.UserID, amqp.ReasonIncomeAdded)
	return id, nil
}

func (s *CopilotService) AddExpense(ctx context.Context, rec core.Expense) (string, error) {
	id, err := s.store.AddExpense(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}
	s.invalidate(ctx, rec.UserID, amqp.ReasonExpenseAdded)
	return id, nil
}

func (s *CopilotService) AddGoal(ctx context.Context, rec core.SavingsGoal) (string, error) {
	id, err := s.store.AddGoal(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("save goal: %w", err)
	}
	s.invalidate(ctx, rec.UserID, amqp.ReasonGoalAdded)
	return id, nil
}

func (s *CopilotService) invalidate(ctx context.Context, userID, reason string) {
	if s.reports != nil {
		s.reports.Delete(userID)
	}
	if s.publisher == nil {
		slog.WarnContext(ctx, "Refresh publisher not available, skipping message", "user_id", userID)
		return
	}
	if err := s.publisher.PublishAnalysisRefresh(ctx, userID, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message",
			"user_id", userID,
			"reason", reason,
			"error", err)
	}
}

// Close closes the store and publisher when they hold connections.
func (s *CopilotService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close copilot service: %v", errs)
	}
	return nil
}
