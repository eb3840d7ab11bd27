package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fincopilot/internal/agents"
	"fincopilot/internal/core"
)

// AgentResults holds the four agent envelopes for inspection by callers.
type AgentResults struct {
	Spending     agents.Result[agents.SpendingPatternsPayload]   `json:"spending"`
	Overspending agents.Result[agents.OverspendingPayload]       `json:"overspending"`
	Trends       agents.Result[agents.MonthlyTrendsPayload]      `json:"trends"`
	Savings      agents.Result[agents.SavingsConsistencyPayload] `json:"savings"`
}

// Report is the combined result of one analysis run.
type Report struct {
	UserID       string                 `json:"userId"`
	Output       AdvisoryOutput         `json:"output"`
	Context      *core.FinancialContext `json:"context"`
	AgentResults AgentResults           `json:"agentResults"`
}

// RunAnalysis fans the four agents out over one immutable context and
// synthesizes their results. The agents only read the shared context and
// write no shared state, so concurrent and sequential execution produce
// identical output. RunAnalysis is total: all failure is encoded in the
// agent envelopes and it always returns a well-formed report.
func RunAnalysis(ctx context.Context, fc *core.FinancialContext) Report {
	var results AgentResults

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		results.Spending = agents.RunSpendingPatterns(fc)
		return nil
	})
	g.Go(func() error {
		results.Overspending = agents.RunOverspending(fc)
		return nil
	})
	g.Go(func() error {
		results.Trends = agents.RunMonthlyTrends(fc)
		return nil
	})
	g.Go(func() error {
		results.Savings = agents.RunSavingsConsistency(fc)
		return nil
	})
	_ = g.Wait()

	now := fc.FetchedAt
	if now.IsZero() {
		now = time.Now()
	}
	output := Synthesize(SynthesisInput{
		Spending:     results.Spending,
		Overspending: results.Overspending,
		Trends:       results.Trends,
		Savings:      results.Savings,
		Context:      fc,
		Now:          now,
	})

	return Report{
		UserID:       fc.UserID,
		Output:       output,
		Context:      fc,
		AgentResults: results,
	}
}
