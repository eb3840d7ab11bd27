package analysis

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRunAnalysis_WorkedExample(t *testing.T) {
	fetched := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	report := RunAnalysis(context.Background(), demoContext(fetched))

	if report.UserID != "demo-user" {
		t.Errorf("UserID = %q, want demo-user", report.UserID)
	}
	for _, r := range []struct {
		name string
		err  string
	}{
		{"spending", report.AgentResults.Spending.Err},
		{"overspending", report.AgentResults.Overspending.Err},
		{"trends", report.AgentResults.Trends.Err},
		{"savings", report.AgentResults.Savings.Err},
	} {
		if r.err != "" {
			t.Errorf("agent %s failed: %s", r.name, r.err)
		}
	}
	if report.AgentResults.Spending.Payload.OverallTotal != 57597 {
		t.Errorf("OverallTotal = %v, want 57597", report.AgentResults.Spending.Payload.OverallTotal)
	}
	if len(report.AgentResults.Overspending.Payload.OverIncomeMonths) != 0 {
		t.Errorf("unexpected over-income months: %v", report.AgentResults.Overspending.Payload.OverIncomeMonths)
	}
}

func TestRunAnalysis_Idempotent(t *testing.T) {
	fc := demoContext(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	a := RunAnalysis(context.Background(), fc)
	b := RunAnalysis(context.Background(), fc)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("two runs over the same context differ:\n%+v\n%+v", a, b)
	}
}

func TestRunAnalysis_EmptyContextStillProducesOutput(t *testing.T) {
	fc := demoContext(time.Now())
	fc.MonthlyIncome = nil
	fc.Expenses = nil
	fc.SavingsGoals = nil

	report := RunAnalysis(context.Background(), fc)
	out := report.Output
	if out.Summary == "" || len(out.KeyInsights) == 0 || len(out.RisksWarnings) == 0 || len(out.ActionableSuggestions) == 0 {
		t.Errorf("advisory must always be fully populated, got %+v", out)
	}
}

func TestFormatReport_Structure(t *testing.T) {
	out := AdvisoryOutput{
		Summary:               "All good.",
		KeyInsights:           []string{"first", "second"},
		RisksWarnings:         []string{"careful"},
		ActionableSuggestions: []string{"do this"},
	}
	got := FormatReport(out)

	want := strings.Join([]string{
		"## Summary",
		"All good.",
		"",
		"## Key Insights",
		"- first",
		"- second",
		"",
		"## Risks / Warnings",
		"- careful",
		"",
		"## Actionable Suggestions",
		"- do this",
	}, "\n")
	if got != want {
		t.Errorf("FormatReport() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatReport_AlwaysWellFormed(t *testing.T) {
	fc := demoContext(time.Now())
	report := RunAnalysis(context.Background(), fc)
	text := FormatReport(report.Output)

	for _, section := range []string{"## Summary", "## Key Insights", "## Risks / Warnings", "## Actionable Suggestions"} {
		if !strings.Contains(text, section) {
			t.Errorf("report missing section %q", section)
		}
	}
}
