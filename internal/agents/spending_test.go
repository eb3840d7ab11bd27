package agents

import (
	"testing"

	"fincopilot/internal/core"
)

func demoContext() *core.FinancialContext {
	return &core.FinancialContext{
		UserID: "demo-user",
		MonthlyIncome: []core.MonthlyIncome{
			{ID: "1", Month: "2025-01", Amount: 30000},
			{ID: "2", Month: "2025-02", Amount: 30000},
			{ID: "3", Month: "2025-03", Amount: 30000},
		},
		Expenses: []core.Expense{
			{ID: "e1", Date: "2025-01-05", Category: "Rent", Amount: 8000},
			{ID: "e2", Date: "2025-01-10", Category: "Food", Amount: 5879},
			{ID: "e3", Date: "2025-01-15", Category: "Entertainment", Amount: 3920},
			{ID: "e4", Date: "2025-02-05", Category: "Rent", Amount: 8000},
			{ID: "e5", Date: "2025-02-12", Category: "Food", Amount: 8640},
			{ID: "e6", Date: "2025-02-18", Category: "Entertainment", Amount: 5759},
			{ID: "e7", Date: "2025-03-05", Category: "Rent", Amount: 8000},
			{ID: "e8", Date: "2025-03-11", Category: "Food", Amount: 5640},
			{ID: "e9", Date: "2025-03-20", Category: "Entertainment", Amount: 3759},
		},
		SavingsGoals: []core.SavingsGoal{
			{ID: "g1", Name: "Emergency Fund", TargetAmount: 60000, CurrentAmount: 0, Deadline: "2026-02-28"},
		},
	}
}

func TestRunSpendingPatterns_Empty(t *testing.T) {
	res := RunSpendingPatterns(&core.FinancialContext{UserID: "u"})
	if res.Failed() {
		t.Fatalf("empty expenses must not fail, got error %q", res.Err)
	}
	p := res.Payload
	if p.OverallTotal != 0 || p.MonthCount != 0 {
		t.Errorf("OverallTotal = %v, MonthCount = %v, want both 0", p.OverallTotal, p.MonthCount)
	}
	if len(p.TotalByCategory) != 0 || len(p.TotalByMonth) != 0 || len(p.CategoryByMonth) != 0 {
		t.Errorf("expected empty lists, got %+v", p)
	}
}

func TestRunSpendingPatterns_WorkedExample(t *testing.T) {
	res := RunSpendingPatterns(demoContext())
	if res.Failed() {
		t.Fatalf("unexpected error: %q", res.Err)
	}
	p := res.Payload

	if p.OverallTotal != 57597 {
		t.Errorf("OverallTotal = %v, want 57597", p.OverallTotal)
	}
	if p.MonthCount != 3 {
		t.Errorf("MonthCount = %v, want 3", p.MonthCount)
	}

	wantMonths := map[string]float64{"2025-01": 17799, "2025-02": 22399, "2025-03": 17399}
	if len(p.TotalByMonth) != len(wantMonths) {
		t.Fatalf("TotalByMonth has %d entries, want %d", len(p.TotalByMonth), len(wantMonths))
	}
	for _, m := range p.TotalByMonth {
		if m.Total != wantMonths[m.Month] {
			t.Errorf("month %s total = %v, want %v", m.Month, m.Total, wantMonths[m.Month])
		}
		if m.Count != 3 {
			t.Errorf("month %s count = %d, want 3", m.Month, m.Count)
		}
	}

	wantRent := 24000.0
	for _, c := range p.TotalByCategory {
		if c.Category == "Rent" && c.Total != wantRent {
			t.Errorf("Rent total = %v, want %v", c.Total, wantRent)
		}
	}
}

func TestRunSpendingPatterns_CellAggregation(t *testing.T) {
	// two expense rows in the same (month, category) cell collapse into one
	fc := &core.FinancialContext{
		Expenses: []core.Expense{
			{Date: "2025-01-02", Category: "Food", Amount: 100},
			{Date: "2025-01-20", Category: "Food", Amount: 250},
			{Date: "2025-02-01", Category: "Food", Amount: 40},
		},
	}
	p := RunSpendingPatterns(fc).Payload
	if len(p.CategoryByMonth) != 2 {
		t.Fatalf("CategoryByMonth has %d cells, want 2", len(p.CategoryByMonth))
	}
	if p.CategoryByMonth[0].Month != "2025-01" || p.CategoryByMonth[0].Total != 350 {
		t.Errorf("first cell = %+v, want 2025-01 Food 350", p.CategoryByMonth[0])
	}
}

func TestRunSpendingPatterns_SeparatorSafeCategories(t *testing.T) {
	// category labels containing "|" must remain distinct cells
	fc := &core.FinancialContext{
		Expenses: []core.Expense{
			{Date: "2025-01-02", Category: "a|b", Amount: 10},
			{Date: "2025-01-03", Category: "a", Amount: 20},
		},
	}
	p := RunSpendingPatterns(fc).Payload
	if len(p.CategoryByMonth) != 2 {
		t.Fatalf("CategoryByMonth has %d cells, want 2", len(p.CategoryByMonth))
	}
	if len(p.TotalByCategory) != 2 {
		t.Fatalf("TotalByCategory has %d entries, want 2", len(p.TotalByCategory))
	}
}

func TestRunSpendingPatterns_Deterministic(t *testing.T) {
	fc := demoContext()
	a := RunSpendingPatterns(fc)
	b := RunSpendingPatterns(fc)
	for i := range a.Payload.TotalByCategory {
		if a.Payload.TotalByCategory[i] != b.Payload.TotalByCategory[i] {
			t.Fatalf("category ordering differs between runs")
		}
	}
	for i := range a.Payload.CategoryByMonth {
		if a.Payload.CategoryByMonth[i] != b.Payload.CategoryByMonth[i] {
			t.Fatalf("cell ordering differs between runs")
		}
	}
}
