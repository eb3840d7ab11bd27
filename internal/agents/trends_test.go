package agents

import (
	"math"
	"testing"

	"fincopilot/internal/core"
)

func TestRunMonthlyTrends_FirstEntryHasNoChange(t *testing.T) {
	p := RunMonthlyTrends(demoContext()).Payload

	if len(p.ExpenseTrend) != 3 {
		t.Fatalf("ExpenseTrend has %d entries, want 3", len(p.ExpenseTrend))
	}
	first := p.ExpenseTrend[0]
	if first.ChangeVsPrev != nil || first.ChangePct != nil {
		t.Errorf("first entry must carry no change, got %+v", first)
	}
	second := p.ExpenseTrend[1]
	if second.ChangeVsPrev == nil || *second.ChangeVsPrev != 22399-17799 {
		t.Errorf("second entry ChangeVsPrev = %v, want 4600", second.ChangeVsPrev)
	}
	if second.ChangePct == nil {
		t.Fatalf("second entry ChangePct must be defined")
	}
}

func TestRunMonthlyTrends_ZeroPrevLeavesPctUndefined(t *testing.T) {
	fc := &core.FinancialContext{
		MonthlyIncome: []core.MonthlyIncome{
			{Month: "2025-01", Amount: 0},
			{Month: "2025-02", Amount: 5000},
		},
	}
	p := RunMonthlyTrends(fc).Payload
	if len(p.IncomeTrend) != 2 {
		t.Fatalf("IncomeTrend has %d entries, want 2", len(p.IncomeTrend))
	}
	second := p.IncomeTrend[1]
	if second.ChangeVsPrev == nil || *second.ChangeVsPrev != 5000 {
		t.Errorf("ChangeVsPrev = %v, want 5000", second.ChangeVsPrev)
	}
	if second.ChangePct != nil {
		t.Errorf("ChangePct = %v, want nil when previous value is 0", *second.ChangePct)
	}
}

func TestRunMonthlyTrends_SortedLexicographically(t *testing.T) {
	fc := &core.FinancialContext{
		Expenses: []core.Expense{
			{Date: "2025-03-01", Category: "Food", Amount: 10},
			{Date: "2025-01-01", Category: "Food", Amount: 20},
			{Date: "2025-02-01", Category: "Food", Amount: 30},
		},
	}
	p := RunMonthlyTrends(fc).Payload
	want := []string{"2025-01", "2025-02", "2025-03"}
	for i, m := range want {
		if p.ExpenseTrend[i].Month != m {
			t.Errorf("ExpenseTrend[%d].Month = %s, want %s", i, p.ExpenseTrend[i].Month, m)
		}
	}
}

func TestRunMonthlyTrends_SavingsRate(t *testing.T) {
	p := RunMonthlyTrends(demoContext()).Payload
	if len(p.SavingsRateByMonth) != 3 {
		t.Fatalf("SavingsRateByMonth has %d entries, want 3", len(p.SavingsRateByMonth))
	}
	for _, s := range p.SavingsRateByMonth {
		if s.RatePct <= 0 {
			t.Errorf("savings rate for %s = %v, want positive", s.Month, s.RatePct)
		}
		if s.Savings != s.Income-s.Expense {
			t.Errorf("savings for %s = %v, want income-expense = %v", s.Month, s.Savings, s.Income-s.Expense)
		}
	}
	jan := p.SavingsRateByMonth[0]
	wantRate := (30000.0 - 17799.0) / 30000.0 * 100
	if math.Abs(jan.RatePct-wantRate) > 1e-9 {
		t.Errorf("January rate = %v, want %v", jan.RatePct, wantRate)
	}
}

func TestRunMonthlyTrends_ZeroIncomeRateIsZero(t *testing.T) {
	fc := &core.FinancialContext{
		Expenses: []core.Expense{{Date: "2025-01-05", Category: "Food", Amount: 400}},
	}
	p := RunMonthlyTrends(fc).Payload
	if len(p.SavingsRateByMonth) != 1 {
		t.Fatalf("SavingsRateByMonth has %d entries, want 1", len(p.SavingsRateByMonth))
	}
	s := p.SavingsRateByMonth[0]
	if s.RatePct != 0 {
		t.Errorf("RatePct = %v, want 0 when income is 0", s.RatePct)
	}
	if s.Savings != -400 {
		t.Errorf("Savings = %v, want -400", s.Savings)
	}
}

func TestRunMonthlyTrends_RisingAndFallingMonths(t *testing.T) {
	fc := &core.FinancialContext{
		MonthlyIncome: []core.MonthlyIncome{
			{Month: "2025-01", Amount: 3000},
			{Month: "2025-02", Amount: 2500},
			{Month: "2025-03", Amount: 2600},
		},
		Expenses: []core.Expense{
			{Date: "2025-01-01", Category: "Food", Amount: 100},
			{Date: "2025-02-01", Category: "Food", Amount: 300},
			{Date: "2025-03-01", Category: "Food", Amount: 200},
		},
	}
	p := RunMonthlyTrends(fc).Payload
	if len(p.IncreasingExpenseMonths) != 1 || p.IncreasingExpenseMonths[0] != "2025-02" {
		t.Errorf("IncreasingExpenseMonths = %v, want [2025-02]", p.IncreasingExpenseMonths)
	}
	if len(p.DecreasingIncomeMonths) != 1 || p.DecreasingIncomeMonths[0] != "2025-02" {
		t.Errorf("DecreasingIncomeMonths = %v, want [2025-02]", p.DecreasingIncomeMonths)
	}
}

func TestRunMonthlyTrends_Empty(t *testing.T) {
	res := RunMonthlyTrends(&core.FinancialContext{})
	if res.Failed() {
		t.Fatalf("empty context must not fail, got %q", res.Err)
	}
	p := res.Payload
	if len(p.ExpenseTrend) != 0 || len(p.IncomeTrend) != 0 || len(p.SavingsRateByMonth) != 0 {
		t.Errorf("expected empty series, got %+v", p)
	}
}
