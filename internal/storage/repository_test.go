package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fincopilot/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AddIncome(ctx, core.MonthlyIncome{UserID: "u1", Month: "2025-01", Amount: 30000}); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	expID, err := repo.AddExpense(ctx, core.Expense{UserID: "u1", Date: "2025-01-05", Category: "Rent", Amount: 8000})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if expID == "" {
		t.Error("expected a generated expense id")
	}
	if _, err := repo.AddGoal(ctx, core.SavingsGoal{
		UserID: "u1", Name: "Emergency Fund", TargetAmount: 60000, Deadline: "2025-12-31",
	}); err != nil {
		t.Fatalf("AddGoal: %v", err)
	}

	fc, err := repo.FetchContext(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchContext: %v", err)
	}
	if len(fc.MonthlyIncome) != 1 || fc.MonthlyIncome[0].Amount != 30000 {
		t.Errorf("unexpected income: %+v", fc.MonthlyIncome)
	}
	if len(fc.Expenses) != 1 || fc.Expenses[0].Category != "Rent" {
		t.Errorf("unexpected expenses: %+v", fc.Expenses)
	}
	if len(fc.SavingsGoals) != 1 || fc.SavingsGoals[0].Deadline != "2025-12-31" {
		t.Errorf("unexpected goals: %+v", fc.SavingsGoals)
	}
	if fc.FetchedAt.IsZero() {
		t.Error("FetchedAt must be set")
	}
}

func TestFetchContextFiltersByUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.AddExpense(ctx, core.Expense{UserID: "u1", Date: "2025-01-05", Category: "Food", Amount: 100})
	repo.AddExpense(ctx, core.Expense{UserID: "u2", Date: "2025-01-06", Category: "Food", Amount: 200})

	fc, err := repo.FetchContext(ctx, "u2")
	if err != nil {
		t.Fatalf("FetchContext: %v", err)
	}
	if len(fc.Expenses) != 1 || fc.Expenses[0].Amount != 200 {
		t.Errorf("expected only u2's expense, got %+v", fc.Expenses)
	}
}

func TestFetchContextEmptyUser(t *testing.T) {
	repo := newTestRepo(t)

	fc, err := repo.FetchContext(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FetchContext: %v", err)
	}
	if fc.MonthlyIncome == nil || fc.Expenses == nil || fc.SavingsGoals == nil {
		t.Error("slices must be empty, not nil")
	}
	if len(fc.MonthlyIncome)+len(fc.Expenses)+len(fc.SavingsGoals) != 0 {
		t.Errorf("expected empty context, got %+v", fc)
	}
}

func TestWriteRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AddIncome(ctx, core.MonthlyIncome{UserID: "u", Month: "2025-13", Amount: 1}); err == nil {
		t.Error("expected error for impossible month")
	}
	if _, err := repo.AddExpense(ctx, core.Expense{UserID: "u", Date: "2025-01-05", Category: "Food", Amount: -1}); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := repo.AddGoal(ctx, core.SavingsGoal{UserID: "u", Name: "Trip", TargetAmount: 100, Deadline: "soon"}); err == nil {
		t.Error("expected error for malformed deadline")
	}
}
