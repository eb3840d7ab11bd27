package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fincopilot/internal/core"
)

func newContext(userID string) *core.FinancialContext {
	return &core.FinancialContext{
		UserID:        userID,
		MonthlyIncome: []core.MonthlyIncome{},
		Expenses:      []core.Expense{},
		SavingsGoals:  []core.SavingsGoal{},
		FetchedAt:     time.Now(),
	}
}

// Row layouts, one record per row below a header line:
//
//	MonthlyIncome: id | user_id | month | amount
//	Expenses:      id | user_id | date | category | amount
//	SavingsGoals:  id | user_id | name | target_amount | current_amount | deadline

func parseIncomeRow(row []any) (core.MonthlyIncome, error) {
	if len(row) < 4 {
		return core.MonthlyIncome{}, fmt.Errorf("expected 4 columns, got %d", len(row))
	}
	amount, err := parseAmount(row[3])
	if err != nil {
		return core.MonthlyIncome{}, err
	}
	rec := core.MonthlyIncome{
		ID:     cell(row, 0),
		UserID: cell(row, 1),
		Month:  cell(row, 2),
		Amount: amount,
	}
	return rec, rec.Validate()
}

func parseExpenseRow(row []any) (core.Expense, error) {
	if len(row) < 5 {
		return core.Expense{}, fmt.Errorf("expected 5 columns, got %d", len(row))
	}
	amount, err := parseAmount(row[4])
	if err != nil {
		return core.Expense{}, err
	}
	rec := core.Expense{
		ID:       cell(row, 0),
		UserID:   cell(row, 1),
		Date:     cell(row, 2),
		Category: cell(row, 3),
		Amount:   amount,
	}
	return rec, rec.Validate()
}

func parseGoalRow(row []any) (core.SavingsGoal, error) {
	if len(row) < 5 {
		return core.SavingsGoal{}, fmt.Errorf("expected at least 5 columns, got %d", len(row))
	}
	target, err := parseAmount(row[3])
	if err != nil {
		return core.SavingsGoal{}, err
	}
	current, err := parseAmount(row[4])
	if err != nil {
		return core.SavingsGoal{}, err
	}
	rec := core.SavingsGoal{
		ID:            cell(row, 0),
		UserID:        cell(row, 1),
		Name:          cell(row, 2),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      cell(row, 5),
	}
	return rec, rec.Validate()
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

// parseAmount accepts numbers as Sheets returns them, plus strings with
// currency symbols or thousands separators typed by hand.
func parseAmount(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", v, err)
	}
	return f, nil
}
