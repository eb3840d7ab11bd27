// Package finance defines the ports between the analysis core and the
// data backends that materialize a user's financial context.
package finance

import (
	"context"

	"fincopilot/internal/core"
)

// Ports for outbound adapters.
type (
	// ContextProvider resolves one user's full financial snapshot. The
	// analysis core only ever receives the already-resolved value.
	ContextProvider interface {
		FetchContext(ctx context.Context, userID string) (*core.FinancialContext, error)
	}

	IncomeWriter interface {
		AddIncome(ctx context.Context, rec core.MonthlyIncome) (id string, err error)
	}

	ExpenseWriter interface {
		AddExpense(ctx context.Context, rec core.Expense) (id string, err error)
	}

	GoalWriter interface {
		AddGoal(ctx context.Context, rec core.SavingsGoal) (id string, err error)
	}

	// RecordStore is a backend that supports both reads and writes.
	RecordStore interface {
		ContextProvider
		IncomeWriter
		ExpenseWriter
		GoalWriter
	}
)
