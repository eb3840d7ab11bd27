// Package storage persists financial records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fincopilot/internal/core"
	ports "fincopilot/internal/finance"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.RecordStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchContext assembles one user's snapshot. Record order follows
// insertion order within each table.
func (r *SQLiteRepository) FetchContext(ctx context.Context, userID string) (*core.FinancialContext, error) {
	fc := &core.FinancialContext{
		UserID:        userID,
		MonthlyIncome: []core.MonthlyIncome{},
		Expenses:      []core.Expense{},
		SavingsGoals:  []core.SavingsGoal{},
		FetchedAt:     time.Now(),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, month, amount, currency, source
		 FROM monthly_income WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query monthly income: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec core.MonthlyIncome
		var id int64
		if err := rows.Scan(&id, &rec.UserID, &rec.Month, &rec.Amount, &rec.Currency, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan monthly income: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		fc.MonthlyIncome = append(fc.MonthlyIncome, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly income: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, user_id, date, category, amount, currency, description
		 FROM expenses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec core.Expense
		var id int64
		if err := rows.Scan(&id, &rec.UserID, &rec.Date, &rec.Category, &rec.Amount, &rec.Currency, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		fc.Expenses = append(fc.Expenses, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline, currency
		 FROM savings_goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query savings goals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec core.SavingsGoal
		var id int64
		if err := rows.Scan(&id, &rec.UserID, &rec.Name, &rec.TargetAmount, &rec.CurrentAmount, &rec.Deadline, &rec.Currency); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		fc.SavingsGoals = append(fc.SavingsGoals, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate savings goals: %w", err)
	}

	return fc, nil
}

func (r *SQLiteRepository) AddIncome(ctx context.Context, rec core.MonthlyIncome) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_income (user_id, month, amount, currency, source)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.UserID, rec.Month, rec.Amount, rec.Currency, rec.Source)
	if err != nil {
		return "", fmt.Errorf("insert monthly income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("monthly income id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		"id", id,
		"user_id", rec.UserID,
		"month", rec.Month,
		"amount", rec.Amount)

	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, rec core.Expense) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, date, category, amount, currency, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.Date, rec.Category, rec.Amount, rec.Currency, rec.Description)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"user_id", rec.UserID,
		"category", rec.Category,
		"amount", rec.Amount,
		"date", rec.Date)

	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) AddGoal(ctx context.Context, rec core.SavingsGoal) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (user_id, name, target_amount, current_amount, deadline, currency)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.Name, rec.TargetAmount, rec.CurrentAmount, rec.Deadline, rec.Currency)
	if err != nil {
		return "", fmt.Errorf("insert savings goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("savings goal id: %w", err)
	}

	slog.InfoContext(ctx, "Savings goal saved to SQLite",
		"id", id,
		"user_id", rec.UserID,
		"name", rec.Name,
		"target_amount", rec.TargetAmount)

	return strconv.FormatInt(id, 10), nil
}
