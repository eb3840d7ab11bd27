package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// MonthlyIncome is one income record for a month. Several records may
	// share a month (multiple sources); callers sum them per month.
	MonthlyIncome struct {
		ID       string  `json:"id"`
		UserID   string  `json:"userId"`
		Month    string  `json:"month"` // YYYY-MM
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency,omitempty"`
		Source   string  `json:"source,omitempty"`
	}

	// Expense is a single dated expense. Category is an opaque,
	// case-sensitive label.
	Expense struct {
		ID          string  `json:"id"`
		UserID      string  `json:"userId"`
		Date        string  `json:"date"` // YYYY-MM-DD
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		Currency    string  `json:"currency,omitempty"`
		Description string  `json:"description,omitempty"`
	}

	// SavingsGoal is a target amount with optional deadline.
	SavingsGoal struct {
		ID            string  `json:"id"`
		UserID        string  `json:"userId"`
		Name          string  `json:"name"`
		TargetAmount  float64 `json:"targetAmount"`
		CurrentAmount float64 `json:"currentAmount"`
		Deadline      string  `json:"deadline,omitempty"` // YYYY-MM-DD, empty = none
		Currency      string  `json:"currency,omitempty"`
	}

	// FinancialContext is one user's full snapshot, assembled by a data
	// backend and immutable for the duration of an analysis run.
	FinancialContext struct {
		UserID        string          `json:"userId"`
		MonthlyIncome []MonthlyIncome `json:"monthlyIncome"`
		Expenses      []Expense       `json:"expenses"`
		SavingsGoals  []SavingsGoal   `json:"savingsGoals"`
		FetchedAt     time.Time       `json:"fetchedAt"`
	}
)

var (
	ErrInvalidMonth    = errors.New("invalid month, want YYYY-MM")
	ErrInvalidDate     = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyGoalName   = errors.New("empty goal name")
	ErrInvalidDeadline = errors.New("invalid deadline, want YYYY-MM-DD")
)

// MonthOfDate derives the YYYY-MM month from a YYYY-MM-DD date string.
func MonthOfDate(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// ValidMonth reports whether s is a well-formed YYYY-MM month.
func ValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil && len(s) == 7
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil && len(s) == 10
}

func (m MonthlyIncome) Validate() error {
	if !ValidMonth(m.Month) {
		return ErrInvalidMonth
	}
	if m.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if !ValidDate(e.Date) {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount < 0 {
		return ErrInvalidAmount
	}
	if g.Deadline != "" && !ValidDate(g.Deadline) {
		return ErrInvalidDeadline
	}
	return nil
}
