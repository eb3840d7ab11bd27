// Package memory provides an in-memory record store, used for local
// development and as the default data backend.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fincopilot/internal/core"
)

type Store struct {
	mu      sync.Mutex
	income  []core.MonthlyIncome
	expense []core.Expense
	goals   []core.SavingsGoal
	nextID  int
}

func New() *Store {
	return &Store{nextID: 1}
}

// NewWithDemoData returns a store preloaded with the demo user's records:
// three months of income at 30000 against expenses of 17799, 22399 and
// 17399, plus an untouched 60000 emergency fund due six months out.
func NewWithDemoData(userID string) *Store {
	s := New()
	deadline := time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	ctx := context.Background()
	for i, month := range []string{"2025-01", "2025-02", "2025-03"} {
		s.AddIncome(ctx, core.MonthlyIncome{
			ID: fmt.Sprintf("%d", i+1), UserID: userID, Month: month, Amount: 30000,
		})
	}
	demo := []core.Expense{
		{Date: "2025-01-05", Category: "Rent", Amount: 8000},
		{Date: "2025-01-10", Category: "Food", Amount: 5879},
		{Date: "2025-01-15", Category: "Entertainment", Amount: 3920},
		{Date: "2025-02-05", Category: "Rent", Amount: 8000},
		{Date: "2025-02-12", Category: "Food", Amount: 8640},
		{Date: "2025-02-18", Category: "Entertainment", Amount: 5759},
		{Date: "2025-03-05", Category: "Rent", Amount: 8000},
		{Date: "2025-03-11", Category: "Food", Amount: 5640},
		{Date: "2025-03-20", Category: "Entertainment", Amount: 3759},
	}
	for _, e := range demo {
		e.UserID = userID
		s.AddExpense(ctx, e)
	}
	s.AddGoal(ctx, core.SavingsGoal{
		UserID: userID, Name: "Emergency Fund", TargetAmount: 60000, CurrentAmount: 0, Deadline: deadline,
	})
	return s
}

// FetchContext returns a snapshot for userID. Records are copied so the
// returned context stays immutable while the store keeps accepting writes.
func (s *Store) FetchContext(_ context.Context, userID string) (*core.FinancialContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fc := &core.FinancialContext{
		UserID:        userID,
		MonthlyIncome: []core.MonthlyIncome{},
		Expenses:      []core.Expense{},
		SavingsGoals:  []core.SavingsGoal{},
		FetchedAt:     time.Now(),
	}
	for _, m := range s.income {
		if m.UserID == userID {
			fc.MonthlyIncome = append(fc.MonthlyIncome, m)
		}
	}
	for _, e := range s.expense {
		if e.UserID == userID {
			fc.Expenses = append(fc.Expenses, e)
		}
	}
	for _, g := range s.goals {
		if g.UserID == userID {
			fc.SavingsGoals = append(fc.SavingsGoals, g)
		}
	}
	return fc, nil
}

func (s *Store) AddIncome(_ context.Context, rec core.MonthlyIncome) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	s.income = append(s.income, rec)
	return rec.ID, nil
}

func (s *Store) AddExpense(_ context.Context, rec core.Expense) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	s.expense = append(s.expense, rec)
	return rec.ID, nil
}

func (s *Store) AddGoal(_ context.Context, rec core.SavingsGoal) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	s.goals = append(s.goals, rec)
	return rec.ID, nil
}

// newID must be called with the mutex held.
func (s *Store) newID() string {
	id := fmt.Sprintf("mem:%d", s.nextID)
	s.nextID++
	return id
}
