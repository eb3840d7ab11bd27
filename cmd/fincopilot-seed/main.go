// Command fincopilot-seed loads test data into the configured backend.
// By default it writes the demo user's three months of history; with
// --five-users it creates five users with five months of randomized
// records each.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"fincopilot/internal/backend"
	"fincopilot/internal/cli"
	"fincopilot/internal/core"
	"fincopilot/internal/finance"
)

var categories = []string{"Food", "Rent", "Entertainment", "Transport", "Shopping", "Health", "Utilities"}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	fiveUsers := false
	for _, a := range os.Args[1:] {
		if a == "--five-users" {
			fiveUsers = true
		}
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	backendCfg.AMQPURL = ""

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create data backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			result.Cleanup()
		}
	}()

	ctx := context.Background()
	if fiveUsers {
		for i := 1; i <= 5; i++ {
			userID := fmt.Sprintf("user%d", i)
			if err := seedRandomUser(ctx, result.Store, userID, 30000+float64(rand.Intn(15001))); err != nil {
				logger.Error("Seeding failed", "user_id", userID, "error", err)
				os.Exit(1)
			}
			logger.Info("Seeded user", "user_id", userID)
		}
		fmt.Println("Done. Seeded users: user1 … user5")
		return
	}

	if err := seedDemoUser(ctx, result.Store, cfg.DefaultUserID); err != nil {
		logger.Error("Seeding failed", "user_id", cfg.DefaultUserID, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Done. Seeded demo data for %s\n", cfg.DefaultUserID)
}

// seedDemoUser writes the fixed demo dataset: income 30000 for three
// months, expenses matching 17799/22399/17399, and an untouched
// emergency fund due six months out.
func seedDemoUser(ctx context.Context, store finance.RecordStore, userID string) error {
	for _, month := range []string{"2025-01", "2025-02", "2025-03"} {
		if _, err := store.AddIncome(ctx, core.MonthlyIncome{
			UserID: userID, Month: month, Amount: 30000, Source: "Salary",
		}); err != nil {
			return err
		}
	}

	expenses := []core.Expense{
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
	for _, e := range expenses {
		e.UserID = userID
		if _, err := store.AddExpense(ctx, e); err != nil {
			return err
		}
	}

	_, err := store.AddGoal(ctx, core.SavingsGoal{
		UserID:       userID,
		Name:         "Emergency Fund",
		TargetAmount: 60000,
		Deadline:     time.Now().AddDate(0, 6, 0).Format("2006-01-02"),
	})
	return err
}

func seedRandomUser(ctx context.Context, store finance.RecordStore, userID string, baseIncome float64) error {
	months := []string{"2025-04", "2025-05", "2025-06", "2025-07", "2025-08"}

	for _, month := range months {
		amount := baseIncome + float64(rand.Intn(4001)-2000)
		if amount < 0 {
			amount = 0
		}
		if _, err := store.AddIncome(ctx, core.MonthlyIncome{
			UserID: userID, Month: month, Amount: amount, Source: "Salary",
		}); err != nil {
			return err
		}
	}

	for _, month := range months {
		first, _ := time.Parse("2006-01", month)
		daysInMonth := first.AddDate(0, 1, -1).Day()
		numExpenses := 8 + rand.Intn(8)
		for i := 0; i < numExpenses; i++ {
			day := 1 + rand.Intn(daysInMonth)
			if _, err := store.AddExpense(ctx, core.Expense{
				UserID:   userID,
				Date:     fmt.Sprintf("%s-%02d", month, day),
				Category: categories[rand.Intn(len(categories))],
				Amount:   float64(100 + rand.Intn(4901)),
			}); err != nil {
				return err
			}
		}
	}

	deadline := time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	goals := []core.SavingsGoal{
		{Name: "Emergency Fund", TargetAmount: 60000, CurrentAmount: float64(5000 + rand.Intn(20001))},
		{Name: "Vacation", TargetAmount: 30000, CurrentAmount: float64(rand.Intn(10001))},
	}
	for _, g := range goals {
		g.UserID = userID
		g.Deadline = deadline
		if _, err := store.AddGoal(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
