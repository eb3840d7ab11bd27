// Package google backs the finance ports with a Google Sheets
// spreadsheet holding one tab per record type.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fincopilot/internal/core"
	ports "fincopilot/internal/finance"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	incomeSheet   string
	expensesSheet string
	goalsSheet    string
}

// Ensure interface conformance
var _ ports.RecordStore = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional sheet names: GOOGLE_INCOME_SHEET_NAME (default "MonthlyIncome"),
// GOOGLE_EXPENSES_SHEET_NAME (default "Expenses"),
// GOOGLE_GOALS_SHEET_NAME (default "SavingsGoals").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	income := strings.TrimSpace(os.Getenv("GOOGLE_INCOME_SHEET_NAME"))
	if income == "" {
		income = "MonthlyIncome"
	}
	expenses := strings.TrimSpace(os.Getenv("GOOGLE_EXPENSES_SHEET_NAME"))
	if expenses == "" {
		expenses = "Expenses"
	}
	goals := strings.TrimSpace(os.Getenv("GOOGLE_GOALS_SHEET_NAME"))
	if goals == "" {
		goals = "SavingsGoals"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		incomeSheet:   income,
		expensesSheet: expenses,
		goalsSheet:    goals,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// FetchContext reads all three tabs and keeps only rows for userID. Rows
// that fail to parse are skipped with a warning rather than failing the
// whole snapshot.
func (c *Client) FetchContext(ctx context.Context, userID string) (*core.FinancialContext, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	incomeRows, err := c.readRows(ctx, c.incomeSheet, "A2:D")
	if err != nil {
		return nil, fmt.Errorf("read income: %w", err)
	}
	expenseRows, err := c.readRows(ctx, c.expensesSheet, "A2:E")
	if err != nil {
		return nil, fmt.Errorf("read expenses: %w", err)
	}
	goalRows, err := c.readRows(ctx, c.goalsSheet, "A2:F")
	if err != nil {
		return nil, fmt.Errorf("read goals: %w", err)
	}

	fc := newContext(userID)
	for i, row := range incomeRows {
		rec, err := parseIncomeRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping income row", "sheet", c.incomeSheet, "row", i+2, "error", err)
			continue
		}
		if rec.UserID == userID {
			fc.MonthlyIncome = append(fc.MonthlyIncome, rec)
		}
	}
	for i, row := range expenseRows {
		rec, err := parseExpenseRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping expense row", "sheet", c.expensesSheet, "row", i+2, "error", err)
			continue
		}
		if rec.UserID == userID {
			fc.Expenses = append(fc.Expenses, rec)
		}
	}
	for i, row := range goalRows {
		rec, err := parseGoalRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping goal row", "sheet", c.goalsSheet, "row", i+2, "error", err)
			continue
		}
		if rec.UserID == userID {
			fc.SavingsGoals = append(fc.SavingsGoals, rec)
		}
	}
	return fc, nil
}

func (c *Client) AddIncome(ctx context.Context, rec core.MonthlyIncome) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.incomeSheet, "A:D", []any{rec.ID, rec.UserID, rec.Month, rec.Amount})
}

func (c *Client) AddExpense(ctx context.Context, rec core.Expense) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.expensesSheet, "A:E", []any{rec.ID, rec.UserID, rec.Date, rec.Category, rec.Amount})
}

func (c *Client) AddGoal(ctx context.Context, rec core.SavingsGoal) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.goalsSheet, "A:F",
		[]any{rec.ID, rec.UserID, rec.Name, rec.TargetAmount, rec.CurrentAmount, rec.Deadline})
}

func (c *Client) readRows(ctx context.Context, sheetName, cols string) ([][]any, error) {
	rng := fmt.Sprintf("%s!%s", sheetName, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// appendRow finds the next empty row in the sheet and writes the record
// there, returning a cell-range reference usable as a record id.
func (c *Client) appendRow(ctx context.Context, sheetName, cols string, values []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	parts := strings.SplitN(cols, ":", 2)
	dataRange := fmt.Sprintf("%s!%s%d:%s%d", sheetName, parts[0], nextRow, parts[1], nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{values}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", dataRange, err)
	}
	return dataRange, nil
}
