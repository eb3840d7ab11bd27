package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fincopilot/internal/core"
	"fincopilot/internal/log"
)

type incomeRequest struct {
	UserID string  `json:"userId"`
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
}

type expenseRequest struct {
	UserID      string  `json:"userId"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type goalRequest struct {
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if !decodeRecordBody(w, r, &req) {
		return
	}

	id, err := s.copilot.AddIncome(r.Context(), core.MonthlyIncome{
		UserID: s.resolveUserID(req.UserID),
		Month:  strings.TrimSpace(req.Month),
		Amount: req.Amount,
		Source: sanitizeInput(req.Source),
	})
	writeRecordResult(w, r, "income", id, err)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeRecordBody(w, r, &req) {
		return
	}

	id, err := s.copilot.AddExpense(r.Context(), core.Expense{
		UserID:      s.resolveUserID(req.UserID),
		Date:        strings.TrimSpace(req.Date),
		Category:    sanitizeInput(req.Category),
		Amount:      req.Amount,
		Description: sanitizeInput(req.Description),
	})
	writeRecordResult(w, r, "expense", id, err)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeRecordBody(w, r, &req) {
		return
	}

	id, err := s.copilot.AddGoal(r.Context(), core.SavingsGoal{
		UserID:        s.resolveUserID(req.UserID),
		Name:          sanitizeInput(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      strings.TrimSpace(req.Deadline),
	})
	writeRecordResult(w, r, "goal", id, err)
}

func decodeRecordBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeRecordResult(w http.ResponseWriter, r *http.Request, kind, id string, err error) {
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Record write failed", "kind", kind, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Internal error. Try again.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidMonth,
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrEmptyCategory,
		core.ErrEmptyGoalName,
		core.ErrInvalidDeadline,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
