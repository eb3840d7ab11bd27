package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"fincopilot/internal/log"
	"fincopilot/internal/services"
)

const maxBodyBytes = 10 << 10 // 10kb, matches the ask payload ceiling

type askRequest struct {
	Question string `json:"question"`
	UserID   string `json:"userId"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req askRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	question := strings.TrimSpace(sanitizeInput(req.Question))
	if question == "" {
		writeError(w, http.StatusBadRequest, "question required")
		return
	}

	answer, err := s.copilot.Ask(r.Context(), s.resolveUserID(req.UserID), question)
	if err != nil {
		if errors.Is(err, services.ErrAnswererUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Copilot unavailable. Set OPENAI_API_KEY.")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Ask failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Internal error. Try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"answer": answer})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report, err := s.copilot.Analyze(r.Context(), s.userIDFromQuery(r))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Analysis failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Internal error. Try again.")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report, err := s.copilot.Report(r.Context(), s.userIDFromQuery(r))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Report failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Internal error. Try again.")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"openai":       s.opts.OpenAIEnabled,
		"uptime":       time.Since(s.startedAt).String(),
		"blocked":      atomic.LoadInt64(&s.security.suspiciousRequests),
		"rate_limited": atomic.LoadInt64(&s.security.rateLimitHits),
	})
}

func (s *Server) resolveUserID(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return s.opts.DefaultUserID
	}
	return requested
}

func (s *Server) userIDFromQuery(r *http.Request) string {
	return s.resolveUserID(r.URL.Query().Get("userId"))
}
