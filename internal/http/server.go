// Package http exposes the copilot over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fincopilot/internal/analysis"
	"fincopilot/internal/core"
	"fincopilot/internal/log"
)

// Copilot is the service surface the API exposes.
type Copilot interface {
	Analyze(ctx context.Context, userID string) (*analysis.Report, error)
	Report(ctx context.Context, userID string) (string, error)
	Ask(ctx context.Context, userID, question string) (string, error)
	AddIncome(ctx context.Context, rec core.MonthlyIncome) (string, error)
	AddExpense(ctx context.Context, rec core.Expense) (string, error)
	AddGoal(ctx context.Context, rec core.SavingsGoal) (string, error)
}

// Options tune request handling without touching the service layer.
type Options struct {
	// CORSOrigin is echoed in Access-Control-Allow-Origin. "*" allows all.
	CORSOrigin string
	// DefaultUserID serves requests that carry no user id.
	DefaultUserID string
	// OpenAIEnabled is reported by the health endpoint so clients know
	// whether /api/ask can answer.
	OpenAIEnabled bool
}

type Server struct {
	http.Server
	copilot     Copilot
	opts        Options
	logger      *log.Logger
	rateLimiter *rateLimiter
	security    *securityMetrics
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, copilot Copilot, opts Options) *Server {
	if opts.DefaultUserID == "" {
		opts.DefaultUserID = "default-user"
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}

	mux := http.NewServeMux()
	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: log.Middleware(logger)(log.RequestIDMiddleware(ensureRequestID)(mux)),
		},
		copilot:     copilot,
		opts:        opts,
		logger:      logger,
		rateLimiter: newRateLimiter(),
		security:    &securityMetrics{},
		startedAt:   time.Now(),
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/ask", s.protect(s.handleAsk))
	mux.HandleFunc("/api/analysis", s.protect(s.handleAnalysis))
	mux.HandleFunc("/api/report", s.protect(s.handleReport))
	mux.HandleFunc("/api/income", s.protect(s.handleAddIncome))
	mux.HandleFunc("/api/expenses", s.protect(s.handleAddExpense))
	mux.HandleFunc("/api/goals", s.protect(s.handleAddGoal))

	return s
}

// protect wraps a handler with security headers, CORS, rate limiting, and
// request tracing.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := ensureRequestID(r)
		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		s.applyCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		clientIP := extractClientIP(r)
		fields := log.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path)
		fields[log.FieldRequestID] = requestID
		fields[log.FieldClientIP] = clientIP

		if detectSuspiciousRequest(r, s.security) {
			s.logger.WarnContext(r.Context(), "Suspicious request blocked", fields.ToSlice()...)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if !s.rateLimiter.allow(clientIP, s.security) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded", fields.ToSlice()...)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next(w, r)
	}
}

func (s *Server) applyCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", s.opts.CORSOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if s.opts.CORSOrigin != "*" {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

// Shutdown stops the rate limiter cleanup and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
