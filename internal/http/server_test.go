package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fincopilot/internal/analysis"
	"fincopilot/internal/core"
	"fincopilot/internal/services"
)

type stubCopilot struct {
	askAnswer  string
	askErr     error
	report     *analysis.Report
	analyzeErr error
	lastUserID string
	lastRecord any
	writeErr   error
}

func (c *stubCopilot) Analyze(ctx context.Context, userID string) (*analysis.Report, error) {
	c.lastUserID = userID
	return c.report, c.analyzeErr
}

func (c *stubCopilot) Report(ctx context.Context, userID string) (string, error) {
	c.lastUserID = userID
	if c.analyzeErr != nil {
		return "", c.analyzeErr
	}
	return analysis.FormatReport(c.report.Output), nil
}

func (c *stubCopilot) Ask(ctx context.Context, userID, question string) (string, error) {
	c.lastUserID = userID
	return c.askAnswer, c.askErr
}

func (c *stubCopilot) AddIncome(ctx context.Context, rec core.MonthlyIncome) (string, error) {
	c.lastRecord = rec
	if c.writeErr != nil {
		return "", c.writeErr
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}
	return "1", nil
}

func (c *stubCopilot) AddExpense(ctx context.Context, rec core.Expense) (string, error) {
	c.lastRecord = rec
	if c.writeErr != nil {
		return "", c.writeErr
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}
	return "2", nil
}

func (c *stubCopilot) AddGoal(ctx context.Context, rec core.SavingsGoal) (string, error) {
	c.lastRecord = rec
	if c.writeErr != nil {
		return "", c.writeErr
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}
	return "3", nil
}

func testReport() *analysis.Report {
	return &analysis.Report{
		UserID: "u1",
		Output: analysis.AdvisoryOutput{
			Summary:               "A summary.",
			KeyInsights:           []string{"Total income: ₹90,000. Total expenses: ₹57,597. Net (money in hand): ₹32,403."},
			RisksWarnings:         []string{"No major risks detected in the analyzed period."},
			ActionableSuggestions: []string{"Do something useful."},
		},
	}
}

func newTestServer(copilot *stubCopilot) *Server {
	return NewServer(":0", copilot, Options{DefaultUserID: "demo-user", OpenAIEnabled: true})
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk(t *testing.T) {
	tests := []struct {
		name       string
		copilot    *stubCopilot
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid question",
			copilot:    &stubCopilot{askAnswer: "You have ₹32,403 in hand."},
			body:       `{"question":"how much money do I have?"}`,
			wantStatus: http.StatusOK,
			wantBody:   "₹32,403",
		},
		{
			name:       "missing question",
			copilot:    &stubCopilot{},
			body:       `{"question":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "question required",
		},
		{
			name:       "invalid json",
			copilot:    &stubCopilot{},
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid JSON body",
		},
		{
			name:       "llm unavailable",
			copilot:    &stubCopilot{askErr: services.ErrAnswererUnavailable},
			body:       `{"question":"hi"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "Copilot unavailable. Set OPENAI_API_KEY.",
		},
		{
			name:       "internal failure",
			copilot:    &stubCopilot{askErr: errors.New("boom")},
			body:       `{"question":"hi"}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal error. Try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(newTestServer(tt.copilot), http.MethodPost, "/api/ask", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want substring %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleAskMethodNotAllowed(t *testing.T) {
	rec := doRequest(newTestServer(&stubCopilot{}), http.MethodGet, "/api/ask", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleAskDefaultsUser(t *testing.T) {
	copilot := &stubCopilot{askAnswer: "ok"}
	doRequest(newTestServer(copilot), http.MethodPost, "/api/ask", `{"question":"hi"}`)
	if copilot.lastUserID != "demo-user" {
		t.Errorf("user id = %q, want default", copilot.lastUserID)
	}

	doRequest(newTestServer(copilot), http.MethodPost, "/api/ask", `{"question":"hi","userId":"alice"}`)
	if copilot.lastUserID != "alice" {
		t.Errorf("user id = %q, want alice", copilot.lastUserID)
	}
}

func TestHandleAnalysis(t *testing.T) {
	copilot := &stubCopilot{report: testReport()}
	rec := doRequest(newTestServer(copilot), http.MethodGet, "/api/analysis?userId=u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report analysis.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(report.Output.KeyInsights) != 1 {
		t.Errorf("unexpected payload: %+v", report.Output)
	}
	if copilot.lastUserID != "u1" {
		t.Errorf("user id = %q", copilot.lastUserID)
	}
}

func TestHandleReport(t *testing.T) {
	rec := doRequest(newTestServer(&stubCopilot{report: testReport()}), http.MethodGet, "/api/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "## Summary") {
		t.Errorf("report body missing markdown headings: %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubCopilot{})
	for _, path := range []string{"/api/health", "/healthz"} {
		rec := doRequest(srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body["ok"] != true || body["openai"] != true {
			t.Errorf("%s: unexpected health payload: %v", path, body)
		}
	}
}

func TestHandleAddRecords(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"income created", "/api/income", `{"month":"2025-04","amount":30000}`, http.StatusCreated},
		{"income invalid month", "/api/income", `{"month":"April","amount":30000}`, http.StatusBadRequest},
		{"expense created", "/api/expenses", `{"date":"2025-04-02","category":"Food","amount":450}`, http.StatusCreated},
		{"expense missing category", "/api/expenses", `{"date":"2025-04-02","amount":450}`, http.StatusBadRequest},
		{"goal created", "/api/goals", `{"name":"Trip","targetAmount":5000}`, http.StatusCreated},
		{"goal bad deadline", "/api/goals", `{"name":"Trip","targetAmount":5000,"deadline":"soon"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(newTestServer(&stubCopilot{}), http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRecordWriteFillsDefaultUser(t *testing.T) {
	copilot := &stubCopilot{}
	doRequest(newTestServer(copilot), http.MethodPost, "/api/expenses", `{"date":"2025-04-02","category":"Food","amount":450}`)

	rec, ok := copilot.lastRecord.(core.Expense)
	if !ok {
		t.Fatalf("record = %T", copilot.lastRecord)
	}
	if rec.UserID != "demo-user" {
		t.Errorf("user id = %q", rec.UserID)
	}
}

func TestSuspiciousRequestBlocked(t *testing.T) {
	rec := doRequest(newTestServer(&stubCopilot{report: testReport()}), http.MethodGet, "/api/analysis?q=../etc/passwd", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := doRequest(newTestServer(&stubCopilot{}), http.MethodOptions, "/api/ask", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("1.2.3.4", nil) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4", nil) {
		t.Error("request 61 should be rejected")
	}
	if !rl.allow("5.6.7.8", nil) {
		t.Error("other clients must not be affected")
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.9:4312",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded via trusted proxy",
			remoteAddr: "10.0.0.5:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.5"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from untrusted peer ignored",
			remoteAddr: "203.0.113.50:80",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:       "203.0.113.50",
		},
		{
			name:       "real ip via trusted proxy",
			remoteAddr: "127.0.0.1:9999",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := extractClientIP(req); got != tt.want {
				t.Errorf("extractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
