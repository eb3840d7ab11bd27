// Package agents implements the independent aggregation passes over one
// user's financial context. Every agent is a pure function of the context:
// no I/O, no shared state, safe to run concurrently.
package agents

import "fmt"

// Agent identifiers, stable across the API surface.
const (
	AgentSpendingPatterns   = "spending-patterns"
	AgentOverspending       = "overspending-categories"
	AgentMonthlyTrends      = "monthly-trends"
	AgentSavingsConsistency = "savings-consistency"
)

// Result is the uniform envelope every agent returns. An agent never
// panics past its own boundary: internal failures surface as Err with an
// empty payload. Consumers must check Failed before trusting the payload.
type Result[T any] struct {
	AgentID string `json:"agentId"`
	Payload T      `json:"payload"`
	Err     string `json:"error,omitempty"`
}

// Failed reports whether the agent aborted and the payload is empty.
func (r Result[T]) Failed() bool {
	return r.Err != ""
}

// guard converts a panic inside an agent into a failed Result.
func guard[T any](res *Result[T]) {
	if r := recover(); r != nil {
		var empty T
		res.Payload = empty
		res.Err = fmt.Sprintf("%v", r)
	}
}
