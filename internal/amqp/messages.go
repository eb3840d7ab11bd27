package amqp

import (
	"encoding/json"
	"time"
)

// AnalysisRefreshMessage asks the report worker to rebuild one user's
// advisory report. It carries only the user id and the reason; the worker
// fetches the full financial context from the data backend.
type AnalysisRefreshMessage struct {
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Reasons for a refresh request.
const (
	ReasonIncomeAdded  = "income_added"
	ReasonExpenseAdded = "expense_added"
	ReasonGoalAdded    = "goal_added"
	ReasonManual       = "manual"
)

func NewAnalysisRefreshMessage(userID, reason string) *AnalysisRefreshMessage {
	return &AnalysisRefreshMessage{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *AnalysisRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AnalysisRefreshMessageFromJSON(data []byte) (*AnalysisRefreshMessage, error) {
	var msg AnalysisRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
