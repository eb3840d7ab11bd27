package agents

import "fincopilot/internal/core"

// SavingsConsistencyPayload evaluates savings goals: per-goal progress,
// aggregate progress, and goal classification.
//
// BehindGoals and OnTrackGoals are computed by independent predicates and
// are not mutually exclusive: a goal with partial progress and a deadline
// appears in both. Consumers ask different questions of the two lists.
type SavingsConsistencyPayload struct {
	Goals              []GoalProgress `json:"goals"`
	TotalTarget        float64        `json:"totalTarget"`
	TotalCurrent       float64        `json:"totalCurrent"`
	OverallProgressPct float64        `json:"overallProgressPct"`
	OnTrackGoals       []string       `json:"onTrackGoals"`
	BehindGoals        []string       `json:"behindGoals"`
	CompletedGoals     []string       `json:"completedGoals"`
}

type GoalProgress struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	ProgressPct   float64 `json:"progressPct"`
	Remaining     float64 `json:"remaining"` // never negative
	Deadline      string  `json:"deadline,omitempty"`
}

// RunSavingsConsistency computes per-goal and aggregate progress. Progress
// is 0 when the target is 0, and remaining is clamped at 0 for goals that
// have overshot their target. No goals is not a failure.
func RunSavingsConsistency(fc *core.FinancialContext) (res Result[SavingsConsistencyPayload]) {
	res.AgentID = AgentSavingsConsistency
	defer guard(&res)

	if len(fc.SavingsGoals) == 0 {
		res.Payload = SavingsConsistencyPayload{
			Goals:          []GoalProgress{},
			OnTrackGoals:   []string{},
			BehindGoals:    []string{},
			CompletedGoals: []string{},
		}
		return res
	}

	payload := SavingsConsistencyPayload{
		Goals:          make([]GoalProgress, 0, len(fc.SavingsGoals)),
		OnTrackGoals:   []string{},
		BehindGoals:    []string{},
		CompletedGoals: []string{},
	}
	for _, g := range fc.SavingsGoals {
		target := core.SafeAmount(g.TargetAmount)
		current := core.SafeAmount(g.CurrentAmount)
		progress := 0.0
		if target > 0 {
			progress = current / target * 100
		}
		remaining := target - current
		if remaining < 0 {
			remaining = 0
		}
		payload.Goals = append(payload.Goals, GoalProgress{
			Name:          g.Name,
			TargetAmount:  target,
			CurrentAmount: current,
			ProgressPct:   progress,
			Remaining:     remaining,
			Deadline:      g.Deadline,
		})
		payload.TotalTarget += target
		payload.TotalCurrent += current

		if progress >= 100 {
			payload.CompletedGoals = append(payload.CompletedGoals, g.Name)
		}
		if progress < 100 && g.Deadline != "" {
			payload.BehindGoals = append(payload.BehindGoals, g.Name)
		}
		if progress < 100 && progress > 0 {
			payload.OnTrackGoals = append(payload.OnTrackGoals, g.Name)
		}
	}
	if payload.TotalTarget > 0 {
		payload.OverallProgressPct = payload.TotalCurrent / payload.TotalTarget * 100
	}

	res.Payload = payload
	return res
}
