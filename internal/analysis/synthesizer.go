// Package analysis merges the agents' outputs into a structured advisory
// and exposes the two entry points collaborators call: RunAnalysis and
// FormatReport.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"fincopilot/internal/agents"
	"fincopilot/internal/core"
)

// AdvisoryOutput is the synthesized advice. Each list is non-empty: a
// fixed placeholder fills in when no rule produced a line.
type AdvisoryOutput struct {
	Summary               string   `json:"summary"`
	KeyInsights           []string `json:"keyInsights"`
	RisksWarnings         []string `json:"risksWarnings"`
	ActionableSuggestions []string `json:"actionableSuggestions"`
}

// SynthesisInput bundles the four agent results with the raw context.
// The raw income and expense records are preferred for the headline
// totals so one agent's internal error cannot skew the top-line numbers.
type SynthesisInput struct {
	Spending     agents.Result[agents.SpendingPatternsPayload]
	Overspending agents.Result[agents.OverspendingPayload]
	Trends       agents.Result[agents.MonthlyTrendsPayload]
	Savings      agents.Result[agents.SavingsConsistencyPayload]
	Context      *core.FinancialContext
	// Now anchors the goal-deadline arithmetic. RunAnalysis passes the
	// context's FetchedAt so a given snapshot always synthesizes the same.
	Now time.Time
}

const (
	summaryWithData = "Here’s what your spending and savings look like, and what to do next — all from your data."
	summaryNoData   = "Not enough data yet. Add income, expenses, and goals, then run again."

	placeholderInsight    = "Add your data to see insights."
	placeholderRisk       = "No major risks from your data."
	placeholderSuggestion = "Add income and expense data, then run again for concrete steps to save money."
)

// Synthesize applies a fixed, ordered rule set over the agent outputs.
// No rule depends on another rule's output, and no external call is made:
// the same input always produces the same advisory.
func Synthesize(input SynthesisInput) AdvisoryOutput {
	var insights, risks, suggestions []string

	// headline totals, raw context first
	var totalIncome, totalExpenses float64
	switch {
	case input.Context != nil:
		for _, m := range input.Context.MonthlyIncome {
			totalIncome += core.SafeAmount(m.Amount)
		}
		for _, e := range input.Context.Expenses {
			totalExpenses += core.SafeAmount(e.Amount)
		}
	default:
		if !input.Trends.Failed() {
			for _, p := range input.Trends.Payload.IncomeTrend {
				totalIncome += core.SafeAmount(p.Amount)
			}
		}
		if !input.Spending.Failed() {
			totalExpenses = core.SafeAmount(input.Spending.Payload.OverallTotal)
		}
	}
	net := totalIncome - totalExpenses
	insights = append(insights, fmt.Sprintf(
		"Total income: %s. Total expenses: %s. Net (money in hand): %s.",
		core.FormatINR(totalIncome), core.FormatINR(totalExpenses), core.FormatINR(net)))

	// spending overview and top categories
	if input.Spending.Failed() {
		insights = append(insights, fmt.Sprintf("Spending data unavailable (%s).", input.Spending.Err))
	} else {
		p := input.Spending.Payload
		if p.OverallTotal > 0 {
			insights = append(insights, fmt.Sprintf(
				"You spent %s over %d month(s).", core.FormatINR(p.OverallTotal), p.MonthCount))
			if len(p.TotalByCategory) > 0 {
				top := topCategories(p.TotalByCategory, 3)
				parts := make([]string, 0, len(top))
				for _, c := range top {
					parts = append(parts, fmt.Sprintf("%s %s", c.Category, core.FormatINR(c.Total)))
				}
				insights = append(insights, fmt.Sprintf("Your top spending: %s.", strings.Join(parts, " → ")))
			}
		} else {
			insights = append(insights, "No expense data yet. Add your expenses to get advice.")
		}
	}

	// highest and lowest spend months
	if !input.Trends.Failed() && len(input.Trends.Payload.ExpenseTrend) > 0 {
		trend := input.Trends.Payload.ExpenseTrend
		highest, lowest := trend[0], trend[0]
		for _, p := range trend[1:] {
			if p.Total > highest.Total {
				highest = p
			}
			if p.Total < lowest.Total {
				lowest = p
			}
		}
		if highest.Month != lowest.Month {
			insights = append(insights, fmt.Sprintf(
				"You spent the most in %s (%s) and the least in %s (%s).",
				core.MonthName(highest.Month), core.FormatINR(highest.Total),
				core.MonthName(lowest.Month), core.FormatINR(lowest.Total)))
		}
	}

	// overspending vs income
	if !input.Overspending.Failed() {
		o := input.Overspending.Payload
		if len(o.OverIncomeMonths) > 0 {
			risks = append(risks, fmt.Sprintf(
				"You spent more than you earned in %s. That drains savings.",
				joinMonthNames(o.OverIncomeMonths)))
			suggestions = append(suggestions,
				"Cut discretionary spending (e.g. Entertainment, eating out) in high-spend months so you don’t exceed income.")
		}
		if len(o.TopCategoriesByShare) > 0 {
			top := o.TopCategoriesByShare[0]
			if top.AvgShareOfIncome > 30 {
				suggestions = append(suggestions, fmt.Sprintf(
					"%s is taking %s%% of your income. Look for cuts there first (subscriptions, habits, one-offs).",
					top.Category, core.FormatPct(top.AvgShareOfIncome)))
			}
		}
	}

	// savings rate
	if !input.Trends.Failed() && len(input.Trends.Payload.SavingsRateByMonth) > 0 {
		series := input.Trends.Payload.SavingsRateByMonth
		var negative []string
		var sum float64
		for _, s := range series {
			if s.RatePct < 0 {
				negative = append(negative, s.Month)
			}
			sum += s.RatePct
		}
		if len(negative) > 0 {
			risks = append(risks, fmt.Sprintf(
				"You had no savings (spent more than income) in %s.", joinMonthNames(negative)))
		}
		avgRate := sum / float64(len(series))
		encouragement := "Good base to build on."
		if avgRate < 20 {
			encouragement = "Aim to save at least 20% to build a safety net."
		}
		insights = append(insights, fmt.Sprintf(
			"Your average savings rate is %s%%. %s", core.FormatPct(avgRate), encouragement))
	}

	// category to cut, rent excluded
	if !input.Spending.Failed() && len(input.Spending.Payload.TotalByCategory) > 0 {
		sorted := topCategories(input.Spending.Payload.TotalByCategory, len(input.Spending.Payload.TotalByCategory))
		for _, c := range sorted {
			if strings.EqualFold(c.Category, "rent") {
				continue
			}
			suggestions = append(suggestions, fmt.Sprintf(
				"To save money, trim %s first (you spent %s). Small cuts add up.",
				c.Category, core.FormatINR(c.Total)))
			break
		}
	}

	// goals
	if !input.Savings.Failed() && len(input.Savings.Payload.Goals) > 0 {
		s := input.Savings.Payload
		names := make([]string, 0, len(s.Goals))
		for _, g := range s.Goals {
			names = append(names, g.Name)
		}
		insights = append(insights, fmt.Sprintf(
			"Your goal: %s — %s%% done (%s of %s).",
			strings.Join(names, ", "), core.FormatPct(s.OverallProgressPct),
			core.FormatINR(s.TotalCurrent), core.FormatINR(s.TotalTarget)))
		if len(s.BehindGoals) > 0 {
			risks = append(risks, fmt.Sprintf(
				"You’re behind on: %s. Start or increase monthly contributions.",
				strings.Join(s.BehindGoals, ", ")))
		}
		if s.TotalCurrent == 0 && s.TotalTarget > 0 && anyDeadline(s.Goals) {
			monthsLeft := monthsUntilFirstDeadline(s.Goals, input.Now)
			monthlyNeeded := math.Ceil(s.TotalTarget / float64(monthsLeft))
			suggestions = append(suggestions, fmt.Sprintf(
				"How to save for %s: put aside %s per month for the next ~%d months. Set a standing transfer so you don’t skip.",
				strings.Join(names, ", "), core.FormatINR(monthlyNeeded), monthsLeft))
		}
		if s.OverallProgressPct > 0 && s.OverallProgressPct < 100 {
			suggestions = append(suggestions,
				"Keep your monthly savings amount fixed; automate the transfer so you stay on track.")
		}
	}

	hasData := !input.Spending.Failed() || !input.Overspending.Failed() ||
		!input.Trends.Failed() || !input.Savings.Failed()
	summary := summaryWithData
	if !hasData {
		summary = summaryNoData
	}

	return AdvisoryOutput{
		Summary:               summary,
		KeyInsights:           orPlaceholder(insights, placeholderInsight),
		RisksWarnings:         orPlaceholder(risks, placeholderRisk),
		ActionableSuggestions: orPlaceholder(suggestions, placeholderSuggestion),
	}
}

// topCategories returns the n highest-total categories. The sort is
// stable, so ties keep their original encounter order.
func topCategories(cats []agents.CategoryTotal, n int) []agents.CategoryTotal {
	sorted := make([]agents.CategoryTotal, len(cats))
	copy(sorted, cats)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func joinMonthNames(months []string) string {
	names := make([]string, 0, len(months))
	for _, m := range months {
		names = append(names, core.MonthName(m))
	}
	return strings.Join(names, ", ")
}

func anyDeadline(goals []agents.GoalProgress) bool {
	for _, g := range goals {
		if g.Deadline != "" {
			return true
		}
	}
	return false
}

// monthsUntilFirstDeadline approximates the months remaining until the
// first goal that carries a deadline, counting 30-day months and never
// fewer than one. An unparseable deadline falls back to six months.
func monthsUntilFirstDeadline(goals []agents.GoalProgress, now time.Time) int {
	for _, g := range goals {
		if g.Deadline == "" {
			continue
		}
		deadline, err := time.Parse("2006-01-02", g.Deadline)
		if err != nil {
			return 6
		}
		days := deadline.Sub(now).Hours() / 24
		months := int(math.Ceil(days / 30))
		if months < 1 {
			months = 1
		}
		return months
	}
	return 6
}

func orPlaceholder(list []string, placeholder string) []string {
	if len(list) == 0 {
		return []string{placeholder}
	}
	return list
}
