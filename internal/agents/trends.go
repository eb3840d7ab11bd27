package agents

import (
	"sort"

	"fincopilot/internal/core"
)

// MonthlyTrendsPayload carries chronologically ordered income and expense
// series with period-over-period deltas, plus a per-month savings rate.
type MonthlyTrendsPayload struct {
	ExpenseTrend            []ExpensePoint `json:"expenseTrend"`
	IncomeTrend             []IncomePoint  `json:"incomeTrend"`
	SavingsRateByMonth      []SavingsRate  `json:"savingsRateByMonth"`
	IncreasingExpenseMonths []string       `json:"increasingExpenseMonths"`
	DecreasingIncomeMonths  []string       `json:"decreasingIncomeMonths"`
}

// ExpensePoint is one month's expense total. ChangeVsPrev is nil for the
// first entry; ChangePct is additionally nil when the previous total was
// exactly 0, since a percentage of zero cannot be computed.
type ExpensePoint struct {
	Month        string   `json:"month"`
	Total        float64  `json:"total"`
	ChangeVsPrev *float64 `json:"changeVsPrev,omitempty"`
	ChangePct    *float64 `json:"changePct,omitempty"`
}

// IncomePoint mirrors ExpensePoint for income records. Each income record
// is its own entry, so a month with several sources contributes several
// points.
type IncomePoint struct {
	Month        string   `json:"month"`
	Amount       float64  `json:"amount"`
	ChangeVsPrev *float64 `json:"changeVsPrev,omitempty"`
	ChangePct    *float64 `json:"changePct,omitempty"`
}

type SavingsRate struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Savings float64 `json:"savings"`
	RatePct float64 `json:"ratePct"` // 0 when income is 0
}

// RunMonthlyTrends derives month-over-month income and expense series and
// the savings rate across the union of months present in either dataset.
// The sole ordering mechanism is lexicographic sort on the fixed-width
// YYYY-MM month string.
func RunMonthlyTrends(fc *core.FinancialContext) (res Result[MonthlyTrendsPayload]) {
	res.AgentID = AgentMonthlyTrends
	defer guard(&res)

	expenseByMonth := make(map[string]float64)
	var expenseMonths []string
	for _, e := range fc.Expenses {
		month := core.MonthOfDate(e.Date)
		if _, ok := expenseByMonth[month]; !ok {
			expenseMonths = append(expenseMonths, month)
		}
		expenseByMonth[month] += core.SafeAmount(e.Amount)
	}
	sort.Strings(expenseMonths)

	incomeSorted := make([]core.MonthlyIncome, len(fc.MonthlyIncome))
	copy(incomeSorted, fc.MonthlyIncome)
	sort.SliceStable(incomeSorted, func(i, j int) bool {
		return incomeSorted[i].Month < incomeSorted[j].Month
	})

	incomeTrend := make([]IncomePoint, 0, len(incomeSorted))
	for i, m := range incomeSorted {
		p := IncomePoint{Month: m.Month, Amount: core.SafeAmount(m.Amount)}
		if i > 0 {
			prev := core.SafeAmount(incomeSorted[i-1].Amount)
			change := p.Amount - prev
			p.ChangeVsPrev = &change
			if prev != 0 {
				pct := change / prev * 100
				p.ChangePct = &pct
			}
		}
		incomeTrend = append(incomeTrend, p)
	}

	expenseTrend := make([]ExpensePoint, 0, len(expenseMonths))
	for i, month := range expenseMonths {
		p := ExpensePoint{Month: month, Total: expenseByMonth[month]}
		if i > 0 {
			prev := expenseByMonth[expenseMonths[i-1]]
			change := p.Total - prev
			p.ChangeVsPrev = &change
			if prev != 0 {
				pct := change / prev * 100
				p.ChangePct = &pct
			}
		}
		expenseTrend = append(expenseTrend, p)
	}

	incomeByMonth := make(map[string]float64)
	for _, m := range fc.MonthlyIncome {
		incomeByMonth[m.Month] += core.SafeAmount(m.Amount)
	}
	monthSet := make(map[string]bool)
	var allMonths []string
	for _, p := range incomeTrend {
		if !monthSet[p.Month] {
			monthSet[p.Month] = true
			allMonths = append(allMonths, p.Month)
		}
	}
	for _, p := range expenseTrend {
		if !monthSet[p.Month] {
			monthSet[p.Month] = true
			allMonths = append(allMonths, p.Month)
		}
	}
	sort.Strings(allMonths)

	savingsRateByMonth := make([]SavingsRate, 0, len(allMonths))
	for _, month := range allMonths {
		income := incomeByMonth[month]
		expense := expenseByMonth[month]
		savings := income - expense
		rate := 0.0
		if income > 0 {
			rate = savings / income * 100
		}
		savingsRateByMonth = append(savingsRateByMonth, SavingsRate{
			Month: month, Income: income, Expense: expense, Savings: savings, RatePct: rate,
		})
	}

	increasing := []string{}
	for _, p := range expenseTrend {
		if p.ChangePct != nil && *p.ChangePct > 0 {
			increasing = append(increasing, p.Month)
		}
	}
	decreasing := []string{}
	for _, p := range incomeTrend {
		if p.ChangePct != nil && *p.ChangePct < 0 {
			decreasing = append(decreasing, p.Month)
		}
	}

	res.Payload = MonthlyTrendsPayload{
		ExpenseTrend:            expenseTrend,
		IncomeTrend:             incomeTrend,
		SavingsRateByMonth:      savingsRateByMonth,
		IncreasingExpenseMonths: increasing,
		DecreasingIncomeMonths:  decreasing,
	}
	return res
}
