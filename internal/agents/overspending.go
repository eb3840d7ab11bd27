package agents

import (
	"sort"

	"fincopilot/internal/core"
)

// OverspendingPayload relates spending to income: totals per month,
// per-category income shares, months where spending exceeded income, and
// the categories that take the largest average slice of income.
type OverspendingPayload struct {
	IncomeByMonth        []MonthAmount       `json:"incomeByMonth"`
	ExpenseByMonth       []MonthTotal        `json:"expenseByMonth"`
	CategoryShareByMonth []CategoryShare     `json:"categoryShareByMonth"`
	OverIncomeMonths     []string            `json:"overIncomeMonths"`
	TopCategoriesByShare []CategoryShareRank `json:"topCategoriesByShare"`
}

type MonthAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type CategoryShare struct {
	Month         string  `json:"month"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	ShareOfIncome float64 `json:"shareOfIncome"` // percent, 0 when income is 0
}

type CategoryShareRank struct {
	Category         string  `json:"category"`
	AvgShareOfIncome float64 `json:"avgShareOfIncome"`
	Months           int     `json:"months"`
}

// RunOverspending computes income/expense totals per month and flags the
// months where spending ran over income. A month with zero income never
// produces a share and is never flagged; the share is defined as 0 rather
// than dividing by zero.
func RunOverspending(fc *core.FinancialContext) (res Result[OverspendingPayload]) {
	res.AgentID = AgentOverspending
	defer guard(&res)

	incomeByMonth := make(map[string]float64)
	var incomeMonthOrder []string
	for _, m := range fc.MonthlyIncome {
		if _, ok := incomeByMonth[m.Month]; !ok {
			incomeMonthOrder = append(incomeMonthOrder, m.Month)
		}
		incomeByMonth[m.Month] += core.SafeAmount(m.Amount)
	}

	expenseByMonth := make(map[string]float64)
	cellAmounts := make(map[monthCategory]float64)
	var expenseMonthOrder []string
	var cellOrder []monthCategory
	for _, e := range fc.Expenses {
		month := core.MonthOfDate(e.Date)
		amt := core.SafeAmount(e.Amount)
		if _, ok := expenseByMonth[month]; !ok {
			expenseMonthOrder = append(expenseMonthOrder, month)
		}
		expenseByMonth[month] += amt
		cell := monthCategory{month: month, category: e.Category}
		if _, ok := cellAmounts[cell]; !ok {
			cellOrder = append(cellOrder, cell)
		}
		cellAmounts[cell] += amt
	}

	payload := OverspendingPayload{
		IncomeByMonth:        make([]MonthAmount, 0, len(incomeMonthOrder)),
		ExpenseByMonth:       make([]MonthTotal, 0, len(expenseMonthOrder)),
		CategoryShareByMonth: make([]CategoryShare, 0, len(cellOrder)),
		OverIncomeMonths:     []string{},
	}
	for _, m := range incomeMonthOrder {
		payload.IncomeByMonth = append(payload.IncomeByMonth, MonthAmount{Month: m, Amount: incomeByMonth[m]})
	}
	for _, m := range expenseMonthOrder {
		payload.ExpenseByMonth = append(payload.ExpenseByMonth, MonthTotal{Month: m, Total: expenseByMonth[m]})
	}

	// union of months appearing in either dataset, income months first
	seen := make(map[string]bool, len(incomeMonthOrder)+len(expenseMonthOrder))
	for _, m := range append(append([]string{}, incomeMonthOrder...), expenseMonthOrder...) {
		if seen[m] {
			continue
		}
		seen[m] = true
		if incomeByMonth[m] > 0 && expenseByMonth[m] > incomeByMonth[m] {
			payload.OverIncomeMonths = append(payload.OverIncomeMonths, m)
		}
	}

	type shareAcc struct {
		sum   float64
		count int
	}
	shares := make(map[string]*shareAcc)
	var shareOrder []string
	for _, cell := range cellOrder {
		amount := cellAmounts[cell]
		income := incomeByMonth[cell.month]
		share := 0.0
		if income > 0 {
			share = amount / income * 100
		}
		payload.CategoryShareByMonth = append(payload.CategoryShareByMonth, CategoryShare{
			Month: cell.month, Category: cell.category, Amount: amount, ShareOfIncome: share,
		})
		acc, ok := shares[cell.category]
		if !ok {
			acc = &shareAcc{}
			shares[cell.category] = acc
			shareOrder = append(shareOrder, cell.category)
		}
		acc.sum += share
		acc.count++
	}

	// unweighted mean over the months the category appears in
	ranked := make([]CategoryShareRank, 0, len(shareOrder))
	for _, c := range shareOrder {
		acc := shares[c]
		avg := 0.0
		if acc.count > 0 {
			avg = acc.sum / float64(acc.count)
		}
		ranked = append(ranked, CategoryShareRank{Category: c, AvgShareOfIncome: avg, Months: acc.count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgShareOfIncome > ranked[j].AvgShareOfIncome
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	payload.TopCategoriesByShare = ranked

	res.Payload = payload
	return res
}
