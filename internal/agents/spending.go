package agents

import "fincopilot/internal/core"

// SpendingPatternsPayload aggregates expenses by category, by month, and
// by (month, category) cell.
type SpendingPatternsPayload struct {
	TotalByCategory []CategoryTotal     `json:"totalByCategory"`
	TotalByMonth    []MonthTotalCount   `json:"totalByMonth"`
	CategoryByMonth []MonthCategoryCell `json:"categoryByMonth"`
	OverallTotal    float64             `json:"overallTotal"`
	MonthCount      int                 `json:"monthCount"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

type MonthTotalCount struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MonthCategoryCell is one aggregated (month, category) cell. Cells are
// keyed structurally, so category labels containing separator characters
// can never collide.
type MonthCategoryCell struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type monthCategory struct {
	month, category string
}

type totalCount struct {
	total float64
	count int
}

// RunSpendingPatterns computes per-category, per-month and per-cell
// spending totals in a single pass over the expenses. Empty input is not
// a failure: all totals are zero and all lists empty.
func RunSpendingPatterns(fc *core.FinancialContext) (res Result[SpendingPatternsPayload]) {
	res.AgentID = AgentSpendingPatterns
	defer guard(&res)

	expenses := fc.Expenses
	if len(expenses) == 0 {
		res.Payload = SpendingPatternsPayload{
			TotalByCategory: []CategoryTotal{},
			TotalByMonth:    []MonthTotalCount{},
			CategoryByMonth: []MonthCategoryCell{},
		}
		return res
	}

	byCategory := make(map[string]*totalCount)
	byMonth := make(map[string]*totalCount)
	byCell := make(map[monthCategory]float64)
	// first-encounter order keeps output deterministic across runs
	var categoryOrder, monthOrder []string
	var cellOrder []monthCategory
	var overallTotal float64

	for _, e := range expenses {
		month := core.MonthOfDate(e.Date)
		amt := core.SafeAmount(e.Amount)
		overallTotal += amt

		cat, ok := byCategory[e.Category]
		if !ok {
			cat = &totalCount{}
			byCategory[e.Category] = cat
			categoryOrder = append(categoryOrder, e.Category)
		}
		cat.total += amt
		cat.count++

		mon, ok := byMonth[month]
		if !ok {
			mon = &totalCount{}
			byMonth[month] = mon
			monthOrder = append(monthOrder, month)
		}
		mon.total += amt
		mon.count++

		cell := monthCategory{month: month, category: e.Category}
		if _, ok := byCell[cell]; !ok {
			cellOrder = append(cellOrder, cell)
		}
		byCell[cell] += amt
	}

	payload := SpendingPatternsPayload{
		TotalByCategory: make([]CategoryTotal, 0, len(categoryOrder)),
		TotalByMonth:    make([]MonthTotalCount, 0, len(monthOrder)),
		CategoryByMonth: make([]MonthCategoryCell, 0, len(cellOrder)),
		OverallTotal:    overallTotal,
		MonthCount:      len(byMonth),
	}
	for _, c := range categoryOrder {
		v := byCategory[c]
		payload.TotalByCategory = append(payload.TotalByCategory, CategoryTotal{
			Category: c, Total: v.total, Count: v.count,
		})
	}
	for _, m := range monthOrder {
		v := byMonth[m]
		payload.TotalByMonth = append(payload.TotalByMonth, MonthTotalCount{
			Month: m, Total: v.total, Count: v.count,
		})
	}
	for _, cell := range cellOrder {
		payload.CategoryByMonth = append(payload.CategoryByMonth, MonthCategoryCell{
			Month: cell.month, Category: cell.category, Total: byCell[cell],
		})
	}

	res.Payload = payload
	return res
}
