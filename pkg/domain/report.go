package domain

import (
	"fmt"
	"sort"
	"strings"
)

// PeriodType buckets the income-vs-expense trend report.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
)

// ParsePeriodType accepts daily, monthly or yearly in any case.
func ParsePeriodType(s string) (PeriodType, error) {
	switch p := PeriodType(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return p, nil
	}
	return "", fmt.Errorf("unknown period type %q", s)
}

// Summary totals income and expenses over a date range.
type Summary struct {
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	NetBalance    Money `json:"netBalance"`
}

// Validate checks that the net balance is consistent with the totals.
func (s Summary) Validate() error {
	if s.TotalIncome-s.TotalExpenses != s.NetBalance {
		return fmt.Errorf("summary: net balance %s does not match %s - %s",
			s.NetBalance, s.TotalIncome, s.TotalExpenses)
	}
	return nil
}

// CategorySpending is the expense total for one category.
type CategorySpending struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// SpendingFromMap converts the service's {name: amount} map into a slice
// sorted by amount, largest first, ties broken by name.
func SpendingFromMap(m map[string]Money) []CategorySpending {
	out := make([]CategorySpending, 0, len(m))
	for name, amt := range m {
		out = append(out, CategorySpending{Category: name, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TrendPoint is income and expense for one period bucket.
type TrendPoint struct {
	Period  string `json:"period"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// Net returns income minus expense.
func (p TrendPoint) Net() Money {
	return p.Income - p.Expense
}

// TrendsFromMap converts {period: {income, expense}} into points sorted by period.
// Period keys are ISO dates, year-months or years, so lexical order is chronological.
func TrendsFromMap(m map[string]map[string]Money) []TrendPoint {
	out := make([]TrendPoint, 0, len(m))
	for period, v := range m {
		out = append(out, TrendPoint{
			Period:  period,
			Income:  v["income"],
			Expense: v["expense"],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
