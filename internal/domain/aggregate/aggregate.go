// Package aggregate derives dashboard statistics from a ledger snapshot.
//
// Every function is pure and order-independent: the result depends only on the
// multiset of (type, category, date, amount) values, never on ledger order.
package aggregate

import (
	"sort"
	"time"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
)

// TrendDays is the length of the daily expense window
const TrendDays = 7

// Summary holds the headline totals of a ledger
type Summary struct {
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	SavingsRate float64 `json:"savings_rate"`
}

// CategoryTotal is the summed expense amount of one category
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// DailyExpense is the summed expense amount of one calendar date
type DailyExpense struct {
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	Expenses float64 `json:"expenses"`
}

// Dashboard bundles every statistic shown on the dashboard
type Dashboard struct {
	Summary    Summary            `json:"summary"`
	Categories map[string]float64 `json:"categories"`
	Daily      []DailyExpense     `json:"daily"`
}

// Summarize computes income, expenses, balance and savings rate.
// The savings rate is a percentage of income and is 0 whenever income is 0.
func Summarize(txs []entity.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case entity.Income:
			s.Income += t.Amount
		case entity.Expense:
			s.Expenses += t.Amount
		}
	}

	s.Balance = s.Income - s.Expenses
	if s.Income > 0 {
		s.SavingsRate = s.Balance / s.Income * 100
	}

	return s
}

// CategoryBreakdown sums expense amounts per literal category label
func CategoryBreakdown(txs []entity.Transaction) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range txs {
		if t.Type != entity.Expense {
			continue
		}
		out[t.Category] += t.Amount
	}
	return out
}

// TopCategories orders a breakdown by amount, largest first, ties broken by name.
// A non-positive n returns every category.
func TopCategories(breakdown map[string]float64, n int) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(breakdown))
	for c, a := range breakdown {
		out = append(out, CategoryTotal{Category: c, Amount: a})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TrendWindow returns the TrendDays calendar dates ending with today, oldest first
func TrendWindow(today time.Time) []string {
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	dates := make([]string, TrendDays)
	for i := 0; i < TrendDays; i++ {
		dates[i] = entity.FormatDate(end.AddDate(0, 0, i-(TrendDays-1)))
	}
	return dates
}

// DailyTrend sums expenses for each date of the trailing window ending today.
// Dates match by exact string equality; transactions outside the window are ignored
// and days without expenses are reported as 0.
func DailyTrend(txs []entity.Transaction, today time.Time) []DailyExpense {
	window := TrendWindow(today)

	index := make(map[string]int, len(window))
	out := make([]DailyExpense, len(window))
	for i, date := range window {
		index[date] = i
		out[i] = DailyExpense{Date: date, Weekday: weekday(date)}
	}

	for _, t := range txs {
		if t.Type != entity.Expense {
			continue
		}
		if i, ok := index[t.Date]; ok {
			out[i].Expenses += t.Amount
		}
	}

	return out
}

// Build computes the full dashboard for txs as seen on today
func Build(txs []entity.Transaction, today time.Time) Dashboard {
	return Dashboard{
		Summary:    Summarize(txs),
		Categories: CategoryBreakdown(txs),
		Daily:      DailyTrend(txs, today),
	}
}

func weekday(date string) string {
	d, err := entity.ParseDate(date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()[:3]
}
