package aggregate

import (
	"testing"
	"time"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func sampleLedger() []entity.Transaction {
	return []entity.Transaction{
		{ID: "1", Type: entity.Income, Category: "Salary", Amount: 45000, Date: "2024-03-10"},
		{ID: "2", Type: entity.Expense, Category: "Food", Amount: 1200, Date: "2024-03-10"},
		{ID: "3", Type: entity.Expense, Category: "Rent", Amount: 12000, Date: "2024-03-09"},
		{ID: "4", Type: entity.Expense, Category: "Travel", Amount: 500, Date: "2024-03-09"},
	}
}

func TestSummarize(t *testing.T) {
	t.Run("Default ledger", func(t *testing.T) {
		s := Summarize(sampleLedger())

		assert.Equal(t, 45000.0, s.Income)
		assert.Equal(t, 13700.0, s.Expenses)
		assert.Equal(t, 31300.0, s.Balance)
		assert.InDelta(t, 69.56, s.SavingsRate, 0.01)
	})

	t.Run("Empty ledger", func(t *testing.T) {
		assert.Equal(t, Summary{}, Summarize(nil))
	})

	t.Run("No income", func(t *testing.T) {
		s := Summarize([]entity.Transaction{
			{ID: "a", Type: entity.Expense, Category: "Food", Amount: 300, Date: "2024-03-10"},
		})

		assert.Equal(t, 0.0, s.SavingsRate)
		assert.Equal(t, -300.0, s.Balance)
	})

	t.Run("Order independent", func(t *testing.T) {
		txs := sampleLedger()
		reversed := make([]entity.Transaction, len(txs))
		for i, tx := range txs {
			reversed[len(txs)-1-i] = tx
		}

		assert.Equal(t, Summarize(txs), Summarize(reversed))
	})
}

func TestCategoryBreakdown(t *testing.T) {
	txs := append(sampleLedger(),
		entity.Transaction{ID: "5", Type: entity.Expense, Category: "food", Amount: 50, Date: "2024-01-01"},
		entity.Transaction{ID: "6", Type: entity.Expense, Category: "Food", Amount: 300, Date: "2023-12-31"},
	)

	breakdown := CategoryBreakdown(txs)

	assert.Equal(t, map[string]float64{
		"Food":   1500,
		"food":   50,
		"Rent":   12000,
		"Travel": 500,
	}, breakdown)

	var sum float64
	for _, v := range breakdown {
		sum += v
	}
	assert.Equal(t, Summarize(txs).Expenses, sum)

	assert.Empty(t, CategoryBreakdown(nil))
}

func TestTopCategories(t *testing.T) {
	breakdown := map[string]float64{"Food": 1200, "Rent": 12000, "Travel": 500, "Bills": 500, "Health": 80}

	top := TopCategories(breakdown, 4)
	require.Len(t, top, 4)
	assert.Equal(t, []CategoryTotal{
		{Category: "Rent", Amount: 12000},
		{Category: "Food", Amount: 1200},
		{Category: "Bills", Amount: 500},
		{Category: "Travel", Amount: 500},
	}, top)

	assert.Len(t, TopCategories(breakdown, 0), 5)
	assert.Empty(t, TopCategories(nil, 3))
}

func TestTrendWindow(t *testing.T) {
	window := TrendWindow(today)

	assert.Equal(t, []string{
		"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07",
		"2024-03-08", "2024-03-09", "2024-03-10",
	}, window)

	// Crosses a month boundary
	window = TrendWindow(time.Date(2024, 3, 2, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-25", window[0])
	assert.Equal(t, "2024-02-29", window[4])
	assert.Equal(t, "2024-03-02", window[6])
}

func TestDailyTrend(t *testing.T) {
	t.Run("Default ledger", func(t *testing.T) {
		trend := DailyTrend(sampleLedger(), today)

		require.Len(t, trend, TrendDays)
		assert.Equal(t, "2024-03-10", trend[6].Date)
		assert.Equal(t, "Sun", trend[6].Weekday)
		assert.Equal(t, 1200.0, trend[6].Expenses)
		assert.Equal(t, 12500.0, trend[5].Expenses)

		nonZero := 0
		for i, d := range trend {
			if d.Expenses != 0 {
				nonZero++
			}
			if i > 0 {
				assert.Less(t, trend[i-1].Date, d.Date)
			}
		}
		assert.Equal(t, 2, nonZero)
	})

	t.Run("Out of window excluded from trend only", func(t *testing.T) {
		txs := []entity.Transaction{
			{ID: "a", Type: entity.Expense, Category: "Food", Amount: 100, Date: "2024-03-03"},
			{ID: "b", Type: entity.Expense, Category: "Food", Amount: 10, Date: "2024-03-04"},
			{ID: "c", Type: entity.Income, Category: "Salary", Amount: 999, Date: "2024-03-04"},
		}

		trend := DailyTrend(txs, today)
		assert.Equal(t, 10.0, trend[0].Expenses)

		var total float64
		for _, d := range trend {
			total += d.Expenses
		}
		assert.Equal(t, 10.0, total)
		assert.Equal(t, 110.0, Summarize(txs).Expenses)
		assert.Equal(t, 110.0, CategoryBreakdown(txs)["Food"])
	})

	t.Run("Empty ledger", func(t *testing.T) {
		trend := DailyTrend(nil, today)
		require.Len(t, trend, TrendDays)
		for _, d := range trend {
			assert.Equal(t, 0.0, d.Expenses)
		}
	})
}

func TestBuild(t *testing.T) {
	d := Build(sampleLedger(), today)

	assert.Equal(t, 31300.0, d.Summary.Balance)
	assert.Equal(t, map[string]float64{"Food": 1200, "Rent": 12000, "Travel": 500}, d.Categories)
	assert.Len(t, d.Daily, TrendDays)
}
