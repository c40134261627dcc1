package entity

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		cases := map[string]float64{
			"1200":     1200,
			"99.50":    99.5,
			" 45000 ":  45000,
			"0":        0,
			"1e3":      1000,
			"0.000001": 0.000001,
		}

		for raw, want := range cases {
			got, err := ParseAmount(raw)
			assert.NoError(t, err, raw)
			assert.Equal(t, want, got, raw)
		}
	})

	t.Run("Rejected amounts", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "abc", "12abc", "-5", "NaN", "Inf", "1,200", "1e400"} {
			_, err := ParseAmount(raw)
			assert.Error(t, err, raw)
			assert.True(t, errors.Is(err, ErrInvalidAmount), raw)
		}
	})

	t.Run("Huge exponents are rejected quickly", func(t *testing.T) {
		start := time.Now()
		for _, raw := range []string{"1e100000000", "1e-10000000", "5E999999999", "0.1e-2147483647"} {
			_, err := ParseAmount(raw)
			assert.ErrorIs(t, err, ErrInvalidAmount, raw)
		}
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestTransactionValidate(t *testing.T) {
	valid := func() Transaction {
		return Transaction{
			ID:          "1",
			Type:        Expense,
			Category:    "Food",
			Amount:      1200,
			Date:        "2024-03-10",
			Description: "Dinner with friends",
		}
	}

	tx := valid()
	assert.NoError(t, tx.Validate())

	tx = valid()
	tx.ID = ""
	assert.ErrorIs(t, tx.Validate(), ErrMissingID)

	tx = valid()
	tx.Type = "transfer"
	assert.ErrorIs(t, tx.Validate(), ErrInvalidType)

	tx = valid()
	tx.Amount = -1
	assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)

	tx = valid()
	tx.Amount = math.NaN()
	assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)

	tx = valid()
	tx.Date = "10/03/2024"
	assert.ErrorIs(t, tx.Validate(), ErrInvalidDate)
}

func TestCategories(t *testing.T) {
	assert.True(t, IsRecommendedCategory(Expense, "Food"))
	assert.False(t, IsRecommendedCategory(Expense, "food"))
	assert.False(t, IsRecommendedCategory(Expense, "Salary"))
	assert.True(t, IsRecommendedCategory(Income, "Other Income"))
	assert.Nil(t, CategoriesFor("transfer"))

	// callers get their own copy
	cats := CategoriesFor(Income)
	cats[0] = "changed"
	assert.Equal(t, "Salary", IncomeCategories[0])
}
