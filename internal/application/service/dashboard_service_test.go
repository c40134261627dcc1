package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/damon-houk/artha-ledger/internal/domain/aggregate"
	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService(t *testing.T) {
	ctx := context.Background()

	t.Run("Default ledger scenario", func(t *testing.T) {
		store, _ := newLoadedStore(t, DefaultTransactions(fixedNow))
		svc := NewDashboardService(store, cache.NewDashboardCache(), quietLogger())

		d := svc.Dashboard(ctx)

		assert.Equal(t, 45000.0, d.Summary.Income)
		assert.Equal(t, 13700.0, d.Summary.Expenses)
		assert.Equal(t, 31300.0, d.Summary.Balance)
		assert.InDelta(t, 69.56, d.Summary.SavingsRate, 0.01)
		assert.Equal(t, map[string]float64{"Food": 1200, "Rent": 12000, "Travel": 500}, d.Categories)

		require.Len(t, d.Daily, aggregate.TrendDays)
		assert.Equal(t, 1200.0, d.Daily[6].Expenses)
		assert.Equal(t, 12500.0, d.Daily[5].Expenses)
		for _, day := range d.Daily[:5] {
			assert.Equal(t, 0.0, day.Expenses)
		}
	})

	t.Run("Recomputed after add", func(t *testing.T) {
		store, repo := newLoadedStore(t, DefaultTransactions(fixedNow))
		c := cache.NewDashboardCache()
		svc := NewDashboardService(store, c, quietLogger())

		first := svc.Dashboard(ctx)
		assert.Equal(t, 1, c.Size())

		repo.On("Save", ctx, mock.Anything).Return(nil).Once()
		_, err := store.Add(ctx, NewTransaction{Type: entity.Expense, Category: "Food", Amount: "300"})
		require.NoError(t, err)

		second := svc.Dashboard(ctx)
		assert.Equal(t, first.Summary.Expenses+300, second.Summary.Expenses)
		assert.Equal(t, 1500.0, second.Categories["Food"])
		assert.Equal(t, 1500.0, second.Daily[6].Expenses)

		// only the current version is kept
		assert.Equal(t, 1, c.Size())
	})

	t.Run("Empty ledger", func(t *testing.T) {
		store, _ := newLoadedStore(t, nil)
		svc := NewDashboardService(store, nil, quietLogger())

		d := svc.Dashboard(ctx)
		assert.Equal(t, aggregate.Summary{}, d.Summary)
		assert.Empty(t, d.Categories)
		assert.Len(t, d.Daily, aggregate.TrendDays)
		assert.Empty(t, svc.TopCategories(ctx, 4))
	})

	t.Run("Recent transactions and top categories", func(t *testing.T) {
		store, _ := newLoadedStore(t, DefaultTransactions(fixedNow))
		svc := NewDashboardService(store, nil, quietLogger())

		recent := svc.RecentTransactions(2)
		require.Len(t, recent, 2)
		assert.Equal(t, "1", recent[0].ID)
		assert.Len(t, svc.RecentTransactions(0), 4)
		assert.Len(t, svc.RecentTransactions(50), 4)

		top := svc.TopCategories(ctx, 2)
		require.Len(t, top, 2)
		assert.Equal(t, "Rent", top[0].Category)
		assert.Equal(t, "Food", top[1].Category)
	})

	t.Run("Overview comes from one snapshot", func(t *testing.T) {
		store, repo := newLoadedStore(t, DefaultTransactions(fixedNow))
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		svc := NewDashboardService(store, cache.NewDashboardCache(), quietLogger())

		o := svc.Overview(ctx, 2, 3)
		assert.Equal(t, store.Snapshot().Version, o.Version)
		assert.Equal(t, 13700.0, o.Summary.Expenses)
		require.Len(t, o.TopCategories, 2)
		assert.Equal(t, "Rent", o.TopCategories[0].Category)
		require.Len(t, o.Recent, 3)
		assert.Equal(t, "1", o.Recent[0].ID)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 50; i++ {
				_, err := store.Add(ctx, NewTransaction{
					ID:     fmt.Sprintf("concurrent-%d", i),
					Type:   entity.Expense,
					Amount: "10",
				})
				assert.NoError(t, err)
			}
		}()

		for i := 0; i < 50; i++ {
			o := svc.Overview(ctx, 0, 0)
			var expenses float64
			for _, tx := range o.Recent {
				if tx.Type == entity.Expense {
					expenses += tx.Amount
				}
			}
			assert.Equal(t, o.Summary.Expenses, expenses)
		}
		<-done

		final := svc.Overview(ctx, 0, 0)
		assert.Len(t, final.Recent, 54)
		assert.Equal(t, 14200.0, final.Summary.Expenses)
	})
}
