package service

import (
	"context"

	"github.com/damon-houk/artha-ledger/internal/domain/aggregate"
	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/cache"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/middleware"
)

// DashboardService derives dashboard statistics from the ledger
type DashboardService struct {
	store  *LedgerStore
	cache  *cache.DashboardCache
	logger logger.Logger
}

// NewDashboardService creates a new dashboard service. A nil cache disables memoization.
func NewDashboardService(store *LedgerStore, c *cache.DashboardCache, log logger.Logger) *DashboardService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DashboardService{
		store:  store,
		cache:  c,
		logger: log,
	}
}

// Overview is a dashboard together with its largest categories and most recent
// transactions, all derived from the same snapshot
type Overview struct {
	aggregate.Dashboard
	Version       uint64
	TopCategories []aggregate.CategoryTotal
	Recent        []entity.Transaction
}

// Dashboard returns totals, category breakdown and the daily trend for the
// current snapshot. Results are memoized per snapshot version and day.
func (s *DashboardService) Dashboard(ctx context.Context) aggregate.Dashboard {
	return s.dashboardFor(ctx, s.store.Snapshot())
}

// Overview returns the dashboard, the topN largest expense categories and the
// recentN newest transactions of a single snapshot. Non-positive counts return everything.
func (s *DashboardService) Overview(ctx context.Context, topN, recentN int) Overview {
	snap := s.store.Snapshot()
	d := s.dashboardFor(ctx, snap)

	return Overview{
		Dashboard:     d,
		Version:       snap.Version,
		TopCategories: aggregate.TopCategories(d.Categories, topN),
		Recent:        head(snap.Transactions, recentN),
	}
}

func (s *DashboardService) dashboardFor(ctx context.Context, snap Snapshot) aggregate.Dashboard {
	now := s.store.Today()
	today := entity.FormatDate(now)

	if s.cache != nil {
		if d, ok := s.cache.Get(snap.Version, today); ok {
			return d
		}
	}

	d := aggregate.Build(snap.Transactions, now)

	s.logger.Debug("Dashboard computed", map[string]interface{}{
		"request_id":   middleware.GetRequestID(ctx),
		"version":      snap.Version,
		"today":        today,
		"transactions": len(snap.Transactions),
		"income":       d.Summary.Income,
		"expenses":     d.Summary.Expenses,
	})

	if s.cache != nil {
		s.cache.Retain(snap.Version)
		s.cache.Put(snap.Version, today, d)
	}

	return d
}

// TopCategories returns the n largest expense categories of the current snapshot
func (s *DashboardService) TopCategories(ctx context.Context, n int) []aggregate.CategoryTotal {
	return aggregate.TopCategories(s.Dashboard(ctx).Categories, n)
}

// RecentTransactions returns up to limit transactions, newest first.
// A non-positive limit returns the whole ledger.
func (s *DashboardService) RecentTransactions(limit int) []entity.Transaction {
	return head(s.store.Snapshot().Transactions, limit)
}

func head(txs []entity.Transaction, limit int) []entity.Transaction {
	if limit > 0 && len(txs) > limit {
		return txs[:limit]
	}
	return txs
}
