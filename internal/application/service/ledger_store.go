package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/domain/repository"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/google/uuid"
)

// ErrDuplicateID is returned when an add request reuses an existing transaction id
var ErrDuplicateID = errors.New("transaction id already exists")

// NewTransaction is an add request as it arrives from a form or the assistant.
// Amount is kept as raw text so that validation sees exactly what was entered.
type NewTransaction struct {
	ID          string
	Type        entity.TransactionType
	Category    string
	Amount      string
	Date        string
	Description string
}

// Snapshot is a read-only view of the ledger at one version.
// Callers must not modify Transactions in place.
type Snapshot struct {
	Version      uint64
	Transactions []entity.Transaction
}

// LedgerStoreOption configures a LedgerStore
type LedgerStoreOption func(*LedgerStore)

// WithClock sets the source of "today" used for defaults and the seed data
func WithClock(now func() time.Time) LedgerStoreOption {
	return func(s *LedgerStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeed enables or disables seeding the default ledger on first load
func WithSeed(enabled bool) LedgerStoreOption {
	return func(s *LedgerStore) {
		s.seed = enabled
	}
}

// WithIDGenerator replaces the identifier generator used for new transactions
func WithIDGenerator(gen func() string) LedgerStoreOption {
	return func(s *LedgerStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// LedgerStore owns the ordered, durable collection of transactions.
// New entries are prepended, so the collection reads newest first.
type LedgerStore struct {
	repo   repository.LedgerRepository
	logger logger.Logger

	now   func() time.Time
	newID func() string
	seed  bool

	mu      sync.RWMutex
	txs     []entity.Transaction
	ids     map[string]struct{}
	version uint64
}

// NewLedgerStore creates a ledger store; call Load before use
func NewLedgerStore(repo repository.LedgerRepository, log logger.Logger, opts ...LedgerStoreOption) *LedgerStore {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	s := &LedgerStore{
		repo:   repo,
		logger: log,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		seed:   true,
		ids:    make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// DefaultTransactions returns the example ledger used on first start
func DefaultTransactions(now time.Time) []entity.Transaction {
	today := entity.FormatDate(now)
	yesterday := entity.FormatDate(now.AddDate(0, 0, -1))

	return []entity.Transaction{
		{ID: "1", Type: entity.Income, Category: "Salary", Amount: 45000, Date: today, Description: "Monthly Salary"},
		{ID: "2", Type: entity.Expense, Category: "Food", Amount: 1200, Date: today, Description: "Dinner with friends"},
		{ID: "3", Type: entity.Expense, Category: "Rent", Amount: 12000, Date: yesterday, Description: "House Rent"},
		{ID: "4", Type: entity.Expense, Category: "Travel", Amount: 500, Date: yesterday, Description: "Fuel"},
	}
}

// Load restores the ledger from the repository. When nothing is stored, or the
// stored value is corrupt, the default ledger is seeded and persisted right away.
func (s *LedgerStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.replace(txs)
		s.logger.Info("Ledger restored", map[string]interface{}{
			"transactions": len(txs),
		})
		return nil

	case errors.Is(err, repository.ErrCorruptSnapshot):
		s.logger.Error("Failed to load transactions", map[string]interface{}{
			"error": err.Error(),
		})

	case errors.Is(err, repository.ErrSnapshotNotFound):
		s.logger.Info("No stored ledger found", nil)

	default:
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if !s.seed {
		s.replace(nil)
		s.logger.Warn("Seeding disabled, starting with an empty ledger", nil)
		return nil
	}

	seed := DefaultTransactions(s.now())
	if err := s.persist(ctx, seed); err != nil {
		return fmt.Errorf("failed to persist seed ledger: %w", err)
	}

	s.replace(seed)
	s.logger.Info("Ledger seeded with default transactions", map[string]interface{}{
		"transactions": len(seed),
	})

	return nil
}

// Add validates req, prepends the resulting transaction and persists the ledger.
// A rejected request leaves the ledger and the stored value untouched.
func (s *LedgerStore) Add(ctx context.Context, req NewTransaction) (entity.Transaction, error) {
	tx, err := s.build(req)
	if err != nil {
		s.logger.Warn("Transaction rejected", map[string]interface{}{
			"type":   req.Type,
			"amount": req.Amount,
			"error":  err.Error(),
		})
		return entity.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[tx.ID]; exists {
		return entity.Transaction{}, fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
	}

	next := make([]entity.Transaction, 0, len(s.txs)+1)
	next = append(next, tx)
	next = append(next, s.txs...)

	if err := s.persist(ctx, next); err != nil {
		s.logger.Error("Failed to persist ledger", map[string]interface{}{
			"id":    tx.ID,
			"error": err.Error(),
		})
		return entity.Transaction{}, err
	}

	s.txs = next
	s.ids[tx.ID] = struct{}{}
	s.version++

	s.logger.Info("Transaction added", map[string]interface{}{
		"id":       tx.ID,
		"type":     tx.Type,
		"category": tx.Category,
		"amount":   tx.Amount,
		"date":     tx.Date,
	})

	return tx, nil
}

// Snapshot returns the current ledger, newest first
func (s *LedgerStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]entity.Transaction, len(s.txs))
	copy(txs, s.txs)

	return Snapshot{Version: s.version, Transactions: txs}
}

// Find returns the transaction with the given id
func (s *LedgerStore) Find(id string) (entity.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.ids[id]; !ok {
		return entity.Transaction{}, false
	}
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return entity.Transaction{}, false
}

// Len returns the number of transactions in the ledger
func (s *LedgerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// Today returns the current calendar date as used by the ledger
func (s *LedgerStore) Today() time.Time {
	return s.now()
}

func (s *LedgerStore) build(req NewTransaction) (entity.Transaction, error) {
	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return entity.Transaction{}, err
	}

	if !req.Type.Valid() {
		return entity.Transaction{}, fmt.Errorf("%w: got %q", entity.ErrInvalidType, req.Type)
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = entity.FormatDate(s.now())
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = entity.DefaultCategory
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = category
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = s.newID()
	}

	tx := entity.Transaction{
		ID:          id,
		Type:        req.Type,
		Category:    category,
		Amount:      amount,
		Date:        date,
		Description: description,
	}

	if err := tx.Validate(); err != nil {
		return entity.Transaction{}, err
	}

	return tx, nil
}

// persist writes txs through the repository. An empty ledger is never written,
// so an accidental empty state cannot overwrite stored data.
func (s *LedgerStore) persist(ctx context.Context, txs []entity.Transaction) error {
	if len(txs) == 0 {
		s.logger.Debug("Skipping persistence of empty ledger", nil)
		return nil
	}
	return s.repo.Save(ctx, txs)
}

func (s *LedgerStore) replace(txs []entity.Transaction) {
	s.txs = txs
	s.ids = make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		s.ids[tx.ID] = struct{}{}
	}
	s.version++
}
