// Package db holds the badger-backed storage adapters
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/domain/repository"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
)

// LedgerKey is the fixed key holding the serialized ledger
const LedgerKey = "artha_ai_transactions"

// OpenBadger opens (creating if needed) a badger database in dir
func OpenBadger(dir string, syncWrites bool) (*badger.DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithSyncWrites(syncWrites)

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return bdb, nil
}

// BadgerLedgerRepository implements the ledger repository interface using BadgerDB.
// The whole ledger lives as a JSON array under LedgerKey.
type BadgerLedgerRepository struct {
	db     *badger.DB
	key    []byte
	logger logger.Logger
}

// NewBadgerLedgerRepository creates a new BadgerDB ledger repository
func NewBadgerLedgerRepository(db *badger.DB, log logger.Logger) *BadgerLedgerRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &BadgerLedgerRepository{
		db:     db,
		key:    []byte(LedgerKey),
		logger: log,
	}
}

// Load retrieves the persisted ledger
func (r *BadgerLedgerRepository) Load(ctx context.Context) ([]entity.Transaction, error) {
	var raw []byte

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key)
		if err != nil {
			return err
		}

		raw, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	txs, err := DecodeLedger(raw)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Ledger loaded", map[string]interface{}{
		"key":          LedgerKey,
		"transactions": len(txs),
		"bytes":        len(raw),
	})

	return txs, nil
}

// Save overwrites the persisted ledger with transactions
func (r *BadgerLedgerRepository) Save(ctx context.Context, txs []entity.Transaction) error {
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key, data)
	})

	if err != nil {
		return fmt.Errorf("failed to store ledger: %w", err)
	}

	r.logger.Debug("Ledger stored", map[string]interface{}{
		"key":          LedgerKey,
		"transactions": len(txs),
		"bytes":        len(data),
	})

	return nil
}

// DecodeLedger parses a serialized ledger. Anything other than a JSON array of
// valid transactions with distinct ids is reported as ErrCorruptSnapshot.
func DecodeLedger(raw []byte) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptSnapshot, err)
	}

	if txs == nil {
		return nil, fmt.Errorf("%w: value is not an array", repository.ErrCorruptSnapshot)
	}

	seen := make(map[string]struct{}, len(txs))
	for i := range txs {
		if err := txs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", repository.ErrCorruptSnapshot, i, err)
		}
		if _, dup := seen[txs[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", repository.ErrCorruptSnapshot, txs[i].ID)
		}
		seen[txs[i].ID] = struct{}{}
	}

	return txs, nil
}
