// Package repository declares the storage ports used by the application layer
package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
)

var (
	// ErrSnapshotNotFound is returned when nothing has been persisted yet
	ErrSnapshotNotFound = errors.New("ledger snapshot not found")
	// ErrCorruptSnapshot is returned when the persisted value cannot be decoded into a ledger
	ErrCorruptSnapshot = errors.New("ledger snapshot is corrupt")
)

// LedgerRepository persists the whole ledger as a single value.
// Save fully overwrites any previous value; there is no partial write and no versioning.
type LedgerRepository interface {
	// Load returns the persisted ledger in its stored order
	Load(ctx context.Context) ([]entity.Transaction, error)

	// Save replaces the persisted ledger with transactions
	Save(ctx context.Context, transactions []entity.Transaction) error
}
