/*
ledger.go - Append-only transaction log

PURPOSE:
  The Ledger is the source of truth for all stock movement. Every receipt,
  issue, and transfer is recorded here. On-hand quantity is always computed
  by folding transactions - there is no quantity column that can drift.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once written, transactions cannot be modified
  3. ORDERED: Chronological, insertion order for equal timestamps

CORRECTIONS:
  A mistaken entry is never edited. Append a compensating entry instead
  (an OUT to undo an IN, and vice versa); both remain in the history.
*/
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger wraps a Store with identity and timestamp assignment.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Append persists a validated transaction, assigning its ID and
// timestamps when absent. This is the ONLY write path into the ledger.
func (l *Ledger) Append(ctx context.Context, tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = TransactionID(uuid.NewString())
	}
	now := time.Now().UTC()
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = now
	}
	tx.CreatedAt = now

	stored, err := l.store.Append(ctx, tx)
	if err != nil {
		return Transaction{}, &PersistenceError{Op: "append", Err: err}
	}
	return stored, nil
}

// Transactions returns the item's history, chronologically.
func (l *Ledger) Transactions(ctx context.Context, itemID ItemID, q Query) ([]Transaction, error) {
	txs, err := l.store.ListByItem(ctx, itemID, q)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return txs, nil
}

// Recent returns the latest entries across all items, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	txs, err := l.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list recent", Err: err}
	}
	return txs, nil
}
