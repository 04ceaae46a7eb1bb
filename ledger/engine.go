/*
engine.go - The stock engine's external interface

PURPOSE:
  Ties the validator, ledger, projector, and monitor together behind the
  four operations a presentation layer consumes:

    CreateTransaction(input)        -> TransactionID
    GetStock(itemID)                -> {quantity, status}
    ListTransactions(itemID, query) -> []Transaction
    LowStockItems()                 -> []ItemID

CONCURRENCY:
  At most one validate-then-append sequence is in flight per item at a
  time; cross-item operations proceed fully in parallel. The engine uses
  optimistic compare-and-append: it snapshots (quantity, version) from
  the projector, validates outside any lock, then commits under a short
  per-item critical section that re-checks the version. A lost race
  re-reads fresh stock and re-validates; after maxAppendAttempts the
  engine returns ErrConflict. An abandoned attempt (context canceled
  before commit) has no side effects.
*/
package ledger

import (
	"context"
	"errors"
	"sync"
)

// maxAppendAttempts bounds optimistic retries before surfacing ErrConflict.
const maxAppendAttempts = 3

// Engine exposes the stock-accounting operations.
type Engine struct {
	ledger    *Ledger
	projector *Projector
	items     ItemDirectory
	policy    PolicySource

	locks sync.Map // ItemID -> *sync.Mutex
}

func NewEngine(store Store, items ItemDirectory, policy PolicySource) *Engine {
	return &Engine{
		ledger:    NewLedger(store),
		projector: NewProjector(store),
		items:     items,
		policy:    policy,
	}
}

// CreateTransaction validates and appends a stock movement.
// Returns the assigned transaction ID, a validation error the caller can
// fix, ErrConflict if concurrent appends kept winning the race, or a
// PersistenceError if storage failed.
func (e *Engine) CreateTransaction(ctx context.Context, in Input) (TransactionID, error) {
	itemID := in.ForItem()

	info, err := e.items.ItemInfo(ctx, itemID)
	if err != nil {
		return "", err
	}
	if info.Decommissioned {
		return "", ErrItemDecommissioned
	}

	policy, err := e.policy.StockPolicy(ctx)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		quantity, version, err := e.projector.Snapshot(ctx, itemID)
		if err != nil {
			return "", err
		}

		tx, err := Validate(in, quantity, policy)
		if err != nil {
			return "", err
		}

		stored, committed, err := e.commit(ctx, tx, version)
		if err != nil {
			return "", err
		}
		if committed {
			return stored.ID, nil
		}
		// Version moved between snapshot and commit; re-validate
		// against fresh stock.
	}

	return "", ErrConflict
}

// commit appends the transaction if the item's projection version is
// still the one the validation saw. Returns committed=false on a lost
// race so the caller can retry with fresh data.
func (e *Engine) commit(ctx context.Context, tx Transaction, version uint64) (Transaction, bool, error) {
	mu := e.itemLock(tx.ItemID)
	mu.Lock()
	defer mu.Unlock()

	if e.projector.version(tx.ItemID) != version {
		return Transaction{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		// Abandoned before commit: nothing persisted.
		return Transaction{}, false, err
	}

	stored, err := e.ledger.Append(ctx, tx)
	if err != nil {
		return Transaction{}, false, err
	}
	e.projector.Apply(stored)
	return stored, true, nil
}

// GetStock returns the projected quantity and threshold status for an item.
func (e *Engine) GetStock(ctx context.Context, itemID ItemID) (Stock, error) {
	info, err := e.items.ItemInfo(ctx, itemID)
	if err != nil {
		return Stock{}, err
	}

	quantity, err := e.projector.Quantity(ctx, itemID)
	if err != nil {
		return Stock{}, err
	}

	return Stock{
		Quantity: quantity,
		Status:   Status(quantity, info.MinQuantity),
	}, nil
}

// ListTransactions returns the item's movement history, chronologically,
// optionally narrowed by Query.
func (e *Engine) ListTransactions(ctx context.Context, itemID ItemID, q Query) ([]Transaction, error) {
	if _, err := e.items.ItemInfo(ctx, itemID); err != nil {
		return nil, err
	}
	return e.ledger.Transactions(ctx, itemID, q)
}

// RecentTransactions returns the latest movements across all items,
// newest first. Feeds the dashboard.
func (e *Engine) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	return e.ledger.Recent(ctx, limit)
}

// LowStockItems returns every item whose status is LOW_STOCK or
// OUT_OF_STOCK.
func (e *Engine) LowStockItems(ctx context.Context) ([]ItemID, error) {
	ids, err := e.items.ItemIDs(ctx)
	if err != nil {
		return nil, err
	}

	var low []ItemID
	for _, id := range ids {
		stock, err := e.GetStock(ctx, id)
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				continue // removed between listing and read
			}
			return nil, err
		}
		if NeedsAttention(stock.Status) {
			low = append(low, id)
		}
	}
	return low, nil
}

// AuditStock re-derives the item's quantity from a full ledger replay.
// The result must equal GetStock's quantity; any difference is a bug.
func (e *Engine) AuditStock(ctx context.Context, itemID ItemID) (int64, error) {
	return e.projector.Recompute(ctx, itemID)
}

func (e *Engine) itemLock(itemID ItemID) *sync.Mutex {
	if mu, ok := e.locks.Load(itemID); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := e.locks.LoadOrStore(itemID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
