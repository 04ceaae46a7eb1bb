/*
projector.go - Quantity derivation from the ledger

PURPOSE:
  Answers "how many are on hand?" for an item. The authoritative answer is
  always a fold over the item's transactions: IN adds, OUT subtracts,
  TRANSFER contributes zero. The projector keeps an incrementally
  maintained running total per item so reads don't replay the whole
  history, but that cache is an optimization over the fold, never a
  second source of truth - Recompute re-derives it from a full replay.

VERSION TOKENS:
  Each cached total carries a version that increments on every apply.
  The engine uses it as an optimistic concurrency token: a commit is only
  allowed if the version it validated against is still current.
*/
package ledger

import (
	"context"
	"sync"
)

// Projector derives per-item on-hand quantities from a Store.
type Projector struct {
	store Store

	mu     sync.RWMutex
	totals map[ItemID]*itemTotal
}

type itemTotal struct {
	quantity int64
	version  uint64
}

func NewProjector(store Store) *Projector {
	return &Projector{
		store:  store,
		totals: make(map[ItemID]*itemTotal),
	}
}

// Quantity returns the item's projected on-hand quantity, loading the
// running total from a replay on first access.
func (p *Projector) Quantity(ctx context.Context, itemID ItemID) (int64, error) {
	qty, _, err := p.Snapshot(ctx, itemID)
	return qty, err
}

// Snapshot returns the projected quantity together with its version
// token. The token changes whenever a transaction is applied.
func (p *Projector) Snapshot(ctx context.Context, itemID ItemID) (int64, uint64, error) {
	p.mu.RLock()
	if t, ok := p.totals[itemID]; ok {
		qty, ver := t.quantity, t.version
		p.mu.RUnlock()
		return qty, ver, nil
	}
	p.mu.RUnlock()

	return p.load(ctx, itemID)
}

// Apply folds a freshly committed transaction into the running total.
// Must only be called after the store append succeeded, by the single
// in-flight committer for the item.
func (p *Projector) Apply(tx Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.totals[tx.ItemID]
	if !ok {
		// Not yet loaded; the next read replays the full history,
		// which already includes this transaction.
		return
	}
	t.quantity += tx.Delta()
	t.version++
}

// Recompute discards the cached total and re-derives it from a full
// replay. Used for audits: the result must always equal the cache.
func (p *Projector) Recompute(ctx context.Context, itemID ItemID) (int64, error) {
	txs, err := p.store.ListByItem(ctx, itemID, Query{})
	if err != nil {
		return 0, &PersistenceError{Op: "replay", Err: err}
	}

	var qty int64
	for _, tx := range txs {
		qty += tx.Delta()
	}

	p.mu.Lock()
	if t, ok := p.totals[itemID]; ok {
		t.quantity = qty
		t.version++
	} else {
		p.totals[itemID] = &itemTotal{quantity: qty, version: 1}
	}
	p.mu.Unlock()

	return qty, nil
}

// load replays the item's history and memoizes the result. Double-checks
// under the write lock so concurrent first reads agree on one total.
func (p *Projector) load(ctx context.Context, itemID ItemID) (int64, uint64, error) {
	txs, err := p.store.ListByItem(ctx, itemID, Query{})
	if err != nil {
		return 0, 0, &PersistenceError{Op: "replay", Err: err}
	}

	var qty int64
	for _, tx := range txs {
		qty += tx.Delta()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.totals[itemID]; ok {
		return t.quantity, t.version, nil
	}
	t := &itemTotal{quantity: qty, version: 1}
	p.totals[itemID] = t
	return t.quantity, t.version, nil
}

// version returns the current token without loading. Zero means the item
// has never been projected.
func (p *Projector) version(itemID ItemID) uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if t, ok := p.totals[itemID]; ok {
		return t.version
	}
	return 0
}
