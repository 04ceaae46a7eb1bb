/*
store.go - Persistence interface for the transaction ledger

PURPOSE:
  Defines the interface between the stock engine and the database.
  Implementations must preserve append-only semantics: there is no
  Update and no Delete, ever. Corrections are compensating entries.

ORDERING CONTRACT:
  ListByItem returns entries chronologically by OccurredAt; entries with
  equal timestamps are ordered by Seq, a monotonic value the store assigns
  at append time. This makes replays deterministic.

IMPLEMENTATIONS:
  - store/memory.go: In-memory, for tests and development
  - ../store/sqlite:  SQLite-backed, for the server
*/
package ledger

import "context"

// Store persists transactions. APPEND-ONLY: no Update, no Delete.
type Store interface {
	// Append persists a transaction atomically and assigns its Seq.
	// Returns the stored copy. A failed append has no effect.
	Append(ctx context.Context, tx Transaction) (Transaction, error)

	// ListByItem returns the item's transactions chronologically,
	// ties broken by insertion order. The zero Query returns everything.
	ListByItem(ctx context.Context, itemID ItemID, q Query) ([]Transaction, error)

	// ListRecent returns the most recently appended transactions across
	// all items, newest first.
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
}

// ItemInfo is the slice of catalog state the engine needs to admit and
// classify a transaction. The catalog package provides the directory.
type ItemInfo struct {
	MinQuantity    *int64
	Decommissioned bool
}

// ItemDirectory resolves items against the catalog.
type ItemDirectory interface {
	ItemInfo(ctx context.Context, id ItemID) (ItemInfo, error)
	ItemIDs(ctx context.Context) ([]ItemID, error)
}

// =============================================================================
// POLICY - Deployment configuration for validation
// =============================================================================

// Policy holds the deployment toggles the validator consults.
type Policy struct {
	// AllowNegativeStock permits OUT/TRANSFER movements to overdraw the
	// projected quantity.
	AllowNegativeStock bool
}

// PolicySource supplies the current policy. Backed by the settings store
// in the server so toggles apply without a restart.
type PolicySource interface {
	StockPolicy(ctx context.Context) (Policy, error)
}

// StaticPolicy is a fixed PolicySource, mainly for tests.
type StaticPolicy Policy

func (p StaticPolicy) StockPolicy(context.Context) (Policy, error) {
	return Policy(p), nil
}
