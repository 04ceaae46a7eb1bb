package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot/inventory-engine/ledger"
	"github.com/depot/inventory-engine/ledger/store"
)

func appendTx(t *testing.T, s ledger.Store, itemID ledger.ItemID, typ ledger.TransactionType, qty int64) ledger.Transaction {
	t.Helper()
	stored, err := s.Append(context.Background(), ledger.Transaction{
		ItemID:     itemID,
		Type:       typ,
		Quantity:   qty,
		OccurredAt: time.Now(),
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	return stored
}

func TestProjector_FoldSemantics(t *testing.T) {
	// IN adds, OUT subtracts, TRANSFER contributes nothing.
	ctx := context.Background()
	s := store.NewMemory()
	appendTx(t, s, "item-1", ledger.TxIn, 10)
	appendTx(t, s, "item-1", ledger.TxOut, 4)
	appendTx(t, s, "item-1", ledger.TxTransfer, 3)

	p := ledger.NewProjector(s)
	qty, err := p.Quantity(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), qty)
}

func TestProjector_EmptyHistoryIsZero(t *testing.T) {
	p := ledger.NewProjector(store.NewMemory())
	qty, err := p.Quantity(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestProjector_ApplyMatchesReplay(t *testing.T) {
	// GIVEN: a projection loaded from history
	ctx := context.Background()
	s := store.NewMemory()
	appendTx(t, s, "item-1", ledger.TxIn, 10)

	p := ledger.NewProjector(s)
	qty, err := p.Quantity(ctx, "item-1")
	require.NoError(t, err)
	require.Equal(t, int64(10), qty)

	// WHEN: new movements are appended and applied incrementally
	p.Apply(appendTx(t, s, "item-1", ledger.TxOut, 3))
	p.Apply(appendTx(t, s, "item-1", ledger.TxIn, 1))

	qty, err = p.Quantity(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), qty)

	// THEN: the incremental total agrees with a full replay
	replayed, err := p.Recompute(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), replayed)
}

func TestProjector_SnapshotVersionAdvancesOnApply(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := ledger.NewProjector(s)

	_, before, err := p.Snapshot(ctx, "item-1")
	require.NoError(t, err)

	p.Apply(appendTx(t, s, "item-1", ledger.TxIn, 1))

	_, after, err := p.Snapshot(ctx, "item-1")
	require.NoError(t, err)
	assert.Greater(t, after, before)
}

func TestProjector_ApplyBeforeLoadIsSafe(t *testing.T) {
	// If the item was never projected, Apply is a no-op: the next read
	// replays the full history, which already includes the transaction.
	ctx := context.Background()
	s := store.NewMemory()
	p := ledger.NewProjector(s)

	p.Apply(appendTx(t, s, "item-1", ledger.TxIn, 5))

	qty, err := p.Quantity(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty, "transaction must not count twice")
}
