// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/depot/inventory-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	byItem map[ledger.ItemID][]ledger.Transaction
	all    []ledger.Transaction
	seq    uint64
}

func NewMemory() *Memory {
	return &Memory{byItem: make(map[ledger.ItemID][]ledger.Transaction)}
}

// Append stores a transaction, assigning the next sequence number.
// Append-only: there is no way to modify or remove an entry.
func (m *Memory) Append(_ context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	tx.Seq = m.seq

	txs := m.byItem[tx.ItemID]

	// Insert chronologically; equal timestamps keep insertion order, so
	// find the first entry strictly after this one.
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].OccurredAt.After(tx.OccurredAt)
	})
	txs = append(txs, ledger.Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	m.byItem[tx.ItemID] = txs

	m.all = append(m.all, tx)
	return tx, nil
}

func (m *Memory) ListByItem(_ context.Context, itemID ledger.ItemID, q ledger.Query) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Transaction
	for _, tx := range m.byItem[itemID] {
		if q.Since != nil && tx.OccurredAt.Before(*q.Since) {
			continue
		}
		result = append(result, tx)
		if q.Limit > 0 && len(result) == q.Limit {
			break
		}
	}
	return result, nil
}

func (m *Memory) ListRecent(_ context.Context, limit int) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.all) {
		limit = len(m.all)
	}

	result := make([]ledger.Transaction, 0, limit)
	for i := len(m.all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.all[i])
	}
	return result, nil
}
