package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/depot/inventory-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory catalog (for testing/dev)
// =============================================================================

type MemoryStore struct {
	mu         sync.RWMutex
	items      map[ledger.ItemID]Item
	categories map[CategoryID]Category
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:      make(map[ledger.ItemID]Item),
		categories: make(map[CategoryID]Category),
	}
}

func (m *MemoryStore) CreateItem(_ context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MemoryStore) UpdateItem(_ context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *MemoryStore) Item(_ context.Context, id ledger.ItemID) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

func (m *MemoryStore) Items(_ context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *MemoryStore) CreateCategory(_ context.Context, c Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) UpdateCategory(_ context.Context, c Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return ErrCategoryNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) Category(_ context.Context, id CategoryID) (Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (m *MemoryStore) Categories(_ context.Context) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Name < cs[j].Name })
	return cs, nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, id CategoryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) CountItemsInCategory(_ context.Context, id CategoryID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, item := range m.items {
		if item.CategoryID == id {
			n++
		}
	}
	return n, nil
}
