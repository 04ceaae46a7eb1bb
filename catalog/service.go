/*
service.go - Catalog operations and the engine's item directory

PURPOSE:
  Validates and applies catalog edits on top of an injected Store, and
  adapts the catalog into the stock engine's ItemDirectory so the engine
  can resolve minimum-quantity policies and lifecycle status.

CATEGORY DELETION:
  Deleting a category that items still reference fails with
  ErrCategoryInUse. Items must be reassigned first; the catalog never
  silently orphans or cascades.
*/
package catalog

import (
	"context"
	"time"

	"github.com/depot/inventory-engine/ledger"
	"github.com/google/uuid"
)

// Service applies catalog edits and serves item lookups.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// =============================================================================
// ITEMS
// =============================================================================

// ItemDraft carries the editable fields of an item.
type ItemDraft struct {
	Name        string
	Description string
	CategoryID  CategoryID
	Unit        string
	Price       string // decimal string, e.g. "6999.90"
	MinQuantity *int64
	Status      ItemStatus
	Location    ledger.LocationID
	ImageURL    string
}

// CreateItem registers a new item. Status defaults to AVAILABLE.
func (s *Service) CreateItem(ctx context.Context, draft ItemDraft) (Item, error) {
	item, err := s.itemFromDraft(ctx, draft)
	if err != nil {
		return Item{}, err
	}

	now := time.Now().UTC()
	item.ID = ledger.ItemID(uuid.NewString())
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.store.CreateItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateItem applies a full edit to an existing item. CreatedAt is kept;
// UpdatedAt moves.
func (s *Service) UpdateItem(ctx context.Context, id ledger.ItemID, draft ItemDraft) (Item, error) {
	existing, err := s.store.Item(ctx, id)
	if err != nil {
		return Item{}, err
	}

	item, err := s.itemFromDraft(ctx, draft)
	if err != nil {
		return Item{}, err
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Service) Item(ctx context.Context, id ledger.ItemID) (Item, error) {
	return s.store.Item(ctx, id)
}

func (s *Service) Items(ctx context.Context) ([]Item, error) {
	return s.store.Items(ctx)
}

// Decommission retires an item. This is the terminal lifecycle state:
// the stock engine rejects further transactions against it.
func (s *Service) Decommission(ctx context.Context, id ledger.ItemID) (Item, error) {
	item, err := s.store.Item(ctx, id)
	if err != nil {
		return Item{}, err
	}
	item.Status = StatusDecommissioned
	item.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Service) itemFromDraft(ctx context.Context, draft ItemDraft) (Item, error) {
	if draft.Name == "" {
		return Item{}, ErrNameRequired
	}

	price, err := ParsePrice(draft.Price)
	if err != nil {
		return Item{}, err
	}

	status := draft.Status
	if status == "" {
		status = StatusAvailable
	}
	if !status.Valid() {
		return Item{}, ErrInvalidStatus
	}

	if draft.MinQuantity != nil && *draft.MinQuantity < 0 {
		return Item{}, ErrInvalidMin
	}

	// Category must exist; items are never created against dangling refs.
	if _, err := s.store.Category(ctx, draft.CategoryID); err != nil {
		return Item{}, err
	}

	return Item{
		Name:        draft.Name,
		Description: draft.Description,
		CategoryID:  draft.CategoryID,
		Unit:        draft.Unit,
		Price:       price,
		MinQuantity: draft.MinQuantity,
		Status:      status,
		Location:    draft.Location,
		ImageURL:    draft.ImageURL,
	}, nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *Service) CreateCategory(ctx context.Context, name, description string) (Category, error) {
	if name == "" {
		return Category{}, ErrNameRequired
	}
	now := time.Now().UTC()
	c := Category{
		ID:          CategoryID(uuid.NewString()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id CategoryID, name, description string) (Category, error) {
	if name == "" {
		return Category{}, ErrNameRequired
	}
	c, err := s.store.Category(ctx, id)
	if err != nil {
		return Category{}, err
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.Categories(ctx)
}

// DeleteCategory removes a category. Fails with ErrCategoryInUse while
// any item still references it.
func (s *Service) DeleteCategory(ctx context.Context, id CategoryID) error {
	n, err := s.store.CountItemsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	return s.store.DeleteCategory(ctx, id)
}

// =============================================================================
// ITEM DIRECTORY - Adapter for the stock engine
// =============================================================================

// ItemInfo implements ledger.ItemDirectory.
func (s *Service) ItemInfo(ctx context.Context, id ledger.ItemID) (ledger.ItemInfo, error) {
	item, err := s.store.Item(ctx, id)
	if err != nil {
		return ledger.ItemInfo{}, err
	}
	return ledger.ItemInfo{
		MinQuantity:    item.MinQuantity,
		Decommissioned: item.Status == StatusDecommissioned,
	}, nil
}

// ItemIDs implements ledger.ItemDirectory.
func (s *Service) ItemIDs(ctx context.Context) ([]ledger.ItemID, error) {
	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]ledger.ItemID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}
