/*
Package catalog manages the item and category registry.

PURPOSE:
  Items and categories are catalog state: names, prices, units, lifecycle
  status, minimum-quantity policy. Catalog edits never move stock - the
  quantity on hand is owned by the ledger and is never stored on an Item.

LIFECYCLE:
  An item's status (AVAILABLE, IN_USE, MAINTENANCE, DECOMMISSIONED) is
  changed only by catalog edits, never by transactions. DECOMMISSIONED is
  terminal: the stock engine rejects movements against decommissioned
  items, and retirement replaces hard deletion so ledger history keeps
  its referent.
*/
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/depot/inventory-engine/ledger"
	"github.com/shopspring/decimal"
)

type CategoryID string

// =============================================================================
// LIFECYCLE STATUS
// =============================================================================

type ItemStatus string

const (
	StatusAvailable      ItemStatus = "AVAILABLE"
	StatusInUse          ItemStatus = "IN_USE"
	StatusMaintenance    ItemStatus = "MAINTENANCE"
	StatusDecommissioned ItemStatus = "DECOMMISSIONED"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusMaintenance, StatusDecommissioned:
		return true
	}
	return false
}

// =============================================================================
// ITEM & CATEGORY
// =============================================================================

// Item is a catalog entry. Quantity is deliberately absent: it is always
// derived from the ledger.
type Item struct {
	ID          ledger.ItemID
	Name        string
	Description string
	CategoryID  CategoryID
	Unit        string
	Price       decimal.Decimal
	MinQuantity *int64
	Status      ItemStatus
	Location    ledger.LocationID
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID          CategoryID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParsePrice parses a decimal price string. Empty means zero; negative
// or unparseable values are rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d, nil
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrItemNotFound aliases the engine's sentinel so callers need only
	// one errors.Is check across both packages.
	ErrItemNotFound = ledger.ErrItemNotFound

	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryInUse blocks deleting a category that items still
	// reference. Reassign the items first.
	ErrCategoryInUse = errors.New("category is referenced by items")

	ErrNameRequired  = errors.New("name is required")
	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrInvalidStatus = errors.New("invalid item status")
	ErrInvalidMin    = errors.New("minimum quantity must not be negative")
)

// =============================================================================
// STORE - Catalog persistence
// =============================================================================

// Store persists items and categories. Implemented by the in-memory
// store (tests) and the SQLite store (server).
type Store interface {
	CreateItem(ctx context.Context, item Item) error
	UpdateItem(ctx context.Context, item Item) error
	Item(ctx context.Context, id ledger.ItemID) (Item, error)
	Items(ctx context.Context) ([]Item, error)

	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	Category(ctx context.Context, id CategoryID) (Category, error)
	Categories(ctx context.Context) ([]Category, error)
	DeleteCategory(ctx context.Context, id CategoryID) error

	CountItemsInCategory(ctx context.Context, id CategoryID) (int, error)
}
