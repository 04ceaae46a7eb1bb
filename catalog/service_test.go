package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
)

func newService(t *testing.T) (*catalog.Service, catalog.Category) {
	t.Helper()
	svc := catalog.NewService(catalog.NewMemoryStore())
	cat, err := svc.CreateCategory(context.Background(), "Electronics", "Devices")
	require.NoError(t, err)
	return svc, cat
}

func draft(categoryID catalog.CategoryID) catalog.ItemDraft {
	return catalog.ItemDraft{
		Name:       "Laptop",
		CategoryID: categoryID,
		Unit:       "pcs",
		Price:      "6999.90",
		Location:   "room-101",
	}
}

func TestService_CreateItem(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)

	item, err := svc.CreateItem(ctx, draft(cat.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, catalog.StatusAvailable, item.Status, "status defaults to AVAILABLE")
	assert.True(t, item.Price.Equal(decimal.RequireFromString("6999.90")))
	assert.False(t, item.CreatedAt.IsZero())

	got, err := svc.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
}

func TestService_CreateItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)

	cases := []struct {
		name    string
		mutate  func(*catalog.ItemDraft)
		wantErr error
	}{
		{"empty name", func(d *catalog.ItemDraft) { d.Name = "" }, catalog.ErrNameRequired},
		{"negative price", func(d *catalog.ItemDraft) { d.Price = "-1" }, catalog.ErrInvalidPrice},
		{"garbage price", func(d *catalog.ItemDraft) { d.Price = "abc" }, catalog.ErrInvalidPrice},
		{"bad status", func(d *catalog.ItemDraft) { d.Status = "BROKEN" }, catalog.ErrInvalidStatus},
		{"negative min", func(d *catalog.ItemDraft) { m := int64(-1); d.MinQuantity = &m }, catalog.ErrInvalidMin},
		{"unknown category", func(d *catalog.ItemDraft) { d.CategoryID = "ghost" }, catalog.ErrCategoryNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := draft(cat.ID)
			tc.mutate(&d)
			_, err := svc.CreateItem(ctx, d)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_UpdateItemKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)

	item, err := svc.CreateItem(ctx, draft(cat.ID))
	require.NoError(t, err)

	d := draft(cat.ID)
	d.Name = "Laptop Pro"
	updated, err := svc.UpdateItem(ctx, item.ID, d)
	require.NoError(t, err)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, "Laptop Pro", updated.Name)
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)
}

func TestService_UpdateUnknownItem(t *testing.T) {
	svc, cat := newService(t)
	_, err := svc.UpdateItem(context.Background(), "ghost", draft(cat.ID))
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestService_Decommission(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)
	item, err := svc.CreateItem(ctx, draft(cat.ID))
	require.NoError(t, err)

	retired, err := svc.Decommission(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusDecommissioned, retired.Status)

	// The directory view reports it so the engine rejects movements.
	info, err := svc.ItemInfo(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, info.Decommissioned)
}

func TestService_DeleteCategoryBlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)
	item, err := svc.CreateItem(ctx, draft(cat.ID))
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, catalog.ErrCategoryInUse)

	// Reassign the item to a fresh category, then deletion goes through.
	other, err := svc.CreateCategory(ctx, "Furniture", "")
	require.NoError(t, err)
	d := draft(other.ID)
	_, err = svc.UpdateItem(ctx, item.ID, d)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))

	_, err = svc.CreateItem(ctx, draft(cat.ID))
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestService_UpdateCategory(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)

	updated, err := svc.UpdateCategory(ctx, cat.ID, "Gadgets", "Small devices")
	require.NoError(t, err)
	assert.Equal(t, "Gadgets", updated.Name)

	_, err = svc.UpdateCategory(ctx, "ghost", "X", "")
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)

	_, err = svc.UpdateCategory(ctx, cat.ID, "", "")
	assert.ErrorIs(t, err, catalog.ErrNameRequired)
}

func TestService_ItemDirectory(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)

	m := int64(3)
	d := draft(cat.ID)
	d.MinQuantity = &m
	item, err := svc.CreateItem(ctx, d)
	require.NoError(t, err)

	info, err := svc.ItemInfo(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, info.MinQuantity)
	assert.Equal(t, int64(3), *info.MinQuantity)
	assert.False(t, info.Decommissioned)

	_, err = svc.ItemInfo(ctx, "ghost")
	assert.ErrorIs(t, err, ledger.ErrItemNotFound)

	ids, err := svc.ItemIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ledger.ItemID{item.ID}, ids)
}

func TestParsePrice(t *testing.T) {
	zero, err := catalog.ParsePrice("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	d, err := catalog.ParsePrice("12.50")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = catalog.ParsePrice("-0.01")
	assert.ErrorIs(t, err, catalog.ErrInvalidPrice)
}
