package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot/inventory-engine/auth"
	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
	"github.com/depot/inventory-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tx(itemID ledger.ItemID, typ ledger.TransactionType, qty int64, at time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:               ledger.TransactionID(uuid.NewString()),
		ItemID:           itemID,
		Type:             typ,
		Quantity:         qty,
		Source:           "room-a",
		Destination:      "room-b",
		ResponsibleParty: "tester",
		OccurredAt:       at,
		CreatedAt:        at,
	}
}

// =============================================================================
// LEDGER
// =============================================================================

func TestAppendAndListByItem(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	stored, err := store.Append(ctx, tx("item-1", ledger.TxIn, 5, at))
	require.NoError(t, err)
	assert.NotZero(t, stored.Seq)

	txs, err := store.ListByItem(ctx, "item-1", ledger.Query{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	got := txs[0]
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, ledger.TxIn, got.Type)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, ledger.LocationID("room-a"), got.Source)
	assert.Equal(t, ledger.LocationID("room-b"), got.Destination)
	assert.Equal(t, "tester", got.ResponsibleParty)
	assert.True(t, got.OccurredAt.Equal(at))
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	entry := tx("item-1", ledger.TxIn, 1, time.Now())

	_, err := store.Append(ctx, entry)
	require.NoError(t, err)
	_, err = store.Append(ctx, entry)
	assert.Error(t, err)
}

func TestListByItemOrdering(t *testing.T) {
	// Chronological by occurred_at; equal timestamps fall back to seq, so
	// the append order is preserved.
	ctx := context.Background()
	store := newStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	late, err := store.Append(ctx, tx("item-1", ledger.TxIn, 1, base.Add(time.Hour)))
	require.NoError(t, err)
	first, err := store.Append(ctx, tx("item-1", ledger.TxIn, 2, base))
	require.NoError(t, err)
	second, err := store.Append(ctx, tx("item-1", ledger.TxOut, 3, base))
	require.NoError(t, err)

	txs, err := store.ListByItem(ctx, "item-1", ledger.Query{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, first.ID, txs[0].ID)
	assert.Equal(t, second.ID, txs[1].ID)
	assert.Equal(t, late.ID, txs[2].ID)
}

func TestListByItemMixedPrecisionTimestamps(t *testing.T) {
	// Timestamps are persisted as text, so whole-second and sub-second
	// values must still compare chronologically: a receipt at 12:00:01.5
	// sorts after one at 12:00:01 and survives a Since=12:00:01 filter.
	ctx := context.Background()
	store := newStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)

	early, err := store.Append(ctx, tx("item-1", ledger.TxIn, 1, base.Add(-700*time.Millisecond)))
	require.NoError(t, err)
	whole, err := store.Append(ctx, tx("item-1", ledger.TxIn, 2, base))
	require.NoError(t, err)
	fractional, err := store.Append(ctx, tx("item-1", ledger.TxOut, 3, base.Add(500*time.Millisecond)))
	require.NoError(t, err)

	txs, err := store.ListByItem(ctx, "item-1", ledger.Query{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, early.ID, txs[0].ID)
	assert.Equal(t, whole.ID, txs[1].ID)
	assert.Equal(t, fractional.ID, txs[2].ID)

	since := base
	txs, err = store.ListByItem(ctx, "item-1", ledger.Query{Since: &since})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, whole.ID, txs[0].ID)
	assert.Equal(t, fractional.ID, txs[1].ID, "sub-second entry after the boundary must be included")
}

func TestListByItemQuery(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, tx("item-1", ledger.TxIn, 1, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	since := base.Add(3 * time.Hour)
	txs, err := store.ListByItem(ctx, "item-1", ledger.Query{Since: &since})
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, err = store.ListByItem(ctx, "item-1", ledger.Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestListRecent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	at := time.Now()

	var last ledger.Transaction
	for i := 0; i < 3; i++ {
		var err error
		last, err = store.Append(ctx, tx(ledger.ItemID("item-1"), ledger.TxIn, 1, at))
		require.NoError(t, err)
	}

	txs, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, last.ID, txs[0].ID, "newest first")
}

// =============================================================================
// CATALOG
// =============================================================================

func seedCategory(t *testing.T, store *sqlite.Store) catalog.Category {
	t.Helper()
	now := time.Now().UTC()
	c := catalog.Category{
		ID:        catalog.CategoryID(uuid.NewString()),
		Name:      "Electronics",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateCategory(context.Background(), c))
	return c
}

func TestItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := seedCategory(t, store)

	now := time.Now().UTC()
	minQty := int64(2)
	item := catalog.Item{
		ID:          ledger.ItemID(uuid.NewString()),
		Name:        "Laptop",
		Description: "13 inch",
		CategoryID:  cat.ID,
		Unit:        "pcs",
		Price:       decimal.RequireFromString("6999.90"),
		MinQuantity: &minQty,
		Status:      catalog.StatusAvailable,
		Location:    "room-101",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.CreateItem(ctx, item))

	got, err := store.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.True(t, got.Price.Equal(item.Price))
	require.NotNil(t, got.MinQuantity)
	assert.Equal(t, int64(2), *got.MinQuantity)
	assert.Equal(t, catalog.StatusAvailable, got.Status)

	// Update flows through, RowsAffected guards unknown IDs.
	got.Status = catalog.StatusMaintenance
	require.NoError(t, store.UpdateItem(ctx, got))
	got, err = store.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusMaintenance, got.Status)

	ghost := got
	ghost.ID = "ghost"
	assert.ErrorIs(t, store.UpdateItem(ctx, ghost), catalog.ErrItemNotFound)

	_, err = store.Item(ctx, "ghost")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestNullMinQuantity(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := seedCategory(t, store)

	now := time.Now().UTC()
	item := catalog.Item{
		ID:         ledger.ItemID(uuid.NewString()),
		Name:       "Cable",
		CategoryID: cat.ID,
		Price:      decimal.Zero,
		Status:     catalog.StatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, store.CreateItem(ctx, item))

	got, err := store.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MinQuantity)
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := seedCategory(t, store)

	got, err := store.Category(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.Name, got.Name)

	got.Name = "Gadgets"
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, store.UpdateCategory(ctx, got))

	cats, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Gadgets", cats[0].Name)

	n, err := store.CountItemsInCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.DeleteCategory(ctx, cat.ID))
	assert.ErrorIs(t, store.DeleteCategory(ctx, cat.ID), catalog.ErrCategoryNotFound)
	_, err = store.Category(ctx, cat.ID)
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

// =============================================================================
// SETTINGS & POLICY
// =============================================================================

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	value, err := store.Setting(ctx, sqlite.SettingCompanyName)
	require.NoError(t, err)
	assert.Empty(t, value, "unset keys read as empty")

	require.NoError(t, store.SetSetting(ctx, sqlite.SettingCompanyName, "Depot"))
	require.NoError(t, store.SetSetting(ctx, sqlite.SettingCompanyName, "Depot Inc"))

	value, err = store.Setting(ctx, sqlite.SettingCompanyName)
	require.NoError(t, err)
	assert.Equal(t, "Depot Inc", value, "upsert keeps the latest value")
}

func TestStockPolicy(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	policy, err := store.StockPolicy(ctx)
	require.NoError(t, err)
	assert.False(t, policy.AllowNegativeStock, "disallowed by default")

	require.NoError(t, store.SetSetting(ctx, sqlite.SettingAllowNegativeStock, "true"))
	policy, err = store.StockPolicy(ctx)
	require.NoError(t, err)
	assert.True(t, policy.AllowNegativeStock)

	require.NoError(t, store.SetSetting(ctx, sqlite.SettingAllowNegativeStock, "false"))
	policy, err = store.StockPolicy(ctx)
	require.NoError(t, err)
	assert.False(t, policy.AllowNegativeStock)
}

func TestJWTSecretIsStable(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	first, err := store.JWTSecret(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := store.JWTSecret(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "secret survives repeated lookups")
}

// =============================================================================
// USERS
// =============================================================================

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.UserByUsername(ctx, "admin")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	u := auth.StoredUser{
		User: auth.User{
			ID:       uuid.NewString(),
			Username: "admin",
			Name:     "Administrator",
			Role:     "admin",
		},
		PasswordHash: "hash",
	}
	require.NoError(t, store.EnsureUser(ctx, u))

	got, err := store.UserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "admin", got.Role)

	// EnsureUser never overwrites an existing record.
	other := u
	other.ID = uuid.NewString()
	other.PasswordHash = "different"
	require.NoError(t, store.EnsureUser(ctx, other))

	got, err = store.UserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

// =============================================================================
// ENGINE INTEGRATION
// =============================================================================

func TestEngineOnSQLite(t *testing.T) {
	// The full stack against a real database: catalog, policy from
	// settings, movements, projection.
	ctx := context.Background()
	store := newStore(t)
	svc := catalog.NewService(store)
	engine := ledger.NewEngine(store, svc, store)

	cat, err := svc.CreateCategory(ctx, "Tools", "")
	require.NoError(t, err)
	minQty := int64(2)
	item, err := svc.CreateItem(ctx, catalog.ItemDraft{
		Name:        "Drill",
		CategoryID:  cat.ID,
		Price:       "199.90",
		MinQuantity: &minQty,
	})
	require.NoError(t, err)

	_, err = engine.CreateTransaction(ctx, ledger.ReceiptInput{
		Item: item.ID, Quantity: 5, Destination: "warehouse",
	})
	require.NoError(t, err)
	_, err = engine.CreateTransaction(ctx, ledger.IssueInput{
		Item: item.ID, Quantity: 4, Source: "warehouse",
	})
	require.NoError(t, err)

	stock, err := engine.GetStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock.Quantity)
	assert.Equal(t, ledger.StatusLowStock, stock.Status)

	// Overdraw blocked until the settings toggle flips.
	_, err = engine.CreateTransaction(ctx, ledger.IssueInput{
		Item: item.ID, Quantity: 2, Source: "warehouse",
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	require.NoError(t, store.SetSetting(ctx, sqlite.SettingAllowNegativeStock, "true"))
	_, err = engine.CreateTransaction(ctx, ledger.IssueInput{
		Item: item.ID, Quantity: 2, Source: "warehouse",
	})
	require.NoError(t, err)

	replayed, err := engine.AuditStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), replayed)
}
