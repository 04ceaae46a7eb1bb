/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

INTERFACES IMPLEMENTED:
  ledger.Store:        Append-only transaction ledger
  ledger.PolicySource: Negative-stock policy from the settings table
  catalog.Store:       Item and category registry
  auth.UserStore:      User lookup for authentication

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statement touches the transactions table.
  Corrections are compensating entries.

KEY TABLES:
  transactions: Immutable ledger; seq (AUTOINCREMENT) is the tiebreaker
                for equal occurred_at timestamps
  items:        Catalog entries; deliberately no quantity column
  categories:   Item classification
  settings:     Key/value configuration (policy toggles, JWT secret)
  users:        Credential records (bcrypt hashes)

WAL MODE:
  The database is opened with WAL so readers don't block the writer.

USAGE:
  store, err := sqlite.New("./data/inventory.db")
  engine := ledger.NewEngine(store, catalogSvc, store)
*/
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/depot/inventory-engine/auth"
	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// timeLayout is RFC3339 with a fixed-width nanosecond fraction. The
// trimmed RFC3339Nano form is variable-width, so string comparison on it
// is not chronological ("...:01Z" sorts after "...:01.5Z"); the padded
// form keeps ORDER BY and >= comparisons in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; funnel everything through one connection
	// so concurrent appends queue instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Transactions (append-only ledger). seq breaks ties between entries
	-- with equal occurred_at timestamps.
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		item_id TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		source_location TEXT NOT NULL DEFAULT '',
		destination_location TEXT NOT NULL DEFAULT '',
		responsible_party TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		occurred_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_item_date
		ON transactions(item_id, occurred_at, seq);

	-- Categories
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Items. No quantity column: quantity is derived from the ledger.
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category_id TEXT NOT NULL REFERENCES categories(id),
		unit TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '0',
		min_quantity INTEGER,
		status TEXT NOT NULL DEFAULT 'AVAILABLE',
		location TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id);
	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);

	-- Settings (key/value)
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Users
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER STORE (ledger.Store interface)
// =============================================================================

// Append adds a transaction to the ledger. The INSERT is atomic: it
// either fully commits (and the returned copy carries the assigned seq)
// or has no effect.
func (s *Store) Append(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	query := `
		INSERT INTO transactions
		(id, item_id, tx_type, quantity, source_location, destination_location,
		 responsible_party, notes, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		string(tx.ID),
		string(tx.ItemID),
		string(tx.Type),
		tx.Quantity,
		string(tx.Source),
		string(tx.Destination),
		tx.ResponsibleParty,
		tx.Notes,
		tx.OccurredAt.UTC().Format(timeLayout),
		tx.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return ledger.Transaction{}, err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return ledger.Transaction{}, err
	}
	tx.Seq = uint64(seq)
	return tx, nil
}

func (s *Store) ListByItem(ctx context.Context, itemID ledger.ItemID, q ledger.Query) ([]ledger.Transaction, error) {
	query := `
		SELECT seq, id, item_id, tx_type, quantity, source_location,
		       destination_location, responsible_party, notes, occurred_at, created_at
		FROM transactions
		WHERE item_id = ?
	`
	args := []any{string(itemID)}

	if q.Since != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, q.Since.UTC().Format(timeLayout))
	}
	query += ` ORDER BY occurred_at, seq`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, item_id, tx_type, quantity, source_location,
		       destination_location, responsible_party, notes, occurred_at, created_at
		FROM transactions
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	for rows.Next() {
		var (
			tx                    ledger.Transaction
			id, itemID, txType    string
			source, destination   string
			occurredAt, createdAt string
		)
		if err := rows.Scan(&tx.Seq, &id, &itemID, &txType, &tx.Quantity,
			&source, &destination, &tx.ResponsibleParty, &tx.Notes,
			&occurredAt, &createdAt); err != nil {
			return nil, err
		}
		tx.ID = ledger.TransactionID(id)
		tx.ItemID = ledger.ItemID(itemID)
		tx.Type = ledger.TransactionType(txType)
		tx.Source = ledger.LocationID(source)
		tx.Destination = ledger.LocationID(destination)

		var err error
		if tx.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, err
		}
		if tx.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// =============================================================================
// CATALOG STORE (catalog.Store interface)
// =============================================================================

func (s *Store) CreateItem(ctx context.Context, item catalog.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items
		(id, name, description, category_id, unit, price, min_quantity,
		 status, location, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(item.ID), item.Name, item.Description, string(item.CategoryID),
		item.Unit, item.Price.String(), item.MinQuantity, string(item.Status),
		string(item.Location), item.ImageURL,
		item.CreatedAt.UTC().Format(timeLayout),
		item.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) UpdateItem(ctx context.Context, item catalog.Item) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE items SET name = ?, description = ?, category_id = ?, unit = ?,
		       price = ?, min_quantity = ?, status = ?, location = ?,
		       image_url = ?, updated_at = ?
		WHERE id = ?
	`,
		item.Name, item.Description, string(item.CategoryID), item.Unit,
		item.Price.String(), item.MinQuantity, string(item.Status),
		string(item.Location), item.ImageURL,
		item.UpdatedAt.UTC().Format(timeLayout),
		string(item.ID),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

func (s *Store) Item(ctx context.Context, id ledger.ItemID) (catalog.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category_id, unit, price, min_quantity,
		       status, location, image_url, created_at, updated_at
		FROM items WHERE id = ?
	`, string(id))

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Item{}, catalog.ErrItemNotFound
	}
	return item, err
}

func (s *Store) Items(ctx context.Context) ([]catalog.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category_id, unit, price, min_quantity,
		       status, location, image_url, created_at, updated_at
		FROM items ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (catalog.Item, error) {
	var (
		item                 catalog.Item
		id, categoryID       string
		price, status        string
		location             string
		minQuantity          sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &item.Name, &item.Description, &categoryID,
		&item.Unit, &price, &minQuantity, &status, &location,
		&item.ImageURL, &createdAt, &updatedAt)
	if err != nil {
		return catalog.Item{}, err
	}

	item.ID = ledger.ItemID(id)
	item.CategoryID = catalog.CategoryID(categoryID)
	item.Status = catalog.ItemStatus(status)
	item.Location = ledger.LocationID(location)
	if minQuantity.Valid {
		v := minQuantity.Int64
		item.MinQuantity = &v
	}

	if item.Price, err = decimal.NewFromString(price); err != nil {
		return catalog.Item{}, fmt.Errorf("corrupt price for item %s: %w", id, err)
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return catalog.Item{}, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return catalog.Item{}, err
	}
	return item, nil
}

func (s *Store) CreateCategory(ctx context.Context, c catalog.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		string(c.ID), c.Name, c.Description,
		c.CreatedAt.UTC().Format(timeLayout),
		c.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) UpdateCategory(ctx context.Context, c catalog.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`,
		c.Name, c.Description,
		c.UpdatedAt.UTC().Format(timeLayout),
		string(c.ID),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) Category(ctx context.Context, id catalog.CategoryID) (catalog.Category, error) {
	var (
		c                    catalog.Category
		cid                  string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories WHERE id = ?
	`, string(id)).Scan(&cid, &c.Name, &c.Description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Category{}, catalog.ErrCategoryNotFound
	}
	if err != nil {
		return catalog.Category{}, err
	}

	c.ID = catalog.CategoryID(cid)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return catalog.Category{}, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return catalog.Category{}, err
	}
	return c, nil
}

func (s *Store) Categories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cs []catalog.Category
	for rows.Next() {
		var (
			c                    catalog.Category
			cid                  string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&cid, &c.Name, &c.Description, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.ID = catalog.CategoryID(cid)
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

func (s *Store) DeleteCategory(ctx context.Context, id catalog.CategoryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) CountItemsInCategory(ctx context.Context, id catalog.CategoryID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, string(id)).Scan(&n)
	return n, err
}

// =============================================================================
// SETTINGS (ledger.PolicySource + key/value access)
// =============================================================================

const (
	SettingCompanyName        = "company_name"
	SettingCurrency           = "currency"
	SettingAllowNegativeStock = "allow_negative_stock"
	SettingLowStockAlerts     = "low_stock_alerts"
)

// Setting returns the stored value for key, or "" when unset.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// StockPolicy implements ledger.PolicySource from the settings table.
// Negative stock is disallowed unless the toggle is explicitly "true".
func (s *Store) StockPolicy(ctx context.Context) (ledger.Policy, error) {
	value, err := s.Setting(ctx, SettingAllowNegativeStock)
	if err != nil {
		return ledger.Policy{}, err
	}
	return ledger.Policy{AllowNegativeStock: value == "true"}, nil
}

// JWTSecret returns the persisted signing secret, generating and storing
// one on first use. INSERT OR IGNORE + re-SELECT avoids a TOCTOU race on
// concurrent startup.
func (s *Store) JWTSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	var secret string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}
	return secret, nil
}

// =============================================================================
// USERS (auth.UserStore interface)
// =============================================================================

func (s *Store) UserByUsername(ctx context.Context, username string) (auth.StoredUser, error) {
	var u auth.StoredUser
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, name, role, password_hash
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.StoredUser{}, auth.ErrUserNotFound
	}
	return u, err
}

// EnsureUser creates a user if the username is free. Existing users are
// left untouched (no password resets through this path).
func (s *Store) EnsureUser(ctx context.Context, u auth.StoredUser) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO users (id, username, name, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Name, u.Role, u.PasswordHash,
		time.Now().UTC().Format(timeLayout))
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", value, err)
	}
	return t, nil
}
