/*
Package ledger provides the core stock-accounting engine.

PURPOSE:
  This package contains the domain-agnostic machinery for tracking stock
  movements: an append-only transaction ledger, a quantity projection
  derived from it, type-conditional validation, and threshold monitoring.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable ledger entry recording a stock movement
  - Input: A tagged union of the three transaction shapes (IN/OUT/TRANSFER)
  - StockStatus: Derived availability state (in stock / low / out)
  - Item/Location/Transaction IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified, only compensated
  2. Derivation: Quantity is always computed from the ledger, never stored
  3. Type Safety: Each input variant carries exactly its required fields
  4. Auditability: Every movement has a timestamp, party, and notes

SEE ALSO:
  - ledger.go: Append path and identity assignment
  - projector.go: Quantity derivation from transactions
  - validator.go: Type-conditional validation rules
  - monitor.go: Stock status thresholds
*/
package ledger

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ItemID string
type LocationID string
type TransactionID string

// =============================================================================
// TRANSACTION - Immutable stock movement record
// =============================================================================

type TransactionType string

const (
	TxIn       TransactionType = "IN"       // Stock received into a location
	TxOut      TransactionType = "OUT"      // Stock issued from a location
	TxTransfer TransactionType = "TRANSFER" // Stock moved between locations
)

// Transaction is a single entry in the append-only ledger.
// Once appended it is never updated or deleted; corrections are made
// via compensating entries.
type Transaction struct {
	ID       TransactionID
	ItemID   ItemID
	Type     TransactionType
	Quantity int64

	// Type-conditional fields:
	// IN sets Destination, OUT sets Source, TRANSFER sets both.
	Source      LocationID
	Destination LocationID

	ResponsibleParty string
	Notes            string

	OccurredAt time.Time
	CreatedAt  time.Time

	// Seq is assigned by the store at append time and breaks ties between
	// entries with equal OccurredAt timestamps (insertion order).
	Seq uint64
}

// Delta returns the transaction's contribution to the item's on-hand
// quantity. TRANSFER nets to zero: it moves stock between locations
// without changing the total owned quantity.
func (t Transaction) Delta() int64 {
	switch t.Type {
	case TxIn:
		return t.Quantity
	case TxOut:
		return -t.Quantity
	default:
		return 0
	}
}

// =============================================================================
// INPUT - Tagged union of transaction shapes
// =============================================================================

// Input is a transaction request before validation. Each variant carries
// exactly the fields its transaction type requires, so presence checks
// happen at the type level instead of scattered optional-field checks.
type Input interface {
	// ForItem returns the item the transaction applies to.
	ForItem() ItemID

	// sealed: only the variants below implement Input.
	isInput()
}

// ReceiptInput records stock arriving at a location (type IN).
type ReceiptInput struct {
	Item             ItemID
	Quantity         int64
	Destination      LocationID
	OccurredAt       time.Time
	ResponsibleParty string
	Notes            string
}

// IssueInput records stock leaving a location (type OUT).
type IssueInput struct {
	Item             ItemID
	Quantity         int64
	Source           LocationID
	OccurredAt       time.Time
	ResponsibleParty string
	Notes            string
}

// TransferInput records stock moving between two locations (type TRANSFER).
// Source and Destination must differ.
type TransferInput struct {
	Item             ItemID
	Quantity         int64
	Source           LocationID
	Destination      LocationID
	OccurredAt       time.Time
	ResponsibleParty string
	Notes            string
}

// UnknownInput is the boundary variant for requests whose type string did
// not match any known transaction type. It exists so the validator can
// apply its rules in order (quantity before type) to raw API payloads.
type UnknownInput struct {
	Item     ItemID
	Quantity int64
	Type     string
}

func (r ReceiptInput) ForItem() ItemID  { return r.Item }
func (i IssueInput) ForItem() ItemID    { return i.Item }
func (t TransferInput) ForItem() ItemID { return t.Item }
func (u UnknownInput) ForItem() ItemID  { return u.Item }

func (ReceiptInput) isInput()  {}
func (IssueInput) isInput()    {}
func (TransferInput) isInput() {}
func (UnknownInput) isInput()  {}

// =============================================================================
// STOCK STATUS - Derived availability state
// =============================================================================

type StockStatus string

const (
	StatusInStock    StockStatus = "IN_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Stock is the derived read-model for an item: the projected quantity and
// its status against the item's minimum-quantity policy.
type Stock struct {
	Quantity int64
	Status   StockStatus
}

// =============================================================================
// QUERY - Read options for transaction listings
// =============================================================================

// Query narrows a transaction listing. Zero value means "everything".
type Query struct {
	Since *time.Time // only entries with OccurredAt >= Since
	Limit int        // 0 means no limit
}
