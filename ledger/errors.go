/*
errors.go - Centralized error types for the stock engine

ERROR CATEGORIES:
  1. Validation errors - Malformed or policy-violating transaction input;
     recoverable by the caller correcting the input, never retried.
  2. Conflict errors - A concurrent validate-then-append race was lost;
     safe to retry the whole sequence with fresh stock data.
  3. Persistence errors - Storage failures on append; fatal to that
     operation, an append either fully commits or has no effect.

USAGE:
  if ledger.IsValidation(err) { ... 400 ... }
  if errors.Is(err, ledger.ErrConflict) { ... retry or 409 ... }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidQuantity is returned when a transaction quantity is not a
	// positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidType is returned when a transaction type is not IN, OUT,
	// or TRANSFER.
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrMissingDestination is returned when an IN or TRANSFER lacks a
	// destination location.
	ErrMissingDestination = errors.New("destination location required")

	// ErrMissingSource is returned when an OUT or TRANSFER lacks a
	// source location.
	ErrMissingSource = errors.New("source location required")

	// ErrSameLocationTransfer is returned when a TRANSFER names the same
	// source and destination.
	ErrSameLocationTransfer = errors.New("transfer source and destination must differ")

	// ErrInsufficientStock is returned when an OUT or TRANSFER exceeds the
	// projected quantity and the policy disallows negative stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict is returned when a concurrent append for the same item
	// won the race and bounded retries were exhausted.
	ErrConflict = errors.New("concurrent append conflict")

	// ErrItemNotFound is returned when a transaction references an item
	// that does not exist in the catalog.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemDecommissioned is returned when a transaction targets a
	// decommissioned item. Reactivate the item via a catalog edit first.
	ErrItemDecommissioned = errors.New("item is decommissioned")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports how far a movement overdraws the item.
type InsufficientStockError struct {
	ItemID    ItemID
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PersistenceError wraps a storage failure during an append or read.
// The ledger guarantees the failed append had no effect.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is a validation failure the
// caller can fix by correcting the input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrMissingDestination) ||
		errors.Is(err, ErrMissingSource) ||
		errors.Is(err, ErrSameLocationTransfer) ||
		errors.Is(err, ErrInsufficientStock)
}

// IsRetryable returns true if the whole validate-then-append sequence
// might succeed when retried with fresh stock data.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsPersistence returns true if the error is a storage failure.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
