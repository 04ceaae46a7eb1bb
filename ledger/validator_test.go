package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot/inventory-engine/ledger"
)

var noNegative = ledger.Policy{AllowNegativeStock: false}

func TestValidate_Receipt(t *testing.T) {
	tx, err := ledger.Validate(ledger.ReceiptInput{
		Item:        "item-1",
		Quantity:    5,
		Destination: "warehouse",
	}, 0, noNegative)

	require.NoError(t, err)
	assert.Equal(t, ledger.TxIn, tx.Type)
	assert.Equal(t, int64(5), tx.Quantity)
	assert.Equal(t, ledger.LocationID("warehouse"), tx.Destination)
	assert.Empty(t, tx.ID, "identity is assigned on append, not validation")
}

func TestValidate_QuantityMustBePositive(t *testing.T) {
	cases := []struct {
		name string
		in   ledger.Input
	}{
		{"zero receipt", ledger.ReceiptInput{Item: "i", Quantity: 0, Destination: "a"}},
		{"negative issue", ledger.IssueInput{Item: "i", Quantity: -3, Source: "a"}},
		{"zero transfer", ledger.TransferInput{Item: "i", Quantity: 0, Source: "a", Destination: "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Validate(tc.in, 100, noNegative)
			assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
		})
	}
}

func TestValidate_QuantityCheckedBeforeType(t *testing.T) {
	// An unrecognized type with a bad quantity reports the quantity
	// problem first.
	_, err := ledger.Validate(ledger.UnknownInput{Item: "i", Quantity: 0, Type: "RESTOCK"}, 0, noNegative)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = ledger.Validate(ledger.UnknownInput{Item: "i", Quantity: 1, Type: "RESTOCK"}, 0, noNegative)
	assert.ErrorIs(t, err, ledger.ErrInvalidType)
}

func TestValidate_MissingLocations(t *testing.T) {
	_, err := ledger.Validate(ledger.ReceiptInput{Item: "i", Quantity: 1}, 0, noNegative)
	assert.ErrorIs(t, err, ledger.ErrMissingDestination)

	_, err = ledger.Validate(ledger.IssueInput{Item: "i", Quantity: 1}, 10, noNegative)
	assert.ErrorIs(t, err, ledger.ErrMissingSource)

	_, err = ledger.Validate(ledger.TransferInput{Item: "i", Quantity: 1, Destination: "b"}, 10, noNegative)
	assert.ErrorIs(t, err, ledger.ErrMissingSource)

	_, err = ledger.Validate(ledger.TransferInput{Item: "i", Quantity: 1, Source: "a"}, 10, noNegative)
	assert.ErrorIs(t, err, ledger.ErrMissingDestination)
}

func TestValidate_TransferSameLocationRejected(t *testing.T) {
	// Always rejected, even with plenty of stock and permissive policy.
	_, err := ledger.Validate(ledger.TransferInput{
		Item: "i", Quantity: 1, Source: "a", Destination: "a",
	}, 100, ledger.Policy{AllowNegativeStock: true})
	assert.ErrorIs(t, err, ledger.ErrSameLocationTransfer)
}

func TestValidate_InsufficientStock(t *testing.T) {
	// GIVEN: 3 on hand, negative stock disallowed
	// WHEN:  issuing 5
	// THEN:  InsufficientStock with the shortfall details
	_, err := ledger.Validate(ledger.IssueInput{
		Item: "item-1", Quantity: 5, Source: "warehouse",
	}, 3, noNegative)

	require.ErrorIs(t, err, ledger.ErrInsufficientStock)
	var detail *ledger.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, int64(3), detail.Available)
	assert.Equal(t, int64(5), detail.Requested)
}

func TestValidate_NegativeStockAllowedByPolicy(t *testing.T) {
	permissive := ledger.Policy{AllowNegativeStock: true}

	tx, err := ledger.Validate(ledger.IssueInput{
		Item: "item-1", Quantity: 5, Source: "warehouse",
	}, 3, permissive)

	require.NoError(t, err)
	assert.Equal(t, int64(-5), tx.Delta())
}

func TestValidate_TransferRequiresStockOnHand(t *testing.T) {
	// A transfer nets to zero but still cannot move more than exists.
	_, err := ledger.Validate(ledger.TransferInput{
		Item: "i", Quantity: 5, Source: "a", Destination: "b",
	}, 3, noNegative)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)
}

func TestValidate_IsPure(t *testing.T) {
	in := ledger.IssueInput{Item: "i", Quantity: 1, Source: "a"}

	first, err := ledger.Validate(in, 10, noNegative)
	require.NoError(t, err)
	second, err := ledger.Validate(in, 10, noNegative)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
