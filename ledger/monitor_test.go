package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/depot/inventory-engine/ledger"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name     string
		quantity int64
		min      *int64
		want     ledger.StockStatus
	}{
		{"zero is out of stock", 0, min(2), ledger.StatusOutOfStock},
		{"negative is out of stock", -3, nil, ledger.StatusOutOfStock},
		{"under threshold is low", 1, min(2), ledger.StatusLowStock},
		{"at threshold is low", 2, min(2), ledger.StatusLowStock},
		{"above threshold is in stock", 3, min(2), ledger.StatusInStock},
		{"no threshold never low", 1, nil, ledger.StatusInStock},
		{"zero with no threshold still out", 0, nil, ledger.StatusOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ledger.Status(tc.quantity, tc.min))
		})
	}
}

func TestNeedsAttention(t *testing.T) {
	assert.True(t, ledger.NeedsAttention(ledger.StatusOutOfStock))
	assert.True(t, ledger.NeedsAttention(ledger.StatusLowStock))
	assert.False(t, ledger.NeedsAttention(ledger.StatusInStock))
}
