// monitor.go - Stock status thresholds.
//
// Pure derivation, recomputed on demand; the monitor keeps no state of
// its own.
package ledger

// Status classifies a projected quantity against an item's
// minimum-quantity policy:
//
//	OUT_OF_STOCK  quantity <= 0
//	LOW_STOCK     0 < quantity <= minQuantity (only when minQuantity is set)
//	IN_STOCK      otherwise
//
// When minQuantity is unset, only OUT_OF_STOCK and IN_STOCK are possible.
func Status(quantity int64, minQuantity *int64) StockStatus {
	if quantity <= 0 {
		return StatusOutOfStock
	}
	if minQuantity != nil && quantity <= *minQuantity {
		return StatusLowStock
	}
	return StatusInStock
}

// NeedsAttention reports whether a status should surface on low-stock
// listings and dashboard alerts.
func NeedsAttention(s StockStatus) bool {
	return s == StatusLowStock || s == StatusOutOfStock
}
