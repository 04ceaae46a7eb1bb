/*
Package report computes the dashboard aggregates.

Everything here is a pure read over the catalog and the stock engine:
total units on hand, total inventory value (unit price times projected
quantity), low-stock counts, top items by held value, and the most
recent movements. Nothing is persisted.
*/
package report

import (
	"context"
	"sort"

	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
	"github.com/shopspring/decimal"
)

// Summary is the dashboard read-model.
type Summary struct {
	ItemCount     int
	TotalUnits    int64
	TotalValue    decimal.Decimal
	LowStockCount int
	TopByValue    []ItemValue
	Recent        []ledger.Transaction
}

// ItemValue is an item's held value (price x projected quantity).
type ItemValue struct {
	ItemID   ledger.ItemID
	Name     string
	Quantity int64
	Value    decimal.Decimal
}

// Reporter aggregates catalog and stock state.
type Reporter struct {
	catalog *catalog.Service
	engine  *ledger.Engine
}

func New(catalogSvc *catalog.Service, engine *ledger.Engine) *Reporter {
	return &Reporter{catalog: catalogSvc, engine: engine}
}

// Summarize builds the dashboard summary. topN bounds the by-value
// ranking, recentN the transaction feed.
func (r *Reporter) Summarize(ctx context.Context, topN, recentN int) (Summary, error) {
	items, err := r.catalog.Items(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		ItemCount:  len(items),
		TotalValue: decimal.Zero,
	}

	values := make([]ItemValue, 0, len(items))
	for _, item := range items {
		stock, err := r.engine.GetStock(ctx, item.ID)
		if err != nil {
			return Summary{}, err
		}

		summary.TotalUnits += stock.Quantity
		if ledger.NeedsAttention(stock.Status) {
			summary.LowStockCount++
		}

		value := item.Price.Mul(decimal.NewFromInt(stock.Quantity))
		summary.TotalValue = summary.TotalValue.Add(value)
		values = append(values, ItemValue{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: stock.Quantity,
			Value:    value,
		})
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].Value.GreaterThan(values[j].Value)
	})
	if topN > 0 && len(values) > topN {
		values = values[:topN]
	}
	summary.TopByValue = values

	if recentN > 0 {
		recent, err := r.engine.RecentTransactions(ctx, recentN)
		if err != nil {
			return Summary{}, err
		}
		summary.Recent = recent
	}

	return summary, nil
}
