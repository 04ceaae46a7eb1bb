/*
Package seed loads a demo catalog with opening stock.

Development only: gives a fresh database something to show on the
dashboard. Everything goes through the regular catalog and engine paths,
so seeded stock is real ledger history, not fixture rows.
*/
package seed

import (
	"context"
	"fmt"

	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
)

type demoItem struct {
	draft    catalog.ItemDraft
	category string
	opening  int64
}

func minQty(n int64) *int64 { return &n }

// Load creates the demo categories, items, and opening-stock receipts.
// Skips silently when the catalog already has items.
func Load(ctx context.Context, svc *catalog.Service, engine *ledger.Engine) error {
	existing, err := svc.Items(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	categories := map[string]string{
		"Electronics":     "Electronic devices and accessories",
		"Tools":           "Tools and equipment",
		"Office Supplies": "Office materials and consumables",
		"Furniture":       "Furniture and fittings",
		"Miscellaneous":   "Everything else",
	}

	categoryIDs := make(map[string]catalog.CategoryID, len(categories))
	for name, description := range categories {
		c, err := svc.CreateCategory(ctx, name, description)
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
		categoryIDs[name] = c.ID
	}

	items := []demoItem{
		{
			draft: catalog.ItemDraft{
				Name:        "Dell XPS 13 Notebook",
				Description: "i7, 16GB RAM, 512GB SSD",
				Unit:        "unit",
				Price:       "6999.90",
				MinQuantity: minQty(2),
				Location:    "room-101",
			},
			category: "Electronics",
			opening:  5,
		},
		{
			draft: catalog.ItemDraft{
				Name:        "LG 27\" Monitor",
				Description: "27 inch, 4K resolution",
				Unit:        "unit",
				Price:       "1899.90",
				MinQuantity: minQty(3),
				Location:    "room-102",
			},
			category: "Electronics",
			opening:  8,
		},
		{
			draft: catalog.ItemDraft{
				Name:        "DeWalt Impact Drill",
				Description: "20V cordless impact drill",
				Unit:        "unit",
				Price:       "899.90",
				MinQuantity: minQty(1),
				Location:    "warehouse",
			},
			category: "Tools",
			opening:  3,
		},
		{
			draft: catalog.ItemDraft{
				Name:        "A4 Paper Ream",
				Description: "500 sheets per ream",
				Unit:        "ream",
				Price:       "24.90",
				MinQuantity: minQty(10),
				Location:    "supply-closet",
			},
			category: "Office Supplies",
			opening:  20,
		},
		{
			draft: catalog.ItemDraft{
				Name:        "Office Chair",
				Description: "Ergonomic, adjustable height",
				Unit:        "unit",
				Price:       "749.00",
				Location:    "warehouse",
			},
			category: "Furniture",
			opening:  6,
		},
		{
			draft: catalog.ItemDraft{
				Name:        "HDMI Cable 2m",
				Description: "HDMI 2.1 certified",
				Unit:        "unit",
				Price:       "49.90",
				MinQuantity: minQty(5),
				Location:    "supply-closet",
			},
			category: "Electronics",
			opening:  4,
		},
	}

	for _, di := range items {
		di.draft.CategoryID = categoryIDs[di.category]
		item, err := svc.CreateItem(ctx, di.draft)
		if err != nil {
			return fmt.Errorf("seeding item %q: %w", di.draft.Name, err)
		}

		_, err = engine.CreateTransaction(ctx, ledger.ReceiptInput{
			Item:             item.ID,
			Quantity:         di.opening,
			Destination:      item.Location,
			ResponsibleParty: "seed",
			Notes:            "opening stock",
		})
		if err != nil {
			return fmt.Errorf("seeding opening stock for %q: %w", di.draft.Name, err)
		}
	}

	return nil
}
