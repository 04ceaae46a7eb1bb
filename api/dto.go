// dto.go - JSON request/response shapes for the HTTP API.
//
// DTOs stay at this boundary; handlers convert them to and from domain
// types immediately. Prices travel as decimal strings.
package api

import (
	"time"

	"github.com/depot/inventory-engine/auth"
	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
	"github.com/depot/inventory-engine/report"
)

// =============================================================================
// AUTH
// =============================================================================

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userDTO   `json:"user"`
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func toUserDTO(u auth.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

// =============================================================================
// CATALOG
// =============================================================================

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryDTO(c catalog.Category) categoryDTO {
	return categoryDTO{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
	MinQuantity *int64 `json:"minQuantity"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
}

func (r itemRequest) toDraft() catalog.ItemDraft {
	return catalog.ItemDraft{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  catalog.CategoryID(r.CategoryID),
		Unit:        r.Unit,
		Price:       r.Price,
		MinQuantity: r.MinQuantity,
		Status:      catalog.ItemStatus(r.Status),
		Location:    ledger.LocationID(r.Location),
		ImageURL:    r.ImageURL,
	}
}

// itemDTO carries catalog fields plus the derived stock state. Quantity
// is projected from the ledger at read time, never stored.
type itemDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"categoryId"`
	Unit        string    `json:"unit"`
	Price       string    `json:"price"`
	MinQuantity *int64    `json:"minQuantity,omitempty"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Quantity    int64  `json:"quantity"`
	StockStatus string `json:"stockStatus"`
}

func toItemDTO(item catalog.Item, stock ledger.Stock) itemDTO {
	return itemDTO{
		ID:          string(item.ID),
		Name:        item.Name,
		Description: item.Description,
		CategoryID:  string(item.CategoryID),
		Unit:        item.Unit,
		Price:       item.Price.String(),
		MinQuantity: item.MinQuantity,
		Status:      string(item.Status),
		Location:    string(item.Location),
		ImageURL:    item.ImageURL,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		Quantity:    stock.Quantity,
		StockStatus: string(stock.Status),
	}
}

// =============================================================================
// TRANSACTIONS & STOCK
// =============================================================================

type transactionRequest struct {
	ItemID              string     `json:"itemId"`
	Type                string     `json:"type"`
	Quantity            int64      `json:"quantity"`
	SourceLocation      string     `json:"sourceLocation"`
	DestinationLocation string     `json:"destinationLocation"`
	ResponsibleParty    string     `json:"responsibleParty"`
	Notes               string     `json:"notes"`
	OccurredAt          *time.Time `json:"occurredAt"`
}

// toInput maps the wire shape onto the tagged-union input. Unrecognized
// type strings become UnknownInput so the validator applies its rules in
// order.
func (r transactionRequest) toInput() ledger.Input {
	var occurredAt time.Time
	if r.OccurredAt != nil {
		occurredAt = *r.OccurredAt
	}

	switch r.Type {
	case string(ledger.TxIn):
		return ledger.ReceiptInput{
			Item:             ledger.ItemID(r.ItemID),
			Quantity:         r.Quantity,
			Destination:      ledger.LocationID(r.DestinationLocation),
			OccurredAt:       occurredAt,
			ResponsibleParty: r.ResponsibleParty,
			Notes:            r.Notes,
		}
	case string(ledger.TxOut):
		return ledger.IssueInput{
			Item:             ledger.ItemID(r.ItemID),
			Quantity:         r.Quantity,
			Source:           ledger.LocationID(r.SourceLocation),
			OccurredAt:       occurredAt,
			ResponsibleParty: r.ResponsibleParty,
			Notes:            r.Notes,
		}
	case string(ledger.TxTransfer):
		return ledger.TransferInput{
			Item:             ledger.ItemID(r.ItemID),
			Quantity:         r.Quantity,
			Source:           ledger.LocationID(r.SourceLocation),
			Destination:      ledger.LocationID(r.DestinationLocation),
			OccurredAt:       occurredAt,
			ResponsibleParty: r.ResponsibleParty,
			Notes:            r.Notes,
		}
	default:
		return ledger.UnknownInput{
			Item:     ledger.ItemID(r.ItemID),
			Quantity: r.Quantity,
			Type:     r.Type,
		}
	}
}

type transactionDTO struct {
	ID                  string    `json:"id"`
	ItemID              string    `json:"itemId"`
	Type                string    `json:"type"`
	Quantity            int64     `json:"quantity"`
	SourceLocation      string    `json:"sourceLocation,omitempty"`
	DestinationLocation string    `json:"destinationLocation,omitempty"`
	ResponsibleParty    string    `json:"responsibleParty,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	OccurredAt          time.Time `json:"occurredAt"`
	CreatedAt           time.Time `json:"createdAt"`
}

func toTransactionDTO(tx ledger.Transaction) transactionDTO {
	return transactionDTO{
		ID:                  string(tx.ID),
		ItemID:              string(tx.ItemID),
		Type:                string(tx.Type),
		Quantity:            tx.Quantity,
		SourceLocation:      string(tx.Source),
		DestinationLocation: string(tx.Destination),
		ResponsibleParty:    tx.ResponsibleParty,
		Notes:               tx.Notes,
		OccurredAt:          tx.OccurredAt,
		CreatedAt:           tx.CreatedAt,
	}
}

func toTransactionDTOs(txs []ledger.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, toTransactionDTO(tx))
	}
	return dtos
}

type stockDTO struct {
	Quantity int64  `json:"quantity"`
	Status   string `json:"status"`
}

// =============================================================================
// DASHBOARD & SETTINGS
// =============================================================================

type itemValueDTO struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Value    string `json:"value"`
}

type dashboardDTO struct {
	ItemCount     int              `json:"itemCount"`
	TotalUnits    int64            `json:"totalUnits"`
	TotalValue    string           `json:"totalValue"`
	LowStockCount int              `json:"lowStockCount"`
	TopByValue    []itemValueDTO   `json:"topByValue"`
	Recent        []transactionDTO `json:"recentTransactions"`
}

func toDashboardDTO(s report.Summary) dashboardDTO {
	top := make([]itemValueDTO, 0, len(s.TopByValue))
	for _, v := range s.TopByValue {
		top = append(top, itemValueDTO{
			ItemID:   string(v.ItemID),
			Name:     v.Name,
			Quantity: v.Quantity,
			Value:    v.Value.String(),
		})
	}
	return dashboardDTO{
		ItemCount:     s.ItemCount,
		TotalUnits:    s.TotalUnits,
		TotalValue:    s.TotalValue.String(),
		LowStockCount: s.LowStockCount,
		TopByValue:    top,
		Recent:        toTransactionDTOs(s.Recent),
	}
}

type settingsDTO struct {
	CompanyName        string `json:"companyName"`
	Currency           string `json:"currency"`
	AllowNegativeStock bool   `json:"allowNegativeStock"`
	LowStockAlerts     bool   `json:"lowStockAlerts"`
}

type errorDTO struct {
	Error string `json:"error"`
}
