/*
handlers.go - HTTP handlers for the inventory API

PURPOSE:
  Implements the HTTP surface over the stock engine, catalog, reporter,
  settings, and authentication. Handlers decode DTOs, call the domain,
  and map errors to status codes:

    validation errors        -> 400
    invalid credentials      -> 401
    not found                -> 404
    insufficient stock,
    append conflict,
    category in use,
    decommissioned item      -> 409
    persistence failures     -> 500
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/depot/inventory-engine/auth"
	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/ledger"
	"github.com/depot/inventory-engine/report"
	"github.com/depot/inventory-engine/store/sqlite"
)

// SettingsStore is the slice of the settings table the API exposes.
type SettingsStore interface {
	Setting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Handler holds the API's collaborators.
type Handler struct {
	Engine   *ledger.Engine
	Catalog  *catalog.Service
	Reporter *report.Reporter
	Auth     *auth.Service
	Settings SettingsStore
	Log      zerolog.Logger
}

// =============================================================================
// AUTH
// =============================================================================

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	session, err := h.Auth.Authenticate(r.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserDTO(session.User),
	})
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	id, err := h.Engine.CreateTransaction(r.Context(), req.toInput())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"id": string(id)})
}

func (h *Handler) ListItemTransactions(w http.ResponseWriter, r *http.Request) {
	itemID := ledger.ItemID(chi.URLParam(r, "id"))

	var q ledger.Query
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, errors.New("since must be RFC3339"))
			return
		}
		q.Since = &since
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, r, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		q.Limit = limit
	}

	txs, err := h.Engine.ListTransactions(r.Context(), itemID, q)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

func (h *Handler) ListRecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, r, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	txs, err := h.Engine.RecentTransactions(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// =============================================================================
// STOCK
// =============================================================================

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	itemID := ledger.ItemID(chi.URLParam(r, "id"))

	stock, err := h.Engine.GetStock(r.Context(), itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stockDTO{
		Quantity: stock.Quantity,
		Status:   string(stock.Status),
	})
}

func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Engine.LowStockItems(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"itemIds": out})
}

// =============================================================================
// ITEMS
// =============================================================================

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Items(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	dtos := make([]itemDTO, 0, len(items))
	for _, item := range items {
		stock, err := h.Engine.GetStock(r.Context(), item.ID)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		dtos = append(dtos, toItemDTO(item, stock))
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := ledger.ItemID(chi.URLParam(r, "id"))

	item, err := h.Catalog.Item(r.Context(), itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	stock, err := h.Engine.GetStock(r.Context(), item.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toItemDTO(item, stock))
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	item, err := h.Catalog.CreateItem(r.Context(), req.toDraft())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toItemDTO(item, ledger.Stock{Status: ledger.StatusOutOfStock}))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := ledger.ItemID(chi.URLParam(r, "id"))

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	item, err := h.Catalog.UpdateItem(r.Context(), itemID, req.toDraft())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	stock, err := h.Engine.GetStock(r.Context(), item.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toItemDTO(item, stock))
}

func (h *Handler) DecommissionItem(w http.ResponseWriter, r *http.Request) {
	itemID := ledger.ItemID(chi.URLParam(r, "id"))

	item, err := h.Catalog.Decommission(r.Context(), itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	stock, err := h.Engine.GetStock(r.Context(), item.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toItemDTO(item, stock))
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Catalog.Categories(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	dtos := make([]categoryDTO, 0, len(cs))
	for _, c := range cs {
		dtos = append(dtos, toCategoryDTO(c))
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	c, err := h.Catalog.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCategoryDTO(c))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := catalog.CategoryID(chi.URLParam(r, "id"))

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	c, err := h.Catalog.UpdateCategory(r.Context(), id, req.Name, req.Description)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCategoryDTO(c))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := catalog.CategoryID(chi.URLParam(r, "id"))

	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DASHBOARD & SETTINGS
// =============================================================================

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Reporter.Summarize(r.Context(), 5, 5)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toDashboardDTO(summary))
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	dto := settingsDTO{}
	var err error

	if dto.CompanyName, err = h.Settings.Setting(r.Context(), sqlite.SettingCompanyName); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if dto.Currency, err = h.Settings.Setting(r.Context(), sqlite.SettingCurrency); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	allowNegative, err := h.Settings.Setting(r.Context(), sqlite.SettingAllowNegativeStock)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	dto.AllowNegativeStock = allowNegative == "true"

	lowStockAlerts, err := h.Settings.Setting(r.Context(), sqlite.SettingLowStockAlerts)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	dto.LowStockAlerts = lowStockAlerts == "true"

	h.writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	values := map[string]string{
		sqlite.SettingCompanyName:        req.CompanyName,
		sqlite.SettingCurrency:           req.Currency,
		sqlite.SettingAllowNegativeStock: strconv.FormatBool(req.AllowNegativeStock),
		sqlite.SettingLowStockAlerts:     strconv.FormatBool(req.LowStockAlerts),
	}
	for key, value := range values {
		if err := h.Settings.SetSetting(r.Context(), key, value); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Log.Error().Err(err).Msg("encoding response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	h.writeJSON(w, status, errorDTO{Error: err.Error()})
}

// writeDomainError maps domain errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrConflict),
		errors.Is(err, ledger.ErrItemDecommissioned),
		errors.Is(err, catalog.ErrCategoryInUse):
		h.writeError(w, r, http.StatusConflict, err)

	case ledger.IsValidation(err),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStatus),
		errors.Is(err, catalog.ErrInvalidMin):
		h.writeError(w, r, http.StatusBadRequest, err)

	case errors.Is(err, ledger.ErrItemNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound):
		h.writeError(w, r, http.StatusNotFound, err)

	case errors.Is(err, auth.ErrInvalidCredentials):
		h.writeError(w, r, http.StatusUnauthorized, err)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, r, 499, err) // client closed request

	default:
		h.writeError(w, r, http.StatusInternalServerError, err)
	}
}
