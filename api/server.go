/*
server.go - HTTP router and middleware configuration

ROUTE GROUPS:
  /api/auth/login          Authentication (public)
  /api/items/*             Catalog items + per-item stock and history
  /api/categories/*        Categories
  /api/transactions/*      Stock movements
  /api/stock/low           Low-stock listing
  /api/dashboard           Aggregate statistics
  /api/settings            Persisted configuration

Everything except login sits behind bearer-token authentication.
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the router.
type Options struct {
	CORSOrigins []string

	// DisableAuth skips the bearer-token middleware. Tests only.
	DisableAuth bool
}

// NewRouter creates the router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.Log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			if !opts.DisableAuth {
				r.Use(RequireAuth(h.Auth))
			}

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.ListItems)
				r.Post("/", h.CreateItem)
				r.Get("/{id}", h.GetItem)
				r.Put("/{id}", h.UpdateItem)
				r.Post("/{id}/decommission", h.DecommissionItem)
				r.Get("/{id}/stock", h.GetStock)
				r.Get("/{id}/transactions", h.ListItemTransactions)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.ListCategories)
				r.Post("/", h.CreateCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", h.ListRecentTransactions)
				r.Post("/", h.CreateTransaction)
			})

			r.Get("/stock/low", h.ListLowStock)
			r.Get("/dashboard", h.GetDashboard)
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
