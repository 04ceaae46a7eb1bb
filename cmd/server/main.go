/*
main.go - Inventory engine server entry point

STARTUP SEQUENCE:
  1. Load environment config (INVENTORY_* variables), apply flag overrides
  2. Open the SQLite store and migrate the schema
  3. Wire catalog service, stock engine, reporter, and authentication
  4. Optionally seed the demo dataset and ensure the admin user
  5. Serve HTTP with graceful shutdown on SIGINT/SIGTERM

FLAGS:
  -port    HTTP server port (overrides INVENTORY_PORT)
  -db      SQLite database path (overrides INVENTORY_DB_PATH;
           use ":memory:" for an in-memory database)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/depot/inventory-engine/api"
	"github.com/depot/inventory-engine/auth"
	"github.com/depot/inventory-engine/catalog"
	"github.com/depot/inventory-engine/config"
	"github.com/depot/inventory-engine/ledger"
	"github.com/depot/inventory-engine/logger"
	"github.com/depot/inventory-engine/report"
	"github.com/depot/inventory-engine/seed"
	"github.com/depot/inventory-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	log := logger.New(logger.Options{
		ServiceName: "inventory-engine",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer store.Close()

	ctx := context.Background()

	secret := cfg.JWTSecret
	if secret == "" {
		if secret, err = store.JWTSecret(ctx); err != nil {
			log.Fatal().Err(err).Msg("loading jwt secret")
		}
	}

	catalogSvc := catalog.NewService(store)
	engine := ledger.NewEngine(store, catalogSvc, store)
	reporter := report.New(catalogSvc, engine)
	authSvc := auth.NewService(store, secret, cfg.SessionTTL)

	if cfg.SeedDemoData {
		if err := ensureAdminUser(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("seeding admin user")
		}
		if err := seed.Load(ctx, catalogSvc, engine); err != nil {
			log.Fatal().Err(err).Msg("seeding demo data")
		}
		log.Info().Msg("demo data loaded")
	}

	handler := &api.Handler{
		Engine:   engine,
		Catalog:  catalogSvc,
		Reporter: reporter,
		Auth:     authSvc,
		Settings: store,
		Log:      log,
	}
	router := api.NewRouter(handler, api.Options{CORSOrigins: cfg.CORSOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Str("db", *dbPath).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

// ensureAdminUser creates the default admin login for development
// databases. Existing users are never overwritten.
func ensureAdminUser(ctx context.Context, store *sqlite.Store) error {
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	return store.EnsureUser(ctx, auth.StoredUser{
		User: auth.User{
			ID:       uuid.NewString(),
			Username: "admin",
			Name:     "Administrator",
			Role:     "admin",
		},
		PasswordHash: hash,
	})
}
