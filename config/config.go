// Package config loads server configuration from the environment.
//
// All variables are prefixed INVENTORY_, e.g. INVENTORY_PORT=8080.
// Command-line flags in cmd/server override Port and DBPath for local
// development.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "inventory"

type Config struct {
	Port        int      `envconfig:"PORT" default:"8080"`
	DBPath      string   `envconfig:"DB_PATH" default:"inventory.db"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"LOG_FORMAT" default:"console"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`

	// JWTSecret signs session tokens. When empty, a secret is generated
	// once and persisted in the settings table.
	JWTSecret  string        `envconfig:"JWT_SECRET"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"168h"`

	// SeedDemoData loads the demo catalog and opening stock on startup
	// when the database is empty. Development only.
	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
