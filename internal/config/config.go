package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Tally   TallyConfig
	Sync    SyncConfig
	Sheets  SheetsConfig
	MongoDB MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// TallyConfig points at the accounting system's XML export gateway.
type TallyConfig struct {
	URL           string
	ProbeTimeout  time.Duration
	ExportTimeout time.Duration
}

// SyncConfig holds scheduler and replace-policy settings.
type SyncConfig struct {
	Enabled      bool
	CronSchedule string
	Timezone     string
	// ReplaceOnUnreadable keeps the catalog wipe when the export was fetched but could not be parsed.
	ReplaceOnUnreadable bool
}

// SheetsConfig contains configuration required to publish stock snapshots to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	StockRange      string
}

// Enabled reports whether snapshot publishing is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for MongoDB. An empty URI selects the in-memory store.
type MongoDBConfig struct {
	URI                string
	DBName             string
	ProductsCollection string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	probeTimeout, err := getDurationWithDefault("TALLY_PROBE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	exportTimeout, err := getDurationWithDefault("TALLY_EXPORT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	syncEnabled, err := getBoolWithDefault("SYNC_ENABLED", true)
	if err != nil {
		return nil, err
	}
	replaceOnUnreadable, err := getBoolWithDefault("SYNC_REPLACE_ON_UNREADABLE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Tally: TallyConfig{
			URL:           getenvWithDefault("TALLY_URL", "http://localhost:9000"),
			ProbeTimeout:  probeTimeout,
			ExportTimeout: exportTimeout,
		},
		Sync: SyncConfig{
			Enabled:             syncEnabled,
			CronSchedule:        getenvWithDefault("SYNC_CRON_SCHEDULE", "*/30 * * * *"),
			Timezone:            getenvWithDefault("TIMEZONE", "UTC"),
			ReplaceOnUnreadable: replaceOnUnreadable,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			StockRange:      getenvWithDefault("GOOGLE_SHEET_STOCK_RANGE", "Stock!A2:F"),
		},
		MongoDB: MongoDBConfig{
			URI:                os.Getenv("MONGODB_URI"),
			DBName:             getenvWithDefault("MONGODB_DB_NAME", "inventory"),
			ProductsCollection: getenvWithDefault("MONGODB_PRODUCTS_COLLECTION", "products"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Tally.URL == "" {
		return errors.New("TALLY_URL must not be empty")
	}
	if !strings.HasPrefix(c.Tally.URL, "http://") && !strings.HasPrefix(c.Tally.URL, "https://") {
		return fmt.Errorf("TALLY_URL must be an http(s) URL, got %q", c.Tally.URL)
	}

	switch {
	case c.Tally.ProbeTimeout <= 0:
		return errors.New("TALLY_PROBE_TIMEOUT must be positive")
	case c.Tally.ExportTimeout <= 0:
		return errors.New("TALLY_EXPORT_TIMEOUT must be positive")
	}

	if c.Sync.Enabled && c.Sync.CronSchedule == "" {
		return errors.New("SYNC_CRON_SCHEDULE must be provided when SYNC_ENABLED is true")
	}

	if c.Sync.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Sync.Timezone, err)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}
	if c.Sheets.Enabled() && c.Sheets.StockRange == "" {
		return errors.New("GOOGLE_SHEET_STOCK_RANGE must not be empty")
	}

	if c.MongoDB.URI != "" {
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
		if c.MongoDB.ProductsCollection == "" {
			return errors.New("MONGODB_PRODUCTS_COLLECTION must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getBoolWithDefault(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
