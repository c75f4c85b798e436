package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup from .env and the process environment.
type Config struct {
	DBURL         string
	Driver        ConnectionType
	SchemaVariant string
	Table         string
	DatabaseName  string
	LogFile       string
	Timeout       time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	cfg := &Config{
		DBURL:         strings.TrimSpace(os.Getenv("DB_URL")),
		Driver:        ConnectionType(getEnv("DB_DRIVER", "")),
		SchemaVariant: getEnv("REMINDER_SCHEMA", VariantScheduled),
		Table:         getEnv("REMINDER_TABLE", defaultReminderTable),
		DatabaseName:  getEnv("DB_NAME", ""),
		LogFile:       getEnv("LOG_FILE", "reminder_editor.log"),
		Timeout:       time.Duration(getEnvInt("DB_TIMEOUT_SEC", 30)) * time.Second,
	}

	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}
	if cfg.Driver == "" {
		cfg.Driver = inferConnectionType(cfg.DBURL)
	}
	if !cfg.Driver.Valid() {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if cfg.SchemaVariant != VariantBasic && cfg.SchemaVariant != VariantScheduled {
		return nil, fmt.Errorf("unknown REMINDER_SCHEMA %q", cfg.SchemaVariant)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return cfg, nil
}

func (c *Config) ConnectionInfo() ConnectionInfo {
	return ConnectionInfo{
		Type:     c.Driver,
		URL:      c.DBURL,
		Database: c.DatabaseName,
	}
}

func inferConnectionType(url string) ConnectionType {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "file:") ||
		strings.HasSuffix(lower, ".db") ||
		strings.HasSuffix(lower, ".sqlite") ||
		strings.HasSuffix(lower, ".sqlite3") {
		return ConnectionSQLite
	}
	return ConnectionPostgres
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
