// Package config loads QuickBill configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration.
type Config struct {
	// DBPath is the SQLite database file backing the key-value store.
	DBPath string

	// SharePhone is the WhatsApp recipient for bill sharing, including the
	// country code.
	SharePhone string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:     getEnv("QUICKBILL_DB_PATH", "./data/quickbill.db"),
		SharePhone: getEnv("QUICKBILL_SHARE_PHONE", "918919971913"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
