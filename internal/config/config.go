// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first (convenient for
// local development); real environment variables win over .env entries.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for local development. The admin credentials seed the bootstrap
// administrator account on first start; override them in production.
const (
	DefaultPort          = 8000
	DefaultDBPath        = "data/quizzmate.db"
	DefaultAdminEmail    = "admin@quizzmate.com"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	Port          int
	DBPath        string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg := Config{
		Port:          DefaultPort,
		DBPath:        getenvDefault("DB_PATH", DefaultDBPath),
		AdminEmail:    getenvDefault("ADMIN_EMAIL", DefaultAdminEmail),
		AdminPassword: getenvDefault("ADMIN_PASSWORD", DefaultAdminPassword),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
