// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           int
	DBPath         string
	AdminToken     string
	AllowedOrigins []string
}

// Load reads configuration from environment variables, falling back to
// development defaults. ADMIN_TOKEN has no default: admin routes stay
// disabled unless one is set.
func Load() Config {
	cfg := Config{
		Port:           8080,
		DBPath:         "points.db",
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}
