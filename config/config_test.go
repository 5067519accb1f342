package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("ADMIN_TOKEN", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "points.db", cfg.DBPath)
	assert.Empty(t, cfg.AdminToken, "admin access disabled by default")
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "s3cret", cfg.AdminToken)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_BadPortIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
}
