package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STATIC_DIR", "")
	t.Setenv("CORS_ALLOW", "")

	cfg := LoadConfig()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORSAllow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STATIC_DIR", "/srv/poker/public")
	t.Setenv("CORS_ALLOW", "https://a.example, https://b.example ,,")

	cfg := LoadConfig()
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "/srv/poker/public", cfg.StaticDir)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllow)
}
