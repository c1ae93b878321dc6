package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qyinm/savorytui/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "savory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, api.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "1234", cfg.Admin.Password)
	assert.Equal(t, 6, cfg.Catalog.PageSize)
	assert.Equal(t, 20.0, cfg.Catalog.OfferThreshold)
	assert.Equal(t, 1.2, cfg.Catalog.OfferMarkup)
	assert.Equal(t, 275*time.Millisecond, cfg.Catalog.SearchDebounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "8080", cfg.MCP.Port)
	assert.Empty(t, cfg.MCP.AllowedOrigins)
	assert.Equal(t, 2.0, cfg.MCP.RPS)
	assert.Equal(t, 5, cfg.MCP.Burst)
	assert.Equal(t, 15*time.Minute, cfg.MCP.SessionTimeout)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeFile(t, `
api:
  base_url: http://localhost:5000/api
  timeout: 3s
catalog:
  page_size: 8
  search_debounce: 300ms
mcp:
  allowed_origins:
    - https://a.example
    - https://b.example
`)
	t.Setenv("SAVORY_CATALOG_PAGE_SIZE", "4")
	t.Setenv("SAVORY_LOG_LEVEL", "DEBUG")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 4, cfg.Catalog.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Catalog.SearchDebounce)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "9090", cfg.MCP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.MCP.AllowedOrigins)
}

func TestLoadCommaSeparatedOrigins(t *testing.T) {
	t.Setenv("SAVORY_MCP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(writeFile(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.MCP.AllowedOrigins)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeFile(t, "{}\n"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "/api" }},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
		{name: "empty password", mutate: func(c *Config) { c.Admin.Password = "" }},
		{name: "zero page size", mutate: func(c *Config) { c.Catalog.PageSize = 0 }},
		{name: "markup below one", mutate: func(c *Config) { c.Catalog.OfferMarkup = 0.5 }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "admin tools without key", mutate: func(c *Config) { c.MCP.EnableAdmin = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := base()
	cfg.MCP.RPS = 0
	cfg.MCP.Burst = -1
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2.0, cfg.MCP.RPS)
	assert.Equal(t, 5, cfg.MCP.Burst)
}
