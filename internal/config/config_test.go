package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SWEETSHOP_CONFIG", "SWEETSHOP_API_URL", "SWEETSHOP_HTTP_TIMEOUT",
		"SWEETSHOP_SESSION_STORE", "SWEETSHOP_SESSION_FILE", "REDIS_URL",
		"KAFKA_BROKER", "SWEETSHOP_AUDIT_TOPIC", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_SERVICE_NAME", "SWEETSHOP_TRACE_STDOUT", "SWEETSHOP_LOG_LEVEL",
		"SWEETSHOP_REQUIRE_ORDER_ITEMS",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Audit.Enabled())
	assert.False(t, cfg.Orders.RequireItems)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "sweetshop.yaml")
	yamlData := `
api:
  base_url: https://file.example.com/api
  timeout: 3s
session:
  store: memory
identity_provider:
  api_key: KEY
  project_id: mithai
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	t.Setenv("SWEETSHOP_CONFIG", path)
	t.Setenv("SWEETSHOP_API_URL", "https://env.example.com/api")
	t.Setenv("KAFKA_BROKER", "k1:9092, k2:9092")
	t.Setenv("SWEETSHOP_REQUIRE_ORDER_ITEMS", "yes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Audit.Brokers)
	assert.True(t, cfg.Audit.Enabled())
	assert.True(t, cfg.Orders.RequireItems)
	assert.Equal(t, "KEY", cfg.IdentityProvider.APIKey)
	assert.Equal(t, "mithai", cfg.IdentityProvider.ProjectID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		field   string
	}{
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.API.BaseURL = "/api" },
			wantErr: ErrInvalidConfiguration,
			field:   "api.base_url",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.API.Timeout = 0 },
			wantErr: ErrInvalidConfiguration,
			field:   "api.timeout",
		},
		{
			name:    "redis store without url",
			mutate:  func(c *Config) { c.Session.Store = SessionStoreRedis },
			wantErr: ErrMissingConfiguration,
			field:   "session.redis_url",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.Session.Store = "etcd" },
			wantErr: ErrInvalidConfiguration,
			field:   "session.store",
		},
		{
			name: "audit without topic",
			mutate: func(c *Config) {
				c.Audit.Brokers = []string{"localhost:9092"}
				c.Audit.Topic = ""
			},
			wantErr: ErrMissingConfiguration,
			field:   "audit.topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestLoadFromFileRejectsUnknownExtension(t *testing.T) {
	cfg := Default()
	err := cfg.LoadFromFile("settings.toml")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestLoadFromEnvBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SWEETSHOP_HTTP_TIMEOUT", "soon")

	cfg := Default()
	assert.ErrorIs(t, cfg.LoadFromEnv(), ErrInvalidConfiguration)
}
