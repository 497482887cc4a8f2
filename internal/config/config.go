// Package config loads the admin client's settings from defaults, an
// optional YAML settings file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")
)

// Error carries the failing field alongside the sentinel it wraps.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	SessionStoreMemory = "memory"
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	Audit     AuditConfig     `yaml:"audit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Orders    OrdersConfig    `yaml:"orders"`

	// IdentityProvider is handed to the sign-in collaborator untouched.
	IdentityProvider IdentityProvider `yaml:"identity_provider"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Store    string `yaml:"store"`
	File     string `yaml:"file"`
	RedisURL string `yaml:"redis_url"`
	Key      string `yaml:"key"`
}

type AuditConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// Enabled reports whether mutations should be published.
func (a AuditConfig) Enabled() bool {
	return len(a.Brokers) > 0
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	TraceStdout  bool   `yaml:"trace_stdout"`
	LogLevel     string `yaml:"log_level"`
}

type OrdersConfig struct {
	// RequireItems rejects orders submitted without any line item.
	RequireItems bool `yaml:"require_items"`
}

type IdentityProvider struct {
	APIKey            string `yaml:"api_key"`
	AuthDomain        string `yaml:"auth_domain"`
	ProjectID         string `yaml:"project_id"`
	StorageBucket     string `yaml:"storage_bucket"`
	MessagingSenderID string `yaml:"messaging_sender_id"`
	AppID             string `yaml:"app_id"`
	MeasurementID     string `yaml:"measurement_id"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Store: SessionStoreFile,
			File:  defaultSessionFile(),
			Key:   "sweetshop:session",
		},
		Audit: AuditConfig{
			Topic:   "sweetshop.audit",
			GroupID: "sweetshop-audit-tail",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "sweetshop",
			LogLevel:    "info",
		},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sweetshop-session.json"
	}
	return filepath.Join(dir, "sweetshop", "session.json")
}

// Load builds the configuration: defaults, then the file named by
// SWEETSHOP_CONFIG (if any), then environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("SWEETSHOP_CONFIG"); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) LoadFromFile(path string) error {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return &Error{Field: "file", Message: fmt.Sprintf("unsupported extension %q", ext), Err: ErrInvalidConfiguration}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &Error{Field: "file", Message: err.Error(), Err: ErrInvalidConfiguration}
	}
	return nil
}

func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SWEETSHOP_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SWEETSHOP_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &Error{Field: "SWEETSHOP_HTTP_TIMEOUT", Message: err.Error(), Err: ErrInvalidConfiguration}
		}
		c.API.Timeout = d
	}

	if v := os.Getenv("SWEETSHOP_SESSION_STORE"); v != "" {
		c.Session.Store = strings.ToLower(v)
	}
	if v := os.Getenv("SWEETSHOP_SESSION_FILE"); v != "" {
		c.Session.File = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Session.RedisURL = v
	}

	if v := os.Getenv("KAFKA_BROKER"); v != "" {
		c.Audit.Brokers = parseStringList(v)
	}
	if v := os.Getenv("SWEETSHOP_AUDIT_TOPIC"); v != "" {
		c.Audit.Topic = v
	}

	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("SWEETSHOP_TRACE_STDOUT"); v != "" {
		c.Telemetry.TraceStdout = parseBool(v)
	}
	if v := os.Getenv("SWEETSHOP_LOG_LEVEL"); v != "" {
		c.Telemetry.LogLevel = v
	}

	if v := os.Getenv("SWEETSHOP_REQUIRE_ORDER_ITEMS"); v != "" {
		c.Orders.RequireItems = parseBool(v)
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &Error{Field: "api.base_url", Message: fmt.Sprintf("invalid URL %q", c.API.BaseURL), Err: ErrInvalidConfiguration}
	}
	if c.API.Timeout <= 0 {
		return &Error{Field: "api.timeout", Message: "must be positive", Err: ErrInvalidConfiguration}
	}

	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreFile:
		if c.Session.File == "" {
			return &Error{Field: "session.file", Message: "required for the file session store", Err: ErrMissingConfiguration}
		}
	case SessionStoreRedis:
		if c.Session.RedisURL == "" {
			return &Error{Field: "session.redis_url", Message: "required for the redis session store", Err: ErrMissingConfiguration}
		}
	default:
		return &Error{Field: "session.store", Message: fmt.Sprintf("unknown store %q", c.Session.Store), Err: ErrInvalidConfiguration}
	}

	if c.Audit.Enabled() && c.Audit.Topic == "" {
		return &Error{Field: "audit.topic", Message: "required when brokers are set", Err: ErrMissingConfiguration}
	}
	return nil
}

func parseStringList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		s = strings.ToLower(strings.TrimSpace(s))
		return s == "yes" || s == "on"
	}
	return b
}
