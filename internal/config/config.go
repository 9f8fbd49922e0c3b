// Package config loads server configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds server configuration.
type Config struct {
	ListenAddr     string            `yaml:"listen_addr"`
	DataDir        string            `yaml:"data_dir"`
	StorageBackend string            `yaml:"storage_backend"`
	APIKeys        map[string]string `yaml:"api_keys"` // key -> role
	RequestTimeout time.Duration     `yaml:"request_timeout"`
	RateLimitRPS   float64           `yaml:"rate_limit_rps"`
	RateLimitBurst int               `yaml:"rate_limit_burst"`
}

// Default returns the development defaults. The baked-in API keys
// are for local development only and are replaced in any real
// deployment via file or environment.
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		DataDir:        "data",
		StorageBackend: BackendJSON,
		APIKeys: map[string]string{
			"test-api-key-123": "admin",
			"demo-api-key-456": "user",
		},
		RequestTimeout: 10 * time.Second,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

// Load builds the configuration: defaults, then the YAML file at
// path (skipped when path is empty or the file is absent), then
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.StorageBackend != BackendJSON && cfg.StorageBackend != BackendSQLite {
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOOKSTORE_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("BOOKSTORE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("BOOKSTORE_STORAGE"); v != "" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv("BOOKSTORE_API_KEYS"); v != "" {
		cfg.APIKeys = parseKeys(v)
	}
	if v := os.Getenv("BOOKSTORE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}

// parseKeys parses "key:role,key:role". A bare key gets the user role.
func parseKeys(s string) map[string]string {
	keys := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, role, found := strings.Cut(part, ":")
		if !found {
			role = "user"
		}
		keys[key] = role
	}
	return keys
}
