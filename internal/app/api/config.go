package api

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

// Config carries settings for the API process. Values come from an optional
// YAML file named by CART_CONFIG, with environment variables taking precedence.
type Config struct {
	Port               string        `yaml:"port"`
	PostgresDSN        string        `yaml:"postgresDSN"`
	RemoteStoreURL     string        `yaml:"remoteStoreURL"`
	RemoteStoreTimeout time.Duration `yaml:"remoteStoreTimeout"`
	SyncCartID         string        `yaml:"syncCartID"`
	TemporalAddress    string        `yaml:"temporalAddress"`
	TemporalNamespace  string        `yaml:"temporalNamespace"`
	TemporalDisabled   bool          `yaml:"temporalDisabled"`
}

// LoadConfig reads the optional config file and environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               "8080",
		RemoteStoreTimeout: 5 * time.Second,
		SyncCartID:         "default",
		TemporalAddress:    client.DefaultHostPort,
		TemporalNamespace:  client.DefaultNamespace,
	}
	if path := strings.TrimSpace(os.Getenv("CART_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if strings.TrimSpace(cfg.RemoteStoreURL) == "" {
		return Config{}, fmt.Errorf("REMOTE_STORE_URL must be set")
	}
	if cfg.RemoteStoreTimeout <= 0 {
		return Config{}, fmt.Errorf("remote store timeout must be positive")
	}
	if strings.TrimSpace(cfg.SyncCartID) == "" {
		return Config{}, fmt.Errorf("sync cart ID must not be empty")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RemoteStoreURL = envDefault("REMOTE_STORE_URL", cfg.RemoteStoreURL)
	cfg.SyncCartID = envDefault("SYNC_CART_ID", cfg.SyncCartID)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	if v := strings.TrimSpace(os.Getenv("TEMPORAL_DISABLED")); v != "" {
		cfg.TemporalDisabled = isTruthy(v)
	}
	if raw := strings.TrimSpace(os.Getenv("REMOTE_STORE_TIMEOUT")); raw != "" {
		if timeout, err := time.ParseDuration(raw); err == nil {
			cfg.RemoteStoreTimeout = timeout
		}
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
