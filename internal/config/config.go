package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from defaults/file/env.
type Config struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	LogLevel  string `json:"logLevel" yaml:"logLevel"`
	LogFormat string `json:"logFormat" yaml:"logFormat"`

	Queue   QueueConfig   `json:"queue" yaml:"queue"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// BootstrapServices are seeded into the credential registry at startup.
	BootstrapServices []ServiceSeed `json:"bootstrapServices" yaml:"bootstrapServices"`
}

// QueueConfig carries work-queue tunables.
type QueueConfig struct {
	// MaxRetries is the retry ceiling before a task is dead-lettered.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`
}

// MetricsConfig carries the aggregator retention policy.
type MetricsConfig struct {
	// RetentionDays bounds how long hourly buckets are kept.
	RetentionDays int `json:"retentionDays" yaml:"retentionDays"`
	// CleanupIntervalMinutes is how often the cleaner loop runs.
	CleanupIntervalMinutes int `json:"cleanupIntervalMinutes" yaml:"cleanupIntervalMinutes"`
}

// ServiceSeed declares a registry identity created at startup.
type ServiceSeed struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	APIKey      string   `json:"apiKey" yaml:"apiKey"`
	Permissions []string `json:"permissions" yaml:"permissions"`
	RateLimit   int      `json:"rateLimit" yaml:"rateLimit"`
}

// Default returns built-in defaults, including the ecosystem's stock
// service identities.
func Default() Config {
	return Config{
		Host:      "0.0.0.0",
		Port:      8000,
		LogLevel:  "info",
		LogFormat: "text",
		Queue:     QueueConfig{MaxRetries: 3},
		Metrics:   MetricsConfig{RetentionDays: 30, CleanupIntervalMinutes: 60},
		BootstrapServices: []ServiceSeed{
			{Name: "nex-web-backend", Type: "nex-web-backend", APIKey: "nex-web-backend-key-2024", Permissions: []string{"send_logs", "read_stats"}, RateLimit: 1000},
			{Name: "nex-mobile-backend", Type: "nex-mobile-backend", APIKey: "nex-mobile-backend-key-2024", Permissions: []string{"send_logs", "read_stats"}, RateLimit: 500},
			{Name: "auth-service", Type: "auth-service", APIKey: "auth-service-key-2024", Permissions: []string{"send_logs", "read_stats"}, RateLimit: 200},
			{Name: "conductor", Type: "conductor", APIKey: "conductor-key-2024", Permissions: []string{"send_logs", "read_stats"}, RateLimit: 300},
		},
	}
}

// Load reads configuration from a JSON or YAML file by extension. An empty
// path returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// ListenAddr returns the host:port the HTTP server binds.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
