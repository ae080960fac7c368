package config

import (
	"os"
	"strconv"
)

// FromEnv overlays LOGWATCHER_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("LOGWATCHER_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("LOGWATCHER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("LOGWATCHER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOGWATCHER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("LOGWATCHER_QUEUE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Queue.MaxRetries = n
		}
	}
	if v := os.Getenv("LOGWATCHER_METRICS_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Metrics.RetentionDays = n
		}
	}
	if v := os.Getenv("LOGWATCHER_METRICS_CLEANUP_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Metrics.CleanupIntervalMinutes = n
		}
	}
}
