package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8000 {
		t.Fatalf("default port = %d, want 8000", cfg.Port)
	}
	if cfg.Queue.MaxRetries != 3 {
		t.Fatalf("default max retries = %d, want 3", cfg.Queue.MaxRetries)
	}
	if len(cfg.BootstrapServices) != 4 {
		t.Fatalf("expected 4 bootstrap services, got %d", len(cfg.BootstrapServices))
	}
	if cfg.ListenAddr() != "0.0.0.0:8000" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("port: 9100\nqueue:\n  maxRetries: 5\nbootstrapServices:\n  - name: solo\n    type: other\n    apiKey: solo-key\n    rateLimit: 10\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9100 || cfg.Queue.MaxRetries != 5 {
		t.Fatalf("yaml overlay not applied: %+v", cfg)
	}
	if len(cfg.BootstrapServices) != 1 || cfg.BootstrapServices[0].Name != "solo" {
		t.Fatalf("bootstrap services = %+v", cfg.BootstrapServices)
	}
	// Untouched keys keep defaults.
	if cfg.Host != "0.0.0.0" {
		t.Fatalf("host = %q, want default", cfg.Host)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"host":"127.0.0.1","logFormat":"json"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.LogFormat != "json" {
		t.Fatalf("json overlay not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOGWATCHER_PORT", "9000")
	t.Setenv("LOGWATCHER_LOG_LEVEL", "debug")
	t.Setenv("LOGWATCHER_QUEUE_MAX_RETRIES", "7")
	t.Setenv("LOGWATCHER_METRICS_RETENTION_DAYS", "nope")

	cfg := Default()
	FromEnv(&cfg)
	if cfg.Port != 9000 || cfg.LogLevel != "debug" || cfg.Queue.MaxRetries != 7 {
		t.Fatalf("env overlay not applied: %+v", cfg)
	}
	if cfg.Metrics.RetentionDays != 30 {
		t.Fatalf("invalid env value should keep default, got %d", cfg.Metrics.RetentionDays)
	}
}
