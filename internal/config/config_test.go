package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Theme != "solarized-dark" {
		t.Errorf("expected default theme 'solarized-dark', got %q", cfg.Theme)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("expected refresh interval 10s, got %v", cfg.RefreshInterval)
	}
	if cfg.HealthInterval != 30*time.Second {
		t.Errorf("expected health interval 30s, got %v", cfg.HealthInterval)
	}
	if cfg.NotificationDuration != 5*time.Second {
		t.Errorf("expected notification duration 5s, got %v", cfg.NotificationDuration)
	}
	if cfg.InactiveThresholdW != 1 {
		t.Errorf("expected inactive threshold 1W, got %v", cfg.InactiveThresholdW)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	cfg := DefaultConfig()
	cfg.Theme = "dracula"
	cfg.BaseURL = "http://rack.local:5000/api"
	cfg.RefreshInterval = 30 * time.Second
	cfg.NotificationDuration = 4 * time.Second
	cfg.NotificationStyle = NotificationBanner

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Theme != "dracula" {
		t.Errorf("expected theme 'dracula', got %q", loaded.Theme)
	}
	if loaded.BaseURL != "http://rack.local:5000/api" {
		t.Errorf("expected base url to round-trip, got %q", loaded.BaseURL)
	}
	if loaded.RefreshInterval != 30*time.Second {
		t.Errorf("expected refresh interval 30s, got %v", loaded.RefreshInterval)
	}
	if loaded.NotificationDuration != 4*time.Second {
		t.Errorf("expected notification duration 4s, got %v", loaded.NotificationDuration)
	}
	if loaded.NotificationStyle != NotificationBanner {
		t.Errorf("expected banner style, got %q", loaded.NotificationStyle)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadConfig() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Theme != "solarized-dark" {
		t.Errorf("expected default theme, got %q", cfg.Theme)
	}
}

func TestConfigLoadBadDurationKeepsDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	os.WriteFile(path, []byte(`refresh_interval = "soon"`+"\n"), 0644)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("expected fallback 10s, got %v", cfg.RefreshInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }},
		{"zero interval", func(c *Config) { c.RefreshInterval = 0 }},
		{"zero health", func(c *Config) { c.HealthInterval = 0 }},
		{"bad style", func(c *Config) { c.NotificationStyle = "popup" }},
		{"zero hours", func(c *Config) { c.HistoryHours = 0 }},
		{"negative threshold", func(c *Config) { c.InactiveThresholdW = -1 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
