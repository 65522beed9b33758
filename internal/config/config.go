package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Notification presentation styles.
const (
	NotificationToast  = "toast"
	NotificationBanner = "banner"
)

type Config struct {
	BaseURL     string `toml:"base_url"`
	Theme       string `toml:"theme"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
	Credential  string `toml:"credential"`

	RefreshInterval    time.Duration `toml:"-"`
	RefreshIntervalStr string        `toml:"refresh_interval"`
	HealthInterval     time.Duration `toml:"-"`
	HealthIntervalStr  string        `toml:"health_interval"`
	RequestTimeout     time.Duration `toml:"-"`
	RequestTimeoutStr  string        `toml:"request_timeout"`

	NotificationDuration    time.Duration `toml:"-"`
	NotificationDurationStr string        `toml:"notification_duration"`
	NotificationStyle       string        `toml:"notification_style"`

	HistoryHours       int     `toml:"history_hours"`
	LatestLimit        int     `toml:"latest_limit"`
	MaxPoints          int     `toml:"max_points"`
	InactiveThresholdW float64 `toml:"inactive_threshold_w"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:                 "http://localhost:5000/api",
		Theme:                   "solarized-dark",
		LogLevel:                "info",
		RefreshInterval:         10 * time.Second,
		RefreshIntervalStr:      "10s",
		HealthInterval:          30 * time.Second,
		HealthIntervalStr:       "30s",
		RequestTimeout:          10 * time.Second,
		RequestTimeoutStr:       "10s",
		NotificationDuration:    5 * time.Second,
		NotificationDurationStr: "5s",
		NotificationStyle:       NotificationToast,
		HistoryHours:            6,
		LatestLimit:             20,
		MaxPoints:               720,
		InactiveThresholdW:      1,
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.RefreshInterval = parseDuration(cfg.RefreshIntervalStr, cfg.RefreshInterval)
	cfg.HealthInterval = parseDuration(cfg.HealthIntervalStr, cfg.HealthInterval)
	cfg.RequestTimeout = parseDuration(cfg.RequestTimeoutStr, cfg.RequestTimeout)
	cfg.NotificationDuration = parseDuration(cfg.NotificationDurationStr, cfg.NotificationDuration)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config, path string) error {
	cfg.RefreshIntervalStr = cfg.RefreshInterval.String()
	cfg.HealthIntervalStr = cfg.HealthInterval.String()
	cfg.RequestTimeoutStr = cfg.RequestTimeout.String()
	cfg.NotificationDurationStr = cfg.NotificationDuration.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate reports the first setting that the dashboard cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.HealthInterval <= 0 {
		return fmt.Errorf("health_interval must be positive, got %s", c.HealthInterval)
	}
	if c.NotificationStyle != NotificationToast && c.NotificationStyle != NotificationBanner {
		return fmt.Errorf("notification_style must be %q or %q, got %q",
			NotificationToast, NotificationBanner, c.NotificationStyle)
	}
	if c.HistoryHours <= 0 {
		return fmt.Errorf("history_hours must be positive, got %d", c.HistoryHours)
	}
	if c.InactiveThresholdW < 0 {
		return fmt.Errorf("inactive_threshold_w must not be negative, got %g", c.InactiveThresholdW)
	}
	return nil
}

// parseDuration returns fallback when s is empty or malformed.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
