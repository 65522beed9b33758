package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/tui/styles"
)

const configUsage = "Usage: solmon config <path|layout [--force]|url|theme|interval|credential>"

func configCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, configUsage)
		os.Exit(1)
	}

	switch args[0] {
	case "path":
		configPath()
		return
	case "layout":
		configLayout(args[1:])
		return
	}
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: solmon config %s VALUE\n", args[0])
		os.Exit(1)
	}

	cfg := LoadOrDefaultConfig()
	var msg string
	switch args[0] {
	case "url":
		cfg.BaseURL = args[1]
		msg = fmt.Sprintf("Base URL set to %q.", args[1])
	case "theme":
		// Validate the theme name exists
		if styles.GetThemeByName(args[1]) == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", args[1])
			fmt.Fprintln(os.Stderr, "Run 'solmon themes' to see available themes.")
			os.Exit(1)
		}
		cfg.Theme = args[1]
		msg = fmt.Sprintf("Default theme set to %q.", args[1])
	case "interval":
		d, err := time.ParseDuration(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid interval %q: %v\n", args[1], err)
			os.Exit(1)
		}
		cfg.RefreshInterval = d
		msg = fmt.Sprintf("Refresh interval set to %s.", d)
	case "credential":
		cfg.Credential = args[1]
		msg = fmt.Sprintf("Credential set to %q.", args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, configUsage)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	saveConfig(cfg)
	fmt.Println(msg)
}

func configPath() {
	path, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(path)
}

// configLayout writes the built-in chart layout to charts.toml so it can
// be edited.
func configLayout(args []string) {
	force := len(args) > 0 && args[0] == "--force"
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directories: %v\n", err)
		os.Exit(1)
	}
	path, err := config.GetLayoutPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeDefaultLayout(path, force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Chart layout written to %s.\n", path)
}

// writeDefaultLayout saves the default layout to path. An existing file is
// kept unless force is set.
func writeDefaultLayout(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return dashboard.SaveLayout(dashboard.DefaultLayout(), path)
}

func themesCmd() {
	for _, name := range styles.ListThemes() {
		fmt.Println(name)
	}
}

// LoadOrDefaultConfig loads the config from disk, falling back to defaults.
func LoadOrDefaultConfig() *config.Config {
	path, err := config.GetConfigPath()
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring %s: %v\n", path, err)
		return config.DefaultConfig()
	}
	return cfg
}

// saveConfig writes the config to disk, creating directories as needed.
func saveConfig(cfg *config.Config) {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directories: %v\n", err)
		os.Exit(1)
	}

	cfgDir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.SaveConfig(cfg, filepath.Join(cfgDir, "config.toml")); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
}
