package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tonhe/solmon/cmd"
	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/internal/logger"
	"github.com/tonhe/solmon/internal/metrics"
	"github.com/tonhe/solmon/tui"
	"github.com/tonhe/solmon/tui/styles"
)

func main() {
	if len(os.Args) > 1 && cmd.IsSubcommand(os.Args[1]) {
		cmd.Execute(os.Args[1:])
		return
	}

	baseURL := flag.String("url", "", "API base URL (overrides config)")
	interval := flag.Duration("interval", 0, "Refresh interval (overrides config)")
	theme := flag.String("theme", "", "Theme name (overrides config)")
	flag.Parse()

	if err := run(*baseURL, *interval, *theme); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(baseURL string, interval time.Duration, theme string) error {
	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfgPath, err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if interval > 0 {
		cfg.RefreshInterval = interval
	}
	if theme != "" {
		if styles.GetThemeByName(theme) == nil {
			return fmt.Errorf("unknown theme %q", theme)
		}
		cfg.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog := openLogger(cfg.LogLevel)
	defer closeLog.Close()
	defer log.Sync() //nolint:errcheck

	layoutPath, err := config.GetLayoutPath()
	if err != nil {
		return err
	}
	layout, err := dashboard.LoadLayout(layoutPath)
	if err != nil {
		return fmt.Errorf("loading chart layout: %w", err)
	}

	client, err := cmd.NewClient(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := cmd.ControllerOptions(cfg)
	opts.Layout = layout
	opts.Logger = log
	opts.Metrics = metrics.New(reg)

	if cfg.MetricsAddr != "" {
		srv := metrics.Serve(cfg.MetricsAddr, reg, log)
		defer srv.Close()
	}

	ctrl, err := dashboard.New(client, opts)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	model := tui.NewAppModel(cfg, cfgPath, ctrl, cmd.Version)
	if err := ctrl.Start(); err != nil {
		return err
	}
	log.Infow("solmon_started", "base_url", client.BaseURL(), "version", cmd.Version)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// openLogger writes to the data directory log file, or discards logs when
// the file cannot be opened. The TUI owns stdout.
func openLogger(level string) (*logger.Logger, io.Closer) {
	path, err := config.GetLogPath()
	if err == nil {
		log, closer, err := logger.NewFile(level, path)
		if err == nil {
			return log, closer
		}
	}
	return logger.Nop(), io.NopCloser(nil)
}
