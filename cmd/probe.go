package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/internal/render"
)

func probeCmd(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	baseURL := fs.String("url", "", "API base URL (overrides config)")
	timeout := fs.Duration("timeout", 0, "Per-request timeout (overrides config)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: solmon probe [--url URL] [--timeout DURATION]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := LoadOrDefaultConfig()
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.RequestTimeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctrl, err := dashboard.New(client, ControllerOptions(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	fmt.Fprintf(os.Stderr, "Probing %s...\n", client.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout+5*time.Second)
	defer cancel()
	ctrl.CheckHealth(ctx)
	runErr := ctrl.RunOnce(ctx)

	writeView(os.Stdout, ctrl.View())
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Refresh failed: %v\n", runErr)
		os.Exit(1)
	}
}

// ControllerOptions maps the persisted config onto dashboard options.
// Logger, metrics and layout are left for the caller.
func ControllerOptions(cfg *config.Config) dashboard.Options {
	return dashboard.Options{
		Interval:             cfg.RefreshInterval,
		HealthInterval:       cfg.HealthInterval,
		HistoryHours:         cfg.HistoryHours,
		LatestLimit:          cfg.LatestLimit,
		MaxPoints:            cfg.MaxPoints,
		NotificationDuration: cfg.NotificationDuration,
		Policy:               render.Policy{InactiveThresholdW: cfg.InactiveThresholdW},
	}
}

// writeView prints every panel as plain text, one block per panel.
func writeView(w io.Writer, v dashboard.View) {
	fmt.Fprintf(w, "API: %s\n", v.Health)
	if !v.LastUpdated.IsZero() {
		fmt.Fprintf(w, "Updated: %s\n", v.LastUpdated.Format(render.TimeLayout))
	}
	fmt.Fprintf(w, "Cycles: %d run, %d failed, %d coalesced\n", v.Stats.Runs, v.Stats.Failures, v.Stats.Coalesced)
	panels := append([]render.PanelViewState{v.Flow.Panel}, v.Panels...)
	for _, p := range panels {
		fmt.Fprintln(w)
		writePanel(w, p)
	}
}

func writePanel(w io.Writer, p render.PanelViewState) {
	title := p.Title
	if p.BadgeText != "" {
		title += " [" + p.BadgeText + "]"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len([]rune(title))))
	for _, l := range p.Lines {
		if l.Label == "" {
			fmt.Fprintf(w, "  %s\n", l.Text())
			continue
		}
		fmt.Fprintf(w, "  %-22s %s\n", l.Label+":", l.Text())
	}
}
