package cmd

import (
	"fmt"
	"os"
)

// Version is the release version printed by `solmon version` and shown in
// the TUI header.
const Version = "0.1.0"

// knownSubcommands is the set of CLI subcommands that bypass the TUI.
var knownSubcommands = map[string]bool{
	"probe":      true,
	"credential": true,
	"config":     true,
	"themes":     true,
	"version":    true,
	"help":       true,
}

// IsSubcommand returns true if the argument is a known CLI subcommand.
func IsSubcommand(arg string) bool {
	return knownSubcommands[arg]
}

// Execute dispatches to the appropriate CLI subcommand handler.
func Execute(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "probe":
		probeCmd(args[1:])
	case "credential":
		credentialCmd(args[1:])
	case "config":
		configCmd(args[1:])
	case "themes":
		themesCmd()
	case "version":
		fmt.Println("solmon v" + Version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`solmon - solar telemetry dashboard

Usage:
  solmon                      Launch TUI dashboard
  solmon --url URL            Launch against a different API base URL
  solmon --interval 30s       Launch with a refresh interval override
  solmon --theme NAME         Launch with theme override
  solmon probe                Run one refresh and print every panel
  solmon credential <cmd>     Manage API credentials
  solmon config <cmd>         Manage configuration
  solmon themes               List available themes
  solmon version              Show version
  solmon help                 Show this help

Credential Commands:
  solmon credential list              List all credentials
  solmon credential add               Add a new credential (interactive)
  solmon credential remove NAME       Remove a credential
  solmon credential test NAME [URL]   Check the API health endpoint

Probe:
  solmon probe [--url URL] [--timeout 10s]

Config Commands:
  solmon config path                  Show config file path
  solmon config layout [--force]      Write the default chart layout
  solmon config url URL               Set the API base URL
  solmon config theme NAME            Set default theme
  solmon config interval DURATION     Set the refresh interval
  solmon config credential NAME       Set the credential used for requests`)
}
