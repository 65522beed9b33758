package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/credential"
	"github.com/tonhe/solmon/internal/source"
	"golang.org/x/term"
)

func credentialCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: solmon credential <list|add|remove|test>")
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		credentialList()
	case "add":
		credentialAdd()
	case "remove":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: solmon credential remove NAME")
			os.Exit(1)
		}
		credentialRemove(args[1])
	case "test":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: solmon credential test NAME [URL]")
			os.Exit(1)
		}
		url := ""
		if len(args) > 2 {
			url = args[2]
		}
		credentialTest(args[1], url)
	default:
		fmt.Fprintf(os.Stderr, "Unknown credential command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: solmon credential <list|add|remove|test>")
		os.Exit(1)
	}
}

// openStore opens the credential store, prompting for the master password if needed.
// Tries empty password first to support no-password vaults.
func openStore() *credential.FileStore {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening credential store: %v\n", err)
		os.Exit(1)
	}
	return store
}

// OpenStore opens the credential store at its default path.
func OpenStore() (*credential.FileStore, error) {
	storePath, err := config.GetCredentialStorePath()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating config directories: %w", err)
	}

	// Try empty password first (no-password vault)
	store, err := credential.NewFileStore(storePath, []byte(""))
	if err == nil {
		return store, nil
	}

	password, err := getMasterPassword()
	if err != nil {
		return nil, err
	}
	return credential.NewFileStore(storePath, password)
}

// getMasterPassword reads the master password from SOLMON_MASTER_KEY or prompts.
func getMasterPassword() ([]byte, error) {
	if key := os.Getenv("SOLMON_MASTER_KEY"); key != "" {
		return []byte(key), nil
	}

	fmt.Fprint(os.Stderr, "Master password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

func readSecret(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	return string(secret)
}

func credentialList() {
	store := openStore()
	summaries, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing credentials: %v\n", err)
		os.Exit(1)
	}

	if len(summaries) == 0 {
		fmt.Println("No credentials configured.")
		return
	}

	for _, s := range summaries {
		line := fmt.Sprintf("%-20s  scheme=%s", s.Name, s.Scheme)
		if s.Username != "" {
			line += fmt.Sprintf("  user=%s", s.Username)
		}
		fmt.Println(line)
	}
}

func credentialAdd() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Credential name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Fprintln(os.Stderr, "Error: name is required")
		os.Exit(1)
	}

	fmt.Print("Auth scheme (basic, bearer): ")
	scheme, _ := reader.ReadString('\n')
	p := credential.Profile{
		Name:   name,
		Scheme: strings.ToLower(strings.TrimSpace(scheme)),
	}

	switch p.Scheme {
	case credential.SchemeBasic:
		fmt.Print("Username: ")
		username, _ := reader.ReadString('\n')
		p.Username = strings.TrimSpace(username)
		p.Password = readSecret("Password: ")
	case credential.SchemeBearer:
		p.Token = readSecret("Token: ")
	default:
		fmt.Fprintln(os.Stderr, "Error: scheme must be basic or bearer")
		os.Exit(1)
	}

	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if err := store.Add(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding credential: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Credential %q added.\n", name)
}

func credentialRemove(name string) {
	store := openStore()
	if err := store.Remove(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing credential: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Credential %q removed.\n", name)
}

func credentialTest(name, baseURL string) {
	cfg := LoadOrDefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.Credential = name

	client, err := NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Checking %s using credential %q...\n", client.BaseURL(), name)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	ok, err := client.Health(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "API reports unhealthy.")
		os.Exit(1)
	}

	fmt.Println("Connection test successful.")
}

// NewClient builds the API client described by cfg, unlocking the
// configured credential when there is one.
func NewClient(cfg *config.Config) (*source.Client, error) {
	opts := []source.Option{source.WithTimeout(cfg.RequestTimeout)}
	if cfg.Credential != "" {
		store, err := OpenStore()
		if err != nil {
			return nil, fmt.Errorf("opening credential store: %w", err)
		}
		p, err := store.Get(cfg.Credential)
		if err != nil {
			return nil, fmt.Errorf("credential %q: %w", cfg.Credential, err)
		}
		opts = append(opts, source.WithCredential(p))
	}
	return source.NewClient(cfg.BaseURL, opts...)
}
