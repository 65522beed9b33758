package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tonhe/solmon/internal/dashboard"
)

func TestWriteDefaultLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.toml")
	if err := writeDefaultLayout(path, false); err != nil {
		t.Fatalf("writeDefaultLayout() error: %v", err)
	}
	l, err := dashboard.LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}
	want := dashboard.DefaultLayout()
	if len(l.Charts) != len(want.Charts) {
		t.Fatalf("expected %d charts, got %d", len(want.Charts), len(l.Charts))
	}
	for i, c := range l.Charts {
		if c.ID != want.Charts[i].ID {
			t.Errorf("chart %d: expected id %q, got %q", i, want.Charts[i].ID, c.ID)
		}
	}
}

func TestWriteDefaultLayoutKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.toml")
	custom := []byte("# edited by hand\n")
	if err := os.WriteFile(path, custom, 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeDefaultLayout(path, false); err == nil {
		t.Error("expected error when the layout file already exists")
	}
	got, _ := os.ReadFile(path)
	if string(got) != string(custom) {
		t.Errorf("expected file untouched, got %q", got)
	}

	if err := writeDefaultLayout(path, true); err != nil {
		t.Fatalf("writeDefaultLayout(force) error: %v", err)
	}
	if _, err := dashboard.LoadLayout(path); err != nil {
		t.Errorf("expected forced write to produce a valid layout, got %v", err)
	}
}
