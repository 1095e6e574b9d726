package commands

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"scanstation/infrastructure/config"
	"scanstation/infrastructure/inventory/inventorytest"
)

func TestApplyFlagsOnlyOverridesChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().StringVar(&serverURL, "server", "", "")
	cmd.Flags().StringVarP(&username, "username", "u", "", "")
	cmd.Flags().StringVarP(&password, "password", "p", "", "")
	cmd.Flags().StringVar(&journal, "journal", "", "")
	cmd.Flags().StringVar(&operator, "operator", "", "")
	cmd.Flags().StringVar(&role, "role", "", "")
	if err := cmd.Flags().Parse([]string{"--username", "dock-9"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Defaults()
	cfg.Username = "from-file"
	applyFlags(cmd, &cfg)
	if cfg.Username != "dock-9" {
		t.Fatalf("expected flag to win, got %q", cfg.Username)
	}
	if cfg.ServerURL != config.Defaults().ServerURL || cfg.Role != config.Defaults().Role {
		t.Fatalf("unset flags must not override config: %+v", cfg)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Fatalf("unexpected parse %d %v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := parseID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestStationWiresInventoryAndJournal(t *testing.T) {
	fake := inventorytest.New()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	cfg := config.Defaults()
	cfg.ServerURL = ts.URL
	cfg.Username = "admin"
	cfg.Password = "admin"
	cfg.Journal = filepath.Join(t.TempDir(), "nested", "journal.db")
	st := newStation(cfg)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	client, err := st.Inventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if again, _ := st.Inventory(ctx); again != client {
		t.Fatalf("client should be reused")
	}
	j, err := st.Journal(ctx)
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if err := j.RecordStockOut(ctx, "s", "A-1-1", false, "Barcode not found: A-1-1", 0); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestStationRequiresAccount(t *testing.T) {
	st := newStation(config.Defaults())
	if _, err := st.Inventory(context.Background()); err == nil {
		t.Fatalf("expected missing account error")
	}
}
