package commands

import (
	"context"
	"fmt"
	"log/slog"

	"scanstation/frontend/batches"
	"scanstation/infrastructure/audit"
	"scanstation/infrastructure/config"
	"scanstation/infrastructure/inventory"
	"scanstation/infrastructure/sqlite"
)

// station holds the lazily built dependencies shared by subcommands.
type station struct {
	cfg config.Config

	client  *inventory.Client
	db      *sqlite.DB
	audit   *audit.Service
	journal *batches.Journal
}

func newStation(cfg config.Config) *station {
	return &station{cfg: cfg, audit: audit.NewService()}
}

// Inventory returns a client logged in with the configured account.
func (s *station) Inventory(ctx context.Context) (*inventory.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	client, err := inventory.New(s.cfg.ServerURL, nil)
	if err != nil {
		return nil, err
	}
	if s.cfg.Username == "" {
		return nil, fmt.Errorf("no station account configured. use --username or SCANSTATION_USERNAME")
	}
	if err := client.Login(ctx, s.cfg.Username, s.cfg.Password); err != nil {
		return nil, fmt.Errorf("login as %s: %w", s.cfg.Username, err)
	}
	slog.Debug("logged in to inventory server", slog.String("server", s.cfg.ServerURL), slog.String("username", s.cfg.Username))
	s.client = client
	return client, nil
}

// DB opens the journal database and brings its schema up to date.
func (s *station) DB(ctx context.Context) (*sqlite.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sqlite.OpenDB(s.cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := sqlite.ApplyMigrations(ctx, db, s.cfg.Migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	s.db = db
	return db, nil
}

func (s *station) Journal(ctx context.Context) (*batches.Journal, error) {
	if s.journal != nil {
		return s.journal, nil
	}
	db, err := s.DB(ctx)
	if err != nil {
		return nil, err
	}
	s.journal = batches.NewJournal(db, s.audit, s.cfg.OperatorName())
	return s.journal, nil
}

func (s *station) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
