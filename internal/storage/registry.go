// Package storage opens the seeded databases by name and bootstraps their tables.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Domenick1991/flightseed/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	Tickets    = "tickets"
	Flights    = "flights"
	Privileges = "privileges"
)

// Names lists the seeded databases in seeding order.
var Names = []string{Tickets, Flights, Privileges}

// Registry hands out one *sql.DB per named database, opening it on first use.
type Registry struct {
	cfg config.DatabasesConfig

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewRegistry(cfg config.DatabasesConfig) *Registry {
	return &Registry{cfg: cfg, dbs: make(map[string]*sql.DB)}
}

// DB returns the handle for the named database.
func (r *Registry) DB(ctx context.Context, name string) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.dbs[name]; ok {
		return db, nil
	}

	cfg, ok := r.cfg.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown database %q", name)
	}
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", name, err)
	}
	r.dbs[name] = db
	return db, nil
}

// EnsureSchema creates the fixture tables of the named database if they are missing.
func (r *Registry) EnsureSchema(ctx context.Context, name string) error {
	cfg, ok := r.cfg.ByName(name)
	if !ok {
		return fmt.Errorf("unknown database %q", name)
	}
	db, err := r.DB(ctx, name)
	if err != nil {
		return err
	}
	return ApplySchema(ctx, db, cfg.DriverName(), name)
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, db := range r.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s database: %w", name, err))
		}
		delete(r.dbs, name)
	}
	return errors.Join(errs...)
}

// Open connects to a single database and checks it is reachable.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var driver string
	switch cfg.DriverName() {
	case config.DriverPostgres:
		driver = "pgx"
	case config.DriverSQLite:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(driver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
