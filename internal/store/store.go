// Package store persists rosters. Two backends are provided: a JSON file
// guarded by flock(2) and written atomically, and a SQLite database. A
// Watcher reports changes made to the roster by other processes.
package store

import (
	"context"
	"fmt"

	"github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

// Store loads and saves a whole roster at once.
type Store interface {
	// Load returns the stored roster in saved order. A store that has never
	// been saved returns an empty roster.
	Load(ctx context.Context) ([]roster.Player, error)
	// Save replaces the stored roster.
	Save(ctx context.Context, players []roster.Player) error
	// Reset empties the stored roster.
	Reset(ctx context.Context) error
	// Path returns the file backing the store.
	Path() string
	// Close releases resources held by the store.
	Close() error
}

// Open returns the store configured by cfg. A nil logger discards output.
func Open(cfg config.RosterConfig, logger *logging.Logger) (Store, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	path := cfg.ResolvePath()
	logger = logger.WithRoster(path).With("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewJSONStore(path, logger), nil
	case config.BackendSQLite:
		return OpenSQLite(path, logger)
	default:
		return nil, fmt.Errorf("unknown roster backend %q (must be one of: json, sqlite)", cfg.Backend)
	}
}
