package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

const createPlayersTable = `CREATE TABLE IF NOT EXISTS players (
	id             TEXT PRIMARY KEY,
	position       INTEGER NOT NULL,
	name           TEXT NOT NULL,
	handicap_index REAL NOT NULL,
	available      INTEGER NOT NULL DEFAULT 0,
	captain_pick   INTEGER NOT NULL DEFAULT 0
)`

// SQLiteStore keeps the roster in a SQLite database, one row per player.
type SQLiteStore struct {
	path   string
	db     *sql.DB
	logger *logging.Logger
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// players table exists.
func OpenSQLite(path string, logger *logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	s := &SQLiteStore{path: path, logger: logger}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, s.rosterError("failed to create roster directory", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, s.rosterError("failed to open database", err)
	}
	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, s.rosterError("failed to ping database", err)
	}
	if _, err := db.Exec(createPlayersTable); err != nil {
		_ = db.Close()
		return nil, s.rosterError("failed to create players table", err)
	}

	s.db = db
	logger.Debug("database opened")
	return s, nil
}

func (s *SQLiteStore) rosterError(msg string, err error) *errors.RosterError {
	return errors.NewRosterError(msg, err).WithBackend("sqlite").WithPath(s.path)
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Load returns every player ordered by saved position.
func (s *SQLiteStore) Load(ctx context.Context) ([]roster.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, handicap_index, available, captain_pick FROM players ORDER BY position`)
	if err != nil {
		return nil, s.rosterError("failed to query players", err)
	}
	defer rows.Close()

	players := roster.Reset()
	for rows.Next() {
		var p roster.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Index, &p.Available, &p.CaptainPick); err != nil {
			return nil, s.rosterError("failed to scan player", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.rosterError("failed to read players", err)
	}

	s.logger.Debug("roster loaded", "players", len(players))
	return players, nil
}

// Save replaces all rows in a single transaction, keeping roster order.
func (s *SQLiteStore) Save(ctx context.Context, players []roster.Player) error {
	players = roster.EnsureIDs(players)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.rosterError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return s.rosterError("failed to clear players", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO players (id, position, name, handicap_index, available, captain_pick) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return s.rosterError("failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, p := range players {
		if _, err := stmt.ExecContext(ctx, p.ID, i, p.Name, p.Index, p.Available, p.CaptainPick); err != nil {
			return s.rosterError("failed to insert player", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.rosterError("failed to commit roster", err)
	}

	s.logger.Info("roster saved", "players", len(players))
	return nil
}

// Reset deletes every player.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return s.rosterError("failed to reset roster", err)
	}
	s.logger.Info("roster reset")
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
