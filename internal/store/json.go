package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/filelock"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

// JSONStore keeps the roster in a single JSON file.
type JSONStore struct {
	path   string
	logger *logging.Logger
}

// NewJSONStore creates a store for the file at path. Nothing is read or
// created until the first Load or Save.
func NewJSONStore(path string, logger *logging.Logger) *JSONStore {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &JSONStore{path: path, logger: logger}
}

// Path returns the roster file path.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) rosterError(msg string, err error) *errors.RosterError {
	return errors.NewRosterError(msg, err).WithBackend("json").WithPath(s.path)
}

// Load reads the roster file. A missing file yields an empty roster. Invalid
// players are skipped with a warning each. A file that cannot be decoded at
// all yields an empty roster, after its content is copied to BackupPath so
// that the next Save does not destroy it.
func (s *JSONStore) Load(ctx context.Context) ([]roster.Player, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.logger.Debug("roster file not found, starting empty")
		return roster.Reset(), nil
	}

	fl := filelock.New(s.path)
	if err := fl.LockContext(ctx); err != nil {
		return nil, s.rosterError("failed to lock roster", err).WithRetryable(true)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return roster.Reset(), nil
		}
		return nil, s.rosterError("failed to read roster", err)
	}

	players, skipped, err := roster.DecodeRows(data)
	if err != nil {
		backup := s.BackupPath()
		if werr := os.WriteFile(backup, data, 0644); werr != nil {
			return nil, s.rosterError("failed to back up corrupted roster", werr)
		}
		s.logger.Warn("roster file is corrupted, starting empty", "error", err.Error(), "backup", backup)
		return roster.Reset(), nil
	}
	for _, row := range skipped {
		s.logger.Warn("skipping invalid player", "row", row.Row, "error", row.Err.Error())
	}

	s.logger.Debug("roster loaded", "players", len(players))
	return players, nil
}

// BackupPath is where Load copies a roster file it cannot decode.
func (s *JSONStore) BackupPath() string {
	return s.path + ".bak"
}

// Save writes the roster atomically: data goes to a temporary file that is
// then renamed into place. The file lock is held for the whole operation.
func (s *JSONStore) Save(ctx context.Context, players []roster.Player) error {
	data, err := roster.Encode(roster.EnsureIDs(players))
	if err != nil {
		return s.rosterError("failed to encode roster", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return s.rosterError("failed to create roster directory", err)
	}

	fl := filelock.New(s.path)
	if err := fl.LockContext(ctx); err != nil {
		return s.rosterError("failed to lock roster", err).WithRetryable(true)
	}
	defer func() { _ = fl.Unlock() }()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return s.rosterError("failed to write temp file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return s.rosterError("failed to rename temp file", err)
	}

	s.logger.Info("roster saved", "players", len(players))
	return nil
}

// Reset replaces the roster with an empty one.
func (s *JSONStore) Reset(ctx context.Context) error {
	return s.Save(ctx, roster.Reset())
}

// Close is a no-op; the JSON store holds no open resources between calls.
func (s *JSONStore) Close() error {
	return nil
}
