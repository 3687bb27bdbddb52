package cmd

import (
	"fmt"

	"github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
	"github.com/photogolffrance/coupe-hdf-app/internal/store"
	"github.com/spf13/cobra"
)

// app bundles what a command needs to work on the roster.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	store  store.Store
}

// openApp loads the configuration, opens the log file and the roster store.
// Callers must Close the returned app.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
	}
	logger = logger.WithCommand(cmd.Name())

	st, err := store.Open(cfg.Roster, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) selector() *selection.Selector {
	return selection.NewSelector(selection.RulesFromConfig(a.cfg.Selection), selection.WithLogger(a.logger))
}

// Close releases the store and the log file.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close roster store", "error", err.Error())
	}
	_ = a.logger.Close()
}
