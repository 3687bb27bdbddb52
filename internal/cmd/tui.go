package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/photogolffrance/coupe-hdf-app/internal/store"
	"github.com/photogolffrance/coupe-hdf-app/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit the roster and run the selection interactively",
	Long: `Open the interactive roster editor.

Changes are kept in memory until saved with w. When another process
changes the roster file, the editor reloads it unless there are unsaved
changes.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return fmt.Errorf("the roster editor needs a terminal; use 'coupe list' and 'coupe select' instead")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := tui.Options{
		Store:    a.store,
		Selector: a.selector(),
		Config:   a.cfg.TUI,
		Logger:   a.logger,
	}

	_ = os.MkdirAll(filepath.Dir(a.store.Path()), 0755)
	watcher, err := store.NewWatcher(a.store.Path(), store.DefaultDebounce, a.logger)
	if err != nil {
		// The editor still works without live reload.
		a.logger.Warn("roster watcher unavailable", "error", err.Error())
	} else {
		defer func() { _ = watcher.Close() }()
		opts.Changes = watcher.Changes()
	}

	return tui.Run(cmd.Context(), opts)
}
