package cmd

import (
	"fmt"
	"os"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import players from a JSON file",
	Long: `Import players from a JSON file.

Both the native roster format and the older format using the keys
nom, index, dispo and capitaine are accepted. Imported players are
appended to the roster unless --replace is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importReplace bool

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the roster instead of appending")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	imported, skipped, err := roster.DecodeRows(data)
	if err != nil {
		return errors.Wrapf(err, "import %s", args[0])
	}
	if len(imported) == 0 && len(skipped) > 0 {
		return errors.Wrapf(skipped[0], "import %s: no valid players", args[0])
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	players := roster.Reset()
	if !importReplace {
		players, err = a.store.Load(ctx)
		if err != nil {
			return err
		}
	}
	for _, p := range imported {
		// IDs from another roster may collide with ours.
		if _, dup := roster.Find(players, p.ID); dup {
			p.ID = roster.NewID()
		}
		if players, err = roster.Add(players, p); err != nil {
			return err
		}
	}
	if err := a.store.Save(ctx, players); err != nil {
		return err
	}

	a.logger.Info("roster imported", "file", args[0], "imported", len(imported), "skipped", len(skipped), "replace", importReplace)
	out := cmd.OutOrStdout()
	for _, row := range skipped {
		fmt.Fprintf(out, "Skipped %v\n", row)
	}
	fmt.Fprintf(out, "Imported %d players (%d in roster)\n", len(imported), len(players))
	return nil
}
