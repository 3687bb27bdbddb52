package cmd

import (
	"fmt"

	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <index>",
	Short: "Add a player to the roster",
	Long: `Add a player to the roster.

The index accepts a decimal point or a decimal comma. New players are
available and not a captain's pick unless told otherwise.

Examples:
  coupe add "Jean Dupont" 12.4
  coupe add Martin 8,7 --captain
  coupe add Bernard 21 --unavailable`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var (
	addUnavailable bool
	addCaptain     bool
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().BoolVar(&addUnavailable, "unavailable", false, "Mark the player as unavailable")
	addCmd.Flags().BoolVar(&addCaptain, "captain", false, "Mark the player as a captain's pick")
}

func runAdd(cmd *cobra.Command, args []string) error {
	index, err := roster.ParseIndex(args[1])
	if err != nil {
		return err
	}
	p, err := roster.New(args[0], index, !addUnavailable, addCaptain)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	players, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	players, err = roster.Add(players, p)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, players); err != nil {
		return err
	}

	a.logger.Info("player added", "player_id", p.ID, "index", p.Index)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (index %s) [%s]\n", p.Name, formatIndex(p.Index), shortID(p.ID))
	return nil
}
