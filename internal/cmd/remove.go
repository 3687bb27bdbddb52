package cmd

import (
	"fmt"

	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id|name>",
	Aliases: []string{"rm"},
	Short:   "Remove a player from the roster",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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
	i, err := roster.Lookup(players, args[0])
	if err != nil {
		return err
	}
	removed := players[i]

	players, err = roster.Remove(players, removed.ID)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, players); err != nil {
		return err
	}

	a.logger.Info("player removed", "player_id", removed.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed.Name)
	return nil
}
