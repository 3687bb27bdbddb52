package cmd

import (
	"fmt"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Change a player's name, index, availability or captain's pick",
	Long: `Change a player in the roster.

The player is found by ID, by name (case-insensitive) or by an ID prefix
of at least four characters. Only the given flags are changed.

Examples:
  coupe edit "Jean Dupont" --index 11.9
  coupe edit 3f2a --available=false
  coupe edit Martin --captain=false --name "Paul Martin"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editName      string
	editIndex     string
	editAvailable bool
	editCaptain   bool
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVar(&editIndex, "index", "", "New index")
	editCmd.Flags().BoolVar(&editAvailable, "available", true, "Whether the player is available")
	editCmd.Flags().BoolVar(&editCaptain, "captain", false, "Whether the player is a captain's pick")
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("index") && !flags.Changed("available") && !flags.Changed("captain") {
		return errors.NewValidationError("nothing to change: use --name, --index, --available or --captain")
	}

	var index float64
	if flags.Changed("index") {
		v, err := roster.ParseIndex(editIndex)
		if err != nil {
			return err
		}
		index = v
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
	i, err := roster.Lookup(players, args[0])
	if err != nil {
		return err
	}

	id := players[i].ID
	players, err = roster.Update(players, id, func(p *roster.Player) {
		if flags.Changed("name") {
			p.Name = editName
		}
		if flags.Changed("index") {
			p.Index = index
		}
		if flags.Changed("available") {
			p.Available = editAvailable
		}
		if flags.Changed("captain") {
			p.CaptainPick = editCaptain
		}
	})
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, players); err != nil {
		return err
	}

	i, _ = roster.Find(players, id)
	a.logger.Info("player updated", "player_id", id)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", describe(players[i]))
	return nil
}
