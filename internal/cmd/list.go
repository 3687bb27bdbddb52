package cmd

import (
	"fmt"
	"io"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
	"github.com/photogolffrance/coupe-hdf-app/internal/util"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the players in the roster",
	Long: `List the players in the roster, in saved order.

Use --sort to order by name or index, and --save to keep that order.
Use --match to filter names with a glob pattern (case-insensitive).

Examples:
  coupe list --sort index
  coupe list --match "du*"
  coupe list --sort name --save`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listSort  string
	listMatch string
	listSave  bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by name or index")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only show names matching a glob pattern")
	listCmd.Flags().BoolVar(&listSave, "save", false, "Save the sorted order to the roster")
}

func runList(cmd *cobra.Command, args []string) error {
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

	switch listSort {
	case "":
	case "name":
		players = roster.SortByName(players)
	case "index":
		players = roster.SortByIndex(players)
	default:
		return errors.NewValidationError("sort must be name or index").WithField("sort").WithValue(listSort)
	}
	if listSave {
		if listSort == "" {
			return errors.NewValidationError("--save needs --sort")
		}
		if err := a.store.Save(ctx, players); err != nil {
			return err
		}
	}

	shown, err := roster.Match(players, listMatch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(shown) == 0 {
		fmt.Fprintln(out, "No players.")
		return nil
	}
	printPlayers(out, shown, a.cfg.TUI.NameWidth)
	fmt.Fprintf(out, "\n%d players, %d available, %d captain's picks\n",
		len(shown), len(roster.Available(shown)), len(roster.CaptainPicks(shown)))
	return nil
}

func printPlayers(w io.Writer, players []roster.Player, nameWidth int) {
	fmt.Fprintf(w, "%-8s  %s  %6s\n", "ID", util.PadRight("NAME", nameWidth), "INDEX")
	for _, p := range players {
		fmt.Fprintf(w, "%-8s  %s  %6s  %s\n",
			shortID(p.ID), util.PadRight(util.TruncateString(p.Name, nameWidth), nameWidth), formatIndex(p.Index), flags(p))
	}
}

func flags(p roster.Player) string {
	s := "✅"
	if !p.Available {
		s = "❌"
	}
	if p.CaptainPick {
		s += " ★"
	}
	return s
}

func describe(p roster.Player) string {
	return fmt.Sprintf("%s (index %s, %s) [%s]", p.Name, formatIndex(p.Index), flags(p), shortID(p.ID))
}

func formatIndex(v float64) string {
	return selection.FormatIndex(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
