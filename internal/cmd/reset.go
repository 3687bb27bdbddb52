package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every player from the roster",
	Long: `Remove every player from the roster.

Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetYes bool

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if !resetYes {
		fmt.Fprintf(out, "Remove all %d players from %s? [y/N] ", len(players), a.store.Path())
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := a.store.Reset(ctx); err != nil {
		return err
	}
	a.logger.Info("roster reset", "removed", len(players))
	fmt.Fprintf(out, "Roster reset (%d players removed)\n", len(players))
	return nil
}
