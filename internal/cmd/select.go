package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the team from the available players",
	Long: `Select the team from the available players.

The team includes every available captain's pick and has the lowest
official total index that still reaches the minimum. When no such team
exists, the players with the lowest indices are shown instead.

Examples:
  coupe select
  coupe select --format json --output team.json`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

var (
	selectFormat string
	selectOutput string
)

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().StringVarP(&selectFormat, "format", "f", "text", "Output format: text, json or yaml")
	selectCmd.Flags().StringVarP(&selectOutput, "output", "o", "", "Write the result to a file instead of stdout")
}

func runSelect(cmd *cobra.Command, args []string) error {
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

	res, err := a.selector().Select(ctx, players)
	if err != nil {
		return err
	}

	data, err := renderResult(res, selectFormat)
	if err != nil {
		return err
	}

	if selectOutput != "" {
		if err := os.WriteFile(selectOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", selectOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Selection written to %s\n", selectOutput)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func renderResult(res *selection.Result, format string) ([]byte, error) {
	switch format {
	case "text", "":
		return []byte(selection.FormatReport(res) + "\n"), nil
	case "json":
		data, err := json.MarshalIndent(selection.NewReport(res), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(selection.NewReport(res))
	default:
		return nil, errors.NewValidationError("format must be text, json or yaml").WithField("format").WithValue(format)
	}
}
