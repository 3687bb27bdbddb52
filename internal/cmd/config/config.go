// Package config provides CLI commands for managing coupe configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	appconfig "github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify coupe configuration",
	Long: `View or modify coupe configuration.

Use 'config show' to display the configuration in effect.
Use subcommands to modify settings or create a config file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  coupe config set selection.threshold 84.4
  coupe config set roster.backend sqlite
  coupe config set logging.level debug

Valid keys:
  selection.team_size            - Number of players in the team
  selection.threshold            - Minimum official total index
  selection.assimilation_ceiling - Value high indices are counted at
  selection.max_assimilated      - How many indices may be capped
  selection.max_candidates       - Largest number of teams to evaluate (0 = no limit)
  roster.backend                 - Roster storage: json or sqlite
  roster.path                    - Roster file
  logging.enabled                - Write a debug log (true/false)
  logging.level                  - Log level: debug, info, warn, error
  logging.dir                    - Log directory
  tui.confirm_reset              - Ask before resetting the roster (true/false)
  tui.name_width                 - Width of the name column`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/coupe/config.yaml with all available options.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "selection:")
	fmt.Fprintf(out, "  team_size: %d\n", cfg.Selection.TeamSize)
	fmt.Fprintf(out, "  threshold: %v\n", cfg.Selection.Threshold)
	fmt.Fprintf(out, "  assimilation_ceiling: %v\n", cfg.Selection.AssimilationCeiling)
	fmt.Fprintf(out, "  max_assimilated: %d\n", cfg.Selection.MaxAssimilated)
	fmt.Fprintf(out, "  max_candidates: %d\n", cfg.Selection.MaxCandidates)

	fmt.Fprintln(out, "roster:")
	fmt.Fprintf(out, "  backend: %s\n", cfg.Roster.Backend)
	fmt.Fprintf(out, "  path: %s\n", cfg.Roster.ResolvePath())

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.ResolveDir())

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  confirm_reset: %v\n", cfg.TUI.ConfirmReset)
	fmt.Fprintf(out, "  name_width: %d\n", cfg.TUI.NameWidth)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"selection.team_size":            "int",
		"selection.threshold":            "float",
		"selection.assimilation_ceiling": "float",
		"selection.max_assimilated":      "int",
		"selection.max_candidates":       "int",
		"roster.backend":                 "backend",
		"roster.path":                    "string",
		"logging.enabled":                "bool",
		"logging.level":                  "level",
		"logging.dir":                    "string",
		"tui.confirm_reset":              "bool",
		"tui.name_width":                 "int",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'coupe config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "backend":
		if !appconfig.IsValidBackend(value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidBackends(), ", "))
		}
		typedValue = value
	case "level":
		if !slices.Contains(appconfig.ValidLogLevels(), strings.ToLower(value)) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		typedValue = strings.ToLower(value)
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	case "float":
		f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected a number", key)
		}
		typedValue = f
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = appconfig.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	// Refuse to write a file the next run could not load
	if _, err := appconfig.Load(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)

	return nil
}

// defaultConfigContent is written by 'config init'.
const defaultConfigContent = `# Coupe Configuration

# Team selection rules
selection:
  # Number of players in the team
  team_size: 9
  # Minimum official total index the team must reach
  threshold: 84.4
  # Indices above this value may be counted at this value
  assimilation_ceiling: 18.4
  # How many indices may be capped
  max_assimilated: 2
  # Largest number of teams evaluated before giving up (0 = no limit)
  max_candidates: 100000000

# Roster storage
roster:
  # Backend: json or sqlite
  backend: json
  # Roster file (default: roster.json or roster.db next to this file)
  path: ""

# Debug log
logging:
  enabled: true
  # Level: debug, info, warn, error
  level: info
  # Log directory (default: logs/ next to this file)
  dir: ""

# Terminal UI
tui:
  # Ask before resetting the roster
  confirm_reset: true
  # Width of the name column
  name_width: 24
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := appconfig.ConfigDir()
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'coupe config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to change the selection rules or the roster location.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/coupe/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: COUPE_* (e.g., COUPE_SELECTION_THRESHOLD)")

	return nil
}
