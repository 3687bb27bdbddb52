package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete coupe configuration
type Config struct {
	Selection SelectionConfig `mapstructure:"selection" yaml:"selection"`
	Roster    RosterConfig    `mapstructure:"roster" yaml:"roster"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	TUI       TUIConfig       `mapstructure:"tui" yaml:"tui"`
}

// SelectionConfig holds the team selection rules
type SelectionConfig struct {
	// TeamSize is the number of players in a team (default: 9)
	TeamSize int `mapstructure:"team_size" yaml:"team_size"`
	// Threshold is the minimum official combined index of a team (default: 84.4)
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	// AssimilationCeiling is the value high indices are counted at (default: 18.4)
	AssimilationCeiling float64 `mapstructure:"assimilation_ceiling" yaml:"assimilation_ceiling"`
	// MaxAssimilated is the maximum number of players counted at the ceiling (default: 2)
	MaxAssimilated int `mapstructure:"max_assimilated" yaml:"max_assimilated"`
	// MaxCandidates refuses searches enumerating more teams than this, 0 = no limit
	MaxCandidates int64 `mapstructure:"max_candidates" yaml:"max_candidates"`
}

// RosterConfig controls where the roster is stored
type RosterConfig struct {
	// Backend is the storage backend
	// Options: "json", "sqlite"
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path is the roster file. Empty means {ConfigDir}/roster.json (or roster.db)
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled turns on the debug log file (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum level written
	// Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the log directory. Empty means {ConfigDir}/logs
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// ConfirmReset asks before clearing the roster (default: true)
	ConfirmReset bool `mapstructure:"confirm_reset" yaml:"confirm_reset"`
	// NameWidth is the width of the name column (default: 24, min: 8, max: 64)
	NameWidth int `mapstructure:"name_width" yaml:"name_width"`
}

// Storage backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ResolvePath returns the roster file path.
// If Path is empty, it returns the default file for the backend in ConfigDir.
// If Path starts with ~, it expands to the user's home directory.
func (r *RosterConfig) ResolvePath() string {
	if r.Path == "" {
		name := "roster.json"
		if r.Backend == BackendSQLite {
			name = "roster.db"
		}
		return filepath.Join(ConfigDir(), name)
	}
	return expandHome(r.Path)
}

// ResolveDir returns the log directory, or "" when logging is disabled.
func (l *LoggingConfig) ResolveDir() string {
	if !l.Enabled {
		return ""
	}
	if l.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(l.Dir)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Selection: SelectionConfig{
			TeamSize:            9,
			Threshold:           84.4,
			AssimilationCeiling: 18.4,
			MaxAssimilated:      2,
			MaxCandidates:       100_000_000,
		},
		Roster: RosterConfig{
			Backend: BackendJSON,
			Path:    "", // Empty means use default: {ConfigDir}/roster.json
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		TUI: TUIConfig{
			ConfirmReset: true,
			NameWidth:    24,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Selection defaults
	viper.SetDefault("selection.team_size", defaults.Selection.TeamSize)
	viper.SetDefault("selection.threshold", defaults.Selection.Threshold)
	viper.SetDefault("selection.assimilation_ceiling", defaults.Selection.AssimilationCeiling)
	viper.SetDefault("selection.max_assimilated", defaults.Selection.MaxAssimilated)
	viper.SetDefault("selection.max_candidates", defaults.Selection.MaxCandidates)

	// Roster defaults
	viper.SetDefault("roster.backend", defaults.Roster.Backend)
	viper.SetDefault("roster.path", defaults.Roster.Path)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	// TUI defaults
	viper.SetDefault("tui.confirm_reset", defaults.TUI.ConfirmReset)
	viper.SetDefault("tui.name_width", defaults.TUI.NameWidth)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coupe")
	}
	// Fall back to ~/.config/coupe
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coupe"
	}
	return filepath.Join(home, ".config", "coupe")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidBackends returns the list of valid roster backends
func ValidBackends() []string {
	return []string{BackendJSON, BackendSQLite}
}

// IsValidBackend checks if the given backend is valid
func IsValidBackend(backend string) bool {
	for _, valid := range ValidBackends() {
		if backend == valid {
			return true
		}
	}
	return false
}
