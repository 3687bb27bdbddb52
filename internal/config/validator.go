package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "selection.team_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Bounds for the TUI name column
const (
	MinNameWidth = 8
	MaxNameWidth = 64
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSelection()...)
	errors = append(errors, c.validateRoster()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

// validateSelection validates the SelectionConfig
func (c *Config) validateSelection() []ValidationError {
	var errors []ValidationError
	s := c.Selection

	if s.TeamSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "selection.team_size",
			Value:   s.TeamSize,
			Message: "must be at least 1",
		})
	}

	if !isFinite(s.Threshold) {
		errors = append(errors, ValidationError{
			Field:   "selection.threshold",
			Value:   s.Threshold,
			Message: "must be a finite number",
		})
	}

	if !isFinite(s.AssimilationCeiling) {
		errors = append(errors, ValidationError{
			Field:   "selection.assimilation_ceiling",
			Value:   s.AssimilationCeiling,
			Message: "must be a finite number",
		})
	}

	if s.MaxAssimilated < 0 {
		errors = append(errors, ValidationError{
			Field:   "selection.max_assimilated",
			Value:   s.MaxAssimilated,
			Message: "must be non-negative",
		})
	} else if s.TeamSize >= 1 && s.MaxAssimilated > s.TeamSize {
		errors = append(errors, ValidationError{
			Field:   "selection.max_assimilated",
			Value:   s.MaxAssimilated,
			Message: fmt.Sprintf("must not exceed selection.team_size (%d)", s.TeamSize),
		})
	}

	if s.MaxCandidates < 0 {
		errors = append(errors, ValidationError{
			Field:   "selection.max_candidates",
			Value:   s.MaxCandidates,
			Message: "must be non-negative (0 disables the limit)",
		})
	}

	return errors
}

// validateRoster validates the RosterConfig
func (c *Config) validateRoster() []ValidationError {
	var errors []ValidationError

	if !IsValidBackend(c.Roster.Backend) {
		errors = append(errors, ValidationError{
			Field:   "roster.backend",
			Value:   c.Roster.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if strings.ContainsRune(c.Roster.Path, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "roster.path",
			Value:   c.Roster.Path,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.NameWidth < MinNameWidth || c.TUI.NameWidth > MaxNameWidth {
		errors = append(errors, ValidationError{
			Field:   "tui.name_width",
			Value:   c.TUI.NameWidth,
			Message: fmt.Sprintf("must be between %d and %d", MinNameWidth, MaxNameWidth),
		})
	}

	return errors
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
