// Package errors provides centralized error definitions and error handling utilities
// for coupe. It defines domain-specific errors, semantic error types, error
// constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - SelectionError: a roster cannot produce a team (guard checks of the selector)
//   - RosterError: loading or saving the roster failed
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a player or resource was not found
//   - ValidationError: invalid input
//
// # Usage
//
//	err := errors.NewSelectionError("fewer than 9 available players", errors.ErrInsufficientAvailablePlayers).
//		WithAvailable(7).WithTeamSize(9)
//
//	if errors.Is(err, errors.ErrInsufficientAvailablePlayers) { ... }
//
//	var selErr *errors.SelectionError
//	if errors.As(err, &selErr) { ... }
//
//	if errors.IsUserFacing(err) { fmt.Println(errors.UserMessage(err)) }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Selection-related sentinel errors
var (
	// ErrInsufficientAvailablePlayers indicates fewer available players than the team size.
	ErrInsufficientAvailablePlayers = New("insufficient available players")
	// ErrTooManyCaptainPicks indicates more available captain's picks than team slots.
	ErrTooManyCaptainPicks = New("too many captain's picks")
	// ErrSearchTooLarge indicates the number of candidate teams exceeds the configured limit.
	ErrSearchTooLarge = New("candidate search too large")
)

// Roster-related sentinel errors
var (
	// ErrPlayerNotFound indicates that a player could not be found in the roster.
	ErrPlayerNotFound = New("player not found")
	// ErrRosterCorrupted indicates that persisted roster data could not be decoded.
	ErrRosterCorrupted = New("roster data corrupted")
	// ErrRosterLocked indicates that the roster file is locked by another process.
	ErrRosterLocked = New("roster is locked")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrOperationFailed indicates a general operation failure.
	ErrOperationFailed = New("operation failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// CoupeError is the base interface for all coupe errors.
type CoupeError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed when retried
	// without changing its input.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// Message returns the message without cause or context decoration.
func (e *baseError) Message() string {
	return e.message
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SelectionError is returned when a roster cannot produce a team.
// Both guard failures are terminal for the call: the caller has to change the
// roster and try again.
//
// Example:
//
//	err := errors.NewSelectionError("too many captain's picks (max 9)", errors.ErrTooManyCaptainPicks)
//	err = err.WithCaptainPicks(11).WithTeamSize(9)
//	fmt.Println(err) // "selection error [picks=11, team=9]: too many captain's picks (max 9): too many captain's picks"
type SelectionError struct {
	baseError
	Available    int
	CaptainPicks int
	TeamSize     int
}

// NewSelectionError creates a new SelectionError.
func NewSelectionError(message string, cause error) *SelectionError {
	return &SelectionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Available:    -1,
		CaptainPicks: -1,
	}
}

// WithAvailable records the number of available players.
func (e *SelectionError) WithAvailable(n int) *SelectionError {
	e.Available = n
	return e
}

// WithCaptainPicks records the number of available captain's picks.
func (e *SelectionError) WithCaptainPicks(n int) *SelectionError {
	e.CaptainPicks = n
	return e
}

// WithTeamSize records the team size in effect.
func (e *SelectionError) WithTeamSize(n int) *SelectionError {
	e.TeamSize = n
	return e
}

// Error returns the formatted error message.
func (e *SelectionError) Error() string {
	var parts []string
	if e.Available >= 0 {
		parts = append(parts, fmt.Sprintf("available=%d", e.Available))
	}
	if e.CaptainPicks >= 0 {
		parts = append(parts, fmt.Sprintf("picks=%d", e.CaptainPicks))
	}
	if e.TeamSize > 0 {
		parts = append(parts, fmt.Sprintf("team=%d", e.TeamSize))
	}

	prefix := "selection error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("selection error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SelectionError) Is(target error) bool {
	if _, ok := target.(*SelectionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// RosterError represents failures of the roster store.
//
// Example:
//
//	err := errors.NewRosterError("failed to save roster", cause).WithPath("/tmp/roster.json").WithBackend("json")
type RosterError struct {
	baseError
	Path    string
	Backend string
}

// NewRosterError creates a new RosterError.
func NewRosterError(message string, cause error) *RosterError {
	return &RosterError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithPath adds the roster location to the error context.
func (e *RosterError) WithPath(path string) *RosterError {
	e.Path = path
	return e
}

// WithBackend adds the store backend name to the error context.
func (e *RosterError) WithBackend(backend string) *RosterError {
	e.Backend = backend
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *RosterError) WithRetryable(r bool) *RosterError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *RosterError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, fmt.Sprintf("backend=%s", e.Backend))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := "roster error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("roster error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *RosterError) Is(target error) bool {
	if _, ok := target.(*RosterError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a resource was not found.
//
// Example:
//
//	err := errors.NewNotFoundError("player", "Dupont")
//	fmt.Println(err) // "player not found: Dupont"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s not found", resourceType),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
	}
	return fmt.Sprintf("%s not found", e.ResourceType)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrPlayerNotFound && e.ResourceType == "player" {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError indicates invalid input.
//
// Example:
//
//	err := errors.NewValidationError("name must not be empty").WithField("name")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			cause:      ErrInvalidInput,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField sets the field that failed validation.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue sets the invalid value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation error")
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" [field=%s]", e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.message)
	if e.Value != nil {
		sb.WriteString(fmt.Sprintf(" (got: %v)", e.Value))
	}
	return sb.String()
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether any error in the chain is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ce CoupeError
	if As(err, &ce) {
		return ce.IsRetryable()
	}
	return Is(err, ErrRosterLocked)
}

// IsUserFacing reports whether the error's message is safe to show as-is.
// Plain errors are never user-facing.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var ce CoupeError
	if As(err, &ce) {
		return ce.IsUserFacing()
	}
	return false
}

// UserMessage returns the undecorated message of the first user-facing error in
// the chain, or err.Error() when there is none.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var nf *NotFoundError
	if As(err, &nf) {
		return nf.Error()
	}
	var m interface{ Message() string }
	if IsUserFacing(err) && As(err, &m) {
		return m.Message()
	}
	return err.Error()
}

// GetSeverity returns the severity of the error, SeverityError for plain errors.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var ce CoupeError
	if As(err, &ce) {
		return ce.Severity()
	}
	return SeverityError
}

// IsDomainError reports whether err is a SelectionError or RosterError.
func IsDomainError(err error) bool {
	var selErr *SelectionError
	var rosErr *RosterError
	return As(err, &selErr) || As(err, &rosErr)
}

// -----------------------------------------------------------------------------
// Wrapping
// -----------------------------------------------------------------------------

// Wrap adds context to an error. Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
