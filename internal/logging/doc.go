// Package logging provides structured logging for coupe.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation. Logs are written to a debug.log file in the configured
// log directory so that they never interleave with command output.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("roster loaded", "players", 14)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	cmdLogger := logger.WithCommand("select").WithRoster("/home/me/.config/coupe/roster.json")
//	cmdLogger.Debug("candidates evaluated", "count", 9)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"candidates evaluated","command":"select","roster":"/home/me/.config/coupe/roster.json","count":9}
//
// # Thread Safety
//
// All types in this package are safe for concurrent use.
package logging
