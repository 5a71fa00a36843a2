package ggedit

import (
	"log/slog"

	"github.com/gogpu/ggedit/internal/logging"
)

// SetLogger configures the logger for ggedit and all its sub-packages.
// By default, ggedit produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by ggedit:
//   - [slog.LevelDebug]: internal diagnostics (buffer creation, skipped
//     layers, snapshot sharing)
//   - [slog.LevelInfo]: lifecycle events (document resize)
//   - [slog.LevelWarn]: non-fatal issues (decode failures, broken layer
//     order, incomplete restores)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	ggedit.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	ggedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by ggedit.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
