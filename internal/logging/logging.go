// internal/logging/logging.go
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger for run diagnostics. Debug lowers the level
// so per-unit detail shows up.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
