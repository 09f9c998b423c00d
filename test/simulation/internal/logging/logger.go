// Package logging builds the runner's structured logger.
package logging

import (
	"io"

	gridlog "github.com/arloliu/boidgrid/internal/logging"
	"github.com/arloliu/boidgrid/types"
)

// New creates a key=value logger tagged with the run identity.
//
// Parameters:
//   - w: Destination writer (os.Stderr when nil)
//   - level: Level name ("debug", "info", "warn", "error")
//   - runID: Identifier attached to every record as "run"
//
// Returns:
//   - types.Logger: Logger for the runner and the coordinator
func New(w io.Writer, level string, runID string) types.Logger {
	return gridlog.NewSlogText(w, level).With("run", runID)
}

// Component returns a logger that also tags records with a component name.
// Loggers other than the one returned by New are returned unchanged.
func Component(logger types.Logger, name string) types.Logger {
	if l, ok := logger.(*gridlog.SlogLogger); ok {
		return l.With("component", name)
	}

	return logger
}
