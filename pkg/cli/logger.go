package cli

import (
	"io"

	"github.com/chainguard-dev/clog"
	charmlog "github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w. Only warnings and errors are shown
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) *clog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}

	return clog.New(charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: verbose,
		Level:           level,
	}))
}
