// Package logging sets up the indexer's structured logger: a JSONHandler
// by default for library callers, with the CLI swapping in a TextHandler
// at its own edge, mirroring the teacher's library/CLI split between
// error-returning internals and a printing command layer.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON-structured logger writing to w (stderr if nil).
func New(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// NewText returns a human-readable text logger, used at the CLI edge.
func NewText(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
