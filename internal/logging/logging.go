// Package logging provides slog helpers shared across the server.
//
// Log output always goes to stderr: in stdio mode stdout carries the wire
// protocol and must stay clean.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to stderr at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Nop returns a logger that discards all output.
// Use this when you want silent operation with no logging overhead.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
