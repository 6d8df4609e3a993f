// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package logging sets up the structured logger. The TUI owns the terminal,
// so records go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/janderssonse/pacsift/internal/platform"
)

// Options configures the logger.
type Options struct {
	// Path is the log file. Empty writes to Output instead.
	Path  string
	Level slog.Level
	// Output is used when Path is empty. Nil discards records.
	Output io.Writer
}

// New builds a text logger and returns a closer for the underlying file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	output := opts.Output
	var closer io.Closer = nopCloser{}

	if opts.Path != "" {
		if err := platform.EnsureDir(filepath.Dir(opts.Path)); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		output = file
		closer = file
	}

	if output == nil {
		return Discard(), closer, nil
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: opts.Level})

	return slog.New(handler).With("pid", os.Getpid()), closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
