// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console writes human-facing status messages to stderr and
// answers terminal questions for the CLI.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputState holds global output configuration.
type OutputState struct {
	Verbose bool
	Quiet   bool
	// Structured is set when stdout carries JSON or YAML, so stderr stays plain.
	Structured bool

	stderr io.Writer
}

// DefaultOutput provides output formatting utilities.
var DefaultOutput = &OutputState{} //nolint:gochecknoglobals

// NewOutputState creates an output state writing messages to stderr.
func NewOutputState(stderr io.Writer) *OutputState {
	return &OutputState{stderr: stderr}
}

// SetMode configures output mode.
func (o *OutputState) SetMode(verbose, quiet, structured bool) {
	o.Verbose = verbose
	o.Quiet = quiet
	o.Structured = structured
}

// IsTTY checks if output is going to a terminal (not piped/redirected).
func (o *OutputState) IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd)) //nolint:gosec // file descriptors fit in int
}

// TerminalWidth returns the width of the terminal on fd, or fallback when
// fd is not a terminal.
func (o *OutputState) TerminalWidth(fd uintptr, fallback int) int {
	if !o.IsTTY(fd) {
		return fallback
	}

	width, _, err := term.GetSize(int(fd)) //nolint:gosec // file descriptors fit in int
	if err != nil || width <= 0 {
		return fallback
	}

	return width
}

// Bold formats text with bold when in TTY, uppercase when piped.
func (o *OutputState) Bold(text string) string {
	if o.Structured {
		return text
	}

	// Check no-color.org standards
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return text
	}

	if o.IsTTY(os.Stdout.Fd()) {
		return "\033[1m" + text + "\033[0m" // ANSI bold
	}

	// Fallback for pipes/redirects - use uppercase
	return strings.ToUpper(text)
}

// Progressf writes progress messages to stderr (only if verbose).
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.Quiet {
		o.printf(format+"\n", args...)
	}
}

// Successf writes success messages to stderr (suppressed by quiet).
func (o *OutputState) Successf(format string, args ...any) {
	if !o.Quiet {
		o.printf("✓ "+format+"\n", args...)
	}
}

// Warningf writes warning messages to stderr (suppressed by quiet).
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Quiet {
		return
	}

	if o.Structured {
		o.printf("warning: "+format+"\n", args...)
	} else {
		o.printf("⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages to stderr (always visible).
func (o *OutputState) Errorf(format string, args ...any) {
	if o.Structured {
		o.printf("error: "+format+"\n", args...)
	} else {
		o.printf("✗ "+format+"\n", args...)
	}
}

// Printf writes an unadorned message to stderr (always visible).
func (o *OutputState) Printf(format string, args ...any) {
	o.printf(format, args...)
}

func (o *OutputState) printf(format string, args ...any) {
	w := o.stderr
	if w == nil {
		w = os.Stderr
	}

	_, _ = fmt.Fprintf(w, format, args...)
}
