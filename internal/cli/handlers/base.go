// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package handlers implements CLI command execution logic.
package handlers

import (
	"io"
	"os"

	cliAdapter "github.com/janderssonse/pacsift/internal/adapters/cli"
	"github.com/janderssonse/pacsift/internal/console"
	"github.com/janderssonse/pacsift/internal/domain"
)

// BaseHandler provides common functionality for all command handlers.
type BaseHandler struct {
	Verbose bool
	Quiet   bool
	Output  domain.OutputPort
	Console *console.OutputState
}

// NewBaseHandler creates a new base handler with the given configuration.
func NewBaseHandler(verbose, quiet bool, output domain.OutputPort, messages *console.OutputState) *BaseHandler {
	return &BaseHandler{
		Verbose: verbose,
		Quiet:   quiet,
		Output:  output,
		Console: messages,
	}
}

// GetOutput returns the output port for CLI rendering.
func (h *BaseHandler) GetOutput() domain.OutputPort {
	if h.Output == nil {
		h.Output = cliAdapter.NewOutputAdapter(cliAdapter.TextFormat, h.Quiet)
	}

	return h.Output
}

// GetConsole returns the stderr message writer.
func (h *BaseHandler) GetConsole() *console.OutputState {
	if h.Console == nil {
		h.Console = console.NewOutputState(os.Stderr)
		h.Console.SetMode(h.Verbose, h.Quiet, false)
	}

	return h.Console
}

// Writer returns where rendered text goes.
func (h *BaseHandler) Writer() io.Writer {
	if adapter, ok := h.GetOutput().(*cliAdapter.OutputAdapter); ok {
		return adapter.Writer()
	}

	return os.Stdout
}
