// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides shared command execution functionality.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/janderssonse/pacsift/internal/platform"
)

// CommandRunner implements the CommandRunner port for real system commands.
type CommandRunner struct {
	logger *slog.Logger
}

// NewCommandRunner creates a new command runner. A nil logger discards output.
func NewCommandRunner(logger *slog.Logger) *CommandRunner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &CommandRunner{logger: logger}
}

// ExecuteWithOutput runs a command and returns its standard output. A non-zero
// exit is returned as a wrapped *exec.ExitError carrying stderr.
func (r *CommandRunner) ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error) {
	r.logger.DebugContext(ctx, "executing command", "cmd", name, "args", strings.Join(args, " "))

	// #nosec G204 - callers pass fixed binaries with package names as arguments
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), platform.GetProxyEnv()...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.DebugContext(ctx, "command exited",
				"cmd", name, "code", exitErr.ExitCode(), "stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}

		return string(output), fmt.Errorf("command %s failed: %w", name, err)
	}

	return string(output), nil
}

// Interactive builds a command for handing the terminal over to the user,
// for example a sudo password prompt followed by pacman's own output.
func (r *CommandRunner) Interactive(name string, args ...string) *exec.Cmd {
	r.logger.Info("handing terminal to command", "cmd", name, "args", strings.Join(args, " "))

	// #nosec G204 - see ExecuteWithOutput
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), platform.GetProxyEnv()...)

	return cmd
}

// CommandExists checks if a command is available on the system.
func (r *CommandRunner) CommandExists(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// ExitCode extracts the process exit status from an error returned by
// ExecuteWithOutput. It reports false when err is not an exit status.
func ExitCode(err error) (int, bool) {
	var exitErr exitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}

	return 0, false
}
