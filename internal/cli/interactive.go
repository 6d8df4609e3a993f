// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/logging"
	corePlatform "github.com/janderssonse/pacsift/internal/platform"
	"github.com/janderssonse/pacsift/internal/tui"
	"github.com/urfave/cli/v3"
)

// runInteractive launches the TUI, searching for the arguments when given.
func (app *CLI) runInteractive(ctx context.Context, cmd *cli.Command) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	unlock, err := acquireLock(corePlatform.LockFile())
	if err != nil {
		if errors.Is(err, ErrLocked) {
			return domain.NewExitError(ExitGeneralError, "Another pacsift instance is already running", nil)
		}

		return domain.NewExitError(ExitGeneralError, "Failed to acquire process lock", err)
	}

	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			app.console.Warningf("failed to release process lock: %v", unlockErr)
		}
	}()

	level, _ := cfg.LogLevel()

	logger, closer, err := logging.New(logging.Options{Path: cfg.LogPath(), Level: level})
	if err != nil {
		return domain.NewExitError(ExitGeneralError, "Cannot open log file", err)
	}

	defer func() { _ = closer.Close() }()

	b, err := app.newBackend(cfg, logger)
	if err != nil {
		return err
	}

	defer b.controller.Close()

	logger.Info("starting interactive search", "version", getVersion(), "config", app.configPath)

	err = tui.Launch(ctx, tui.Options{
		Controller:  b.controller,
		Packages:    b.packages,
		Command:     b.runner.Interactive,
		Breakpoints: cfg.Breakpoints(),
		Query:       strings.Join(cmd.Args().Slice(), " "),
		Logger:      logger,
	})
	if err != nil {
		logger.Error("interactive search failed", "error", err)

		if app.verbose {
			return domain.NewExitError(ExitGeneralError, fmt.Sprintf("Failed to launch TUI: %v", err), nil)
		}

		return domain.NewExitError(ExitGeneralError, "Failed to launch interactive interface (terminal required)", nil)
	}

	return nil
}

// acquireLock takes the single-instance lock at path. The returned function
// releases it.
func acquireLock(path string) (func() error, error) {
	if err := corePlatform.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	if !locked {
		return nil, ErrLocked
	}

	return lock.Unlock, nil
}
