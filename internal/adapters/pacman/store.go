// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package pacman answers install-state questions from the local pacman
// database and builds the commands that change it.
package pacman

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/janderssonse/pacsift/internal/adapters/platform"
	"github.com/janderssonse/pacsift/internal/domain"
)

// AURHelpers are tried in order when no helper is configured.
var AURHelpers = []string{"paru", "yay"} //nolint:gochecknoglobals

var (
	// ErrNoAURHelper is returned when an AUR package needs a helper and none is available.
	ErrNoAURHelper = errors.New("no AUR helper found (install paru or yay, or set [pacman] aur_helper)")
	// ErrInvalidName is returned for names pacman would read as options.
	ErrInvalidName = errors.New("invalid package name")
)

// notInstalledExit is pacman's exit status for "package was not found".
const notInstalledExit = 1

// Options configures the store.
type Options struct {
	Binary    string // pacman binary, "pacman" when empty
	AURHelper string // empty picks the first available of AURHelpers
}

// Store implements domain.LocalInstallStore with pacman -Q.
type Store struct {
	runner    domain.CommandRunner
	binary    string
	aurHelper string
}

// NewStore creates a store running commands through runner.
func NewStore(runner domain.CommandRunner, opts Options) *Store {
	binary := opts.Binary
	if binary == "" {
		binary = "pacman"
	}

	return &Store{
		runner:    runner,
		binary:    binary,
		aurHelper: opts.AURHelper,
	}
}

// IsInstalled reports whether name is in the local database. Exit status 1
// means not installed; any other failure is returned as a lookup error.
func (s *Store) IsInstalled(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	output, err := s.runner.ExecuteWithOutput(ctx, s.binary, "-Q", name)
	if err != nil {
		if code, ok := platform.ExitCode(err); ok && code == notInstalledExit && ctx.Err() == nil {
			return false, nil
		}

		return false, fmt.Errorf("%w: %s: %w", domain.ErrLookup, name, err)
	}

	// "-Q name" also matches a package providing name; require the exact one.
	fields := strings.Fields(output)

	return len(fields) > 0 && fields[0] == name, nil
}

// Command is a program invocation that needs the terminal.
type Command struct {
	Name string
	Args []string
}

// String renders the command line for display.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// InstallCommand builds the command installing pkg. Official packages go
// through sudo pacman; AUR packages through the AUR helper, which escalates
// on its own.
func (s *Store) InstallCommand(pkg domain.PackageResult) (Command, error) {
	if err := validateName(pkg.Name); err != nil {
		return Command{}, err
	}

	if pkg.Repository == domain.RepoAUR {
		helper, err := s.helper()
		if err != nil {
			return Command{}, err
		}

		return Command{Name: helper, Args: []string{"-S", pkg.Name}}, nil
	}

	return Command{Name: "sudo", Args: []string{s.binary, "-S", pkg.Name}}, nil
}

// RemoveCommand builds the command removing pkg and its unneeded dependencies.
func (s *Store) RemoveCommand(pkg domain.PackageResult) (Command, error) {
	if err := validateName(pkg.Name); err != nil {
		return Command{}, err
	}

	return Command{Name: "sudo", Args: []string{s.binary, "-Rs", pkg.Name}}, nil
}

func (s *Store) helper() (string, error) {
	if s.aurHelper != "" {
		if !s.runner.CommandExists(s.aurHelper) {
			return "", fmt.Errorf("%w: %s is not on PATH", ErrNoAURHelper, s.aurHelper)
		}

		return s.aurHelper, nil
	}

	for _, helper := range AURHelpers {
		if s.runner.CommandExists(helper) {
			return helper, nil
		}
	}

	return "", ErrNoAURHelper
}

func validateName(name string) error {
	if name == "" || strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t\n/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}
