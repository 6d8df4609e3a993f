// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
)

// SearchProvider defines the remote package index.
// Implemented by adapters for the official repositories and the AUR.
type SearchProvider interface {
	// Search returns the packages matching an already normalized query.
	Search(ctx context.Context, query string) ([]PackageResult, error)
}

// LocalInstallStore defines the local installed-package database.
type LocalInstallStore interface {
	// IsInstalled checks if a package is installed.
	IsInstalled(ctx context.Context, name string) (bool, error)
}

// CommandRunner defines the interface for executing system commands.
type CommandRunner interface {
	// ExecuteWithOutput runs a command and returns the output.
	ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error)

	// CommandExists checks if a command is available on the system.
	CommandExists(name string) bool
}
