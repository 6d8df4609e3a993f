// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the pacsift command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/janderssonse/pacsift/internal/adapters/archweb"
	"github.com/janderssonse/pacsift/internal/adapters/pacman"
	"github.com/janderssonse/pacsift/internal/adapters/platform"
	"github.com/janderssonse/pacsift/internal/config"
	"github.com/janderssonse/pacsift/internal/console"
	"github.com/janderssonse/pacsift/internal/domain"
	corePlatform "github.com/janderssonse/pacsift/internal/platform"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/urfave/cli/v3"
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess       = 0  // Operation completed successfully
	ExitGeneralError  = 1  // Generic failure (catch-all)
	ExitUsageError    = 2  // Invalid command line usage or query
	ExitConfigError   = 3  // Configuration file error
	ExitNotFoundError = 5  // Search returned nothing to show
	ExitNetworkError  = 11 // Package index unavailable
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "" //nolint:gochecknoglobals

var (
	// ErrLocked is returned when another interactive instance holds the lock.
	ErrLocked = errors.New("another pacsift instance is already running")
	// ErrConfigExists is returned by config init when the file is already there.
	ErrConfigExists = errors.New("config file already exists")
)

// Options injects collaborators, mainly for tests. Zero values select the
// real implementations.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// Provider replaces the package index client.
	Provider domain.SearchProvider
	// Store replaces the pacman install lookup.
	Store domain.LocalInstallStore
	// Width is the terminal width for --grid; 0 asks the terminal.
	Width int
}

// CLI holds the command tree and the global flag values.
type CLI struct {
	app     *cli.Command
	opts    Options
	console *console.OutputState

	verbose    bool
	quiet      bool
	configPath string
	timeout    time.Duration
	timeoutSet bool
	noAUR      bool
	repos      []string
}

// NewCLI creates the command tree writing to stdout and stderr.
func NewCLI() *CLI {
	return NewCLIWithOptions(Options{})
}

// NewCLIWithOptions creates the command tree with injected collaborators.
func NewCLIWithOptions(opts Options) *CLI {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &CLI{opts: opts, console: console.NewOutputState(opts.Stderr)}

	app.app = &cli.Command{
		Name:        corePlatform.AppName,
		Usage:       "Search Arch Linux packages from the terminal",
		ArgsUsage:   "[query...]",
		Version:     getVersion(),
		HideVersion: true, // -v is --verbose, see the version command
		Suggest:     true,
		Writer:      opts.Stdout,
		ErrWriter:   opts.Stderr,
		Description: `Searches the official repositories and the AUR and shows the results
as a card grid. Without a command the interactive interface starts,
searching for the query given as arguments.

EXAMPLES:
  pacsift                          Start the interactive search
  pacsift neovim                   Start and search for neovim
  pacsift search --repo core htop  Print matches from core
  pacsift search -o json ripgrep   Print matches as JSON
  pacsift config init              Write the default config.toml`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show progress messages and error details on stderr",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress non-essential output",
				Aliases:     []string{"q"},
				Destination: &app.quiet,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "configuration file (default $XDG_CONFIG_HOME/pacsift/config.toml)",
				Aliases:     []string{"c"},
				Destination: &app.configPath,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout for package index requests (0 = no timeout)",
				Destination: &app.timeout,
				Action: func(context.Context, *cli.Command, time.Duration) error {
					app.timeoutSet = true

					return nil
				},
			},
			&cli.BoolFlag{
				Name:        "no-aur",
				Usage:       "search the official repositories only",
				Destination: &app.noAUR,
			},
			&cli.StringSliceFlag{
				Name:        "repo",
				Usage:       "only show results from this repository (core, extra, multilib, aur); repeatable",
				Aliases:     []string{"r"},
				Destination: &app.repos,
			},
		},
		Action:   app.runInteractive,
		Commands: app.createCommands(),
	}

	return app
}

// App returns the root command.
func App() *cli.Command {
	return NewCLI().app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// loadConfig reads the configuration file and applies flag overrides.
func (app *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(app.configFile())
	if err != nil {
		return cfg, domain.NewExitError(ExitConfigError, "Cannot load configuration", err)
	}

	if app.timeoutSet {
		cfg.Search.Timeout = config.Duration(app.timeout)
	}

	if app.noAUR {
		cfg.Search.IncludeAUR = false
	}

	if len(app.repos) > 0 {
		cfg.Search.DefaultRepositories = app.repos
	}

	if err := cfg.Validate(); err != nil {
		return cfg, domain.NewExitError(ExitUsageError, "Invalid option", err)
	}

	return cfg, nil
}

// backend is everything a search needs, built from one configuration.
type backend struct {
	controller *search.Controller
	packages   *pacman.Store
	runner     *platform.CommandRunner
}

// newBackend wires the index client, the pacman store and the controller.
func (app *CLI) newBackend(cfg config.Config, logger *slog.Logger) (*backend, error) {
	repos, err := cfg.Repositories()
	if err != nil {
		return nil, domain.NewExitError(ExitUsageError, "Invalid option", err)
	}

	runner := platform.NewCommandRunner(logger)
	packages := pacman.NewStore(runner, pacman.Options{
		Binary:    cfg.Pacman.Binary,
		AURHelper: cfg.Pacman.AURHelper,
	})

	provider := app.opts.Provider
	if provider == nil {
		provider = archweb.NewClient(archweb.Options{
			OfficialURL: cfg.Index.OfficialURL,
			AURURL:      cfg.Index.AURURL,
			IncludeAUR:  cfg.Search.IncludeAUR,
			HTTPClient:  corePlatform.GetHTTPClient(cfg.Search.Timeout.Std()),
			Logger:      logger,
		})
	}

	var store domain.LocalInstallStore = packages
	if app.opts.Store != nil {
		store = app.opts.Store
	}

	ctrl := search.NewController(provider, store, search.Options{
		SearchTimeout: cfg.SearchTimeout(),
		Filters:       search.NewFilterSet(repos...),
		Resolver: search.ResolverOptions{
			Concurrency:   cfg.Resolver.Concurrency,
			LookupTimeout: cfg.Resolver.LookupTimeout.Std(),
		},
		Logger: logger,
	})

	return &backend{controller: ctrl, packages: packages, runner: runner}, nil
}

// getVersion returns the build version.
func getVersion() string {
	if Version != "" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}
