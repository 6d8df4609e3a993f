// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	cliAdapter "github.com/janderssonse/pacsift/internal/adapters/cli"
	"github.com/janderssonse/pacsift/internal/cli/handlers"
	"github.com/janderssonse/pacsift/internal/config"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/grid"
	"github.com/janderssonse/pacsift/internal/logging"
	corePlatform "github.com/janderssonse/pacsift/internal/platform"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/stringutil"
	"github.com/janderssonse/pacsift/internal/tui/cards"
	"github.com/janderssonse/pacsift/internal/tui/styles"
	"github.com/urfave/cli/v3"
)

const (
	defaultWidth     = 100
	descriptionWidth = 60
	notInstalled     = "-"
)

func (app *CLI) createCommands() []*cli.Command {
	return []*cli.Command{
		app.createSearchCommand(),
		app.createConfigCommand(),
		app.createVersionCommand(),
	}
}

// createSearchCommand creates the non-interactive search command.
func (app *CLI) createSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Print packages matching a query",
		ArgsUsage: "<query...>",
		Description: `Searches the package index once and prints the results with their
local install status.

EXAMPLES:
  pacsift search htop                 Table of matches
  pacsift search --grid neovim        Card grid at terminal width
  pacsift search -o yaml --repo aur yay`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format: text, json, yaml",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "grid",
				Usage: "render text results as cards",
			},
		},
		Action: app.runSearch,
	}
}

func (app *CLI) runSearch(ctx context.Context, cmd *cli.Command) error {
	format, err := cliAdapter.ParseOutputFormat(cmd.String("output"))
	if err != nil {
		return domain.NewExitError(ExitUsageError, "Invalid --output value", err)
	}

	if cmd.Args().Len() == 0 {
		return domain.NewExitError(ExitUsageError, "Usage: pacsift search <query...>", nil)
	}

	app.console.SetMode(app.verbose, app.quiet, format.Structured())

	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := app.searchLogger()
	if err != nil {
		return domain.NewExitError(ExitGeneralError, "Cannot set up logging", err)
	}

	defer func() { _ = closer.Close() }()

	b, err := app.newBackend(cfg, logger)
	if err != nil {
		return err
	}

	defer b.controller.Close()

	output := cliAdapter.NewOutputAdapterWithWriter(app.opts.Stdout, format, app.quiet)
	handler := handlers.NewSearchHandler(handlers.NewBaseHandler(app.verbose, app.quiet, output, app.console), b.controller)

	report, searchErr := handler.Execute(ctx, strings.Join(cmd.Args().Slice(), " "))

	switch {
	case format.Structured():
		if err := output.Success("", report); err != nil {
			return domain.NewExitError(ExitGeneralError, "Failed to output results", err)
		}
	case searchErr != nil:
		// the message goes to stderr with the exit code
	case cmd.Bool("grid"):
		app.printGrid(output, cfg.Breakpoints(), report)
	default:
		if err := printTable(output, report); err != nil {
			return domain.NewExitError(ExitGeneralError, "Failed to output results", err)
		}
	}

	if searchErr != nil {
		return searchExitError(searchErr, app.verbose)
	}

	return nil
}

// searchLogger writes to stderr with --verbose and discards otherwise.
func (app *CLI) searchLogger() (*slog.Logger, io.Closer, error) {
	opts := logging.Options{}
	if app.verbose {
		opts = logging.Options{Output: app.opts.Stderr, Level: slog.LevelDebug}
	}

	return logging.New(opts)
}

func printTable(output *cliAdapter.OutputAdapter, report domain.SearchReport) error {
	rows := make([][]string, 0, len(report.Packages))

	for _, pkg := range report.Packages {
		status := notInstalled
		if pkg.Installed {
			status = search.StatusInstalled.String()
		}

		rows = append(rows, []string{
			pkg.Name,
			pkg.Version,
			string(pkg.Repository),
			status,
			stringutil.Truncate(pkg.Description, descriptionWidth),
		})
	}

	return output.Table([]string{"NAME", "VERSION", "REPOSITORY", "STATUS", "DESCRIPTION"}, rows)
}

// printGrid renders every result as a card, as many per row as the
// terminal width allows.
func (app *CLI) printGrid(output *cliAdapter.OutputAdapter, bp grid.Breakpoints, report domain.SearchReport) {
	if output.IsQuiet() {
		return
	}

	width := app.opts.Width
	if width <= 0 {
		width = app.console.TerminalWidth(os.Stdout.Fd(), defaultWidth)
	}

	pkgs := make([]domain.PackageResult, len(report.Packages))
	installed := make(map[string]bool, len(report.Packages))

	for i, pkg := range report.Packages {
		pkgs[i] = pkg.PackageResult
		installed[pkg.Name] = pkg.Installed
	}

	layout := grid.Compute(bp, width, 0, len(pkgs))
	layout.Height = layout.ContentHeight()

	status := func(name string) search.InstallStatus {
		if installed[name] {
			return search.StatusInstalled
		}

		return search.StatusNotInstalled
	}

	rendered := cards.NewRenderer(styles.New()).Grid(layout, 0, pkgs, status, -1)
	_, _ = fmt.Fprintln(output.Writer(), rendered)
}

// searchExitError maps a search failure to its exit code.
func searchExitError(err error, verbose bool) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return domain.NewExitError(ExitUsageError, domain.UserMessage(err), nil)
	case errors.Is(err, domain.ErrEmptyQueryResult), errors.Is(err, domain.ErrFilterEmpty):
		return domain.NewExitError(ExitNotFoundError, domain.UserMessage(err), nil)
	case errors.Is(err, domain.ErrProvider):
		info := domain.GetErrorInfo(err, verbose)

		message := info.Message
		if len(info.Suggestions) > 0 {
			message += " (" + info.Suggestions[0] + ")"
		}

		return domain.NewExitError(ExitNetworkError, message, err)
	case errors.Is(err, context.Canceled):
		return domain.NewExitError(ExitGeneralError, "Search cancelled", nil)
	default:
		return domain.NewExitError(ExitGeneralError, domain.UserMessage(err), err)
	}
}

// createConfigCommand creates the config command.
func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as TOML",
		Description: `Prints the configuration after applying config.toml and command line
flags. Use "config init" to write the defaults to the config file.`,
		Action: app.runConfigShow,
		Commands: []*cli.Command{
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(_ context.Context, _ *cli.Command) error {
					_, _ = fmt.Fprintln(app.opts.Stdout, app.configFile())

					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "overwrite an existing file",
					},
				},
				Action: app.runConfigInit,
			},
		},
	}
}

func (app *CLI) runConfigShow(_ context.Context, _ *cli.Command) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Encode(app.opts.Stdout); err != nil {
		return domain.NewExitError(ExitGeneralError, "Failed to print configuration", err)
	}

	return nil
}

func (app *CLI) runConfigInit(_ context.Context, cmd *cli.Command) error {
	app.console.SetMode(app.verbose, app.quiet, false)

	path := app.configFile()

	if corePlatform.FileExists(path) && !cmd.Bool("force") {
		return domain.NewExitError(ExitConfigError,
			fmt.Sprintf("%s already exists (use --force to overwrite)", path), ErrConfigExists)
	}

	var buf bytes.Buffer
	if err := config.Defaults().Encode(&buf); err != nil {
		return domain.NewExitError(ExitGeneralError, "Failed to encode configuration", err)
	}

	if err := corePlatform.SafeWriteFile(path, buf.Bytes()); err != nil {
		return domain.NewExitError(ExitConfigError, "Failed to write configuration", err)
	}

	app.console.Successf("Wrote %s", path)

	return nil
}

func (app *CLI) configFile() string {
	if app.configPath != "" {
		return corePlatform.ExpandPath(app.configPath)
	}

	return corePlatform.ConfigFile()
}

// createVersionCommand creates the version command.
func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			_, _ = fmt.Fprintf(app.opts.Stdout, "%s %s\n", corePlatform.AppName, getVersion())

			return nil
		},
	}
}
