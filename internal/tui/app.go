// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui implements the interactive package search interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/pacsift/internal/grid"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/tui/models"
	"github.com/janderssonse/pacsift/internal/tui/styles"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Screen represents different TUI screens.
type Screen int

// Screens.
const (
	SearchScreen Screen = iota
	DetailsScreen
)

// Options wires the TUI to its collaborators.
type Options struct {
	Controller  *search.Controller
	Packages    models.PackageManager
	Command     models.CommandFactory
	Breakpoints grid.Breakpoints
	// Query is searched on start when not empty.
	Query  string
	Logger *slog.Logger
}

// App is the root model. It owns the controller subscription, routes
// messages and switches between the search and details screens.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	ctx     context.Context
	opts    Options
	styles  *styles.Styles
	logger  *slog.Logger
	screen  Screen
	search  *models.Search
	details *models.Details
	width   int
	height  int
}

// NewApp creates the TUI application.
func NewApp(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	styleConfig := styles.New()

	return &App{
		ctx:    ctx,
		opts:   opts,
		styles: styleConfig,
		logger: logger,
		screen: SearchScreen,
		search: models.NewSearch(ctx, opts.Controller, styleConfig, models.SearchOptions{
			Breakpoints: opts.Breakpoints,
			Query:       opts.Query,
		}),
	}
}

// Run starts the TUI program and blocks until it exits.
func (a *App) Run() error {
	program := tea.NewProgram(
		a,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
		tea.WithContext(a.ctx),    // Use the provided context
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Launch starts the interactive interface after checking for a terminal.
func Launch(ctx context.Context, opts Options) error {
	if !isTerminal() {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	return NewApp(ctx, opts).Run()
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("pacsift"),
		a.search.Init(),
		models.WaitForEvent(a.opts.Controller.Events()),
	)
}

// Update implements the tea.Model interface.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		return a, a.broadcast(msg)

	case models.ControllerEventMsg:
		return a, tea.Batch(a.broadcast(msg), models.WaitForEvent(a.opts.Controller.Events()))

	case models.ControllerClosedMsg:
		a.logger.Debug("controller events closed")

		return a, nil

	case models.OpenDetailsMsg:
		return a, a.openDetails(msg)

	case models.BackMsg:
		a.opts.Controller.ClearSelection()
		a.details = nil
		a.screen = SearchScreen
		a.logger.Debug("returned to search")

		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		return a, a.updateActive(msg)

	case tea.MouseMsg:
		return a, a.updateActive(msg)
	}

	return a, a.broadcast(msg)
}

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.screen == DetailsScreen && a.details != nil {
		return a.details.View()
	}

	return a.search.View()
}

// CurrentScreen returns the screen shown (for testing).
func (a *App) CurrentScreen() Screen {
	return a.screen
}

// Unexported methods

func (a *App) openDetails(msg models.OpenDetailsMsg) tea.Cmd {
	a.details = models.NewDetails(a.ctx, a.opts.Controller, a.styles, a.opts.Packages, a.opts.Command, msg)
	a.screen = DetailsScreen
	a.logger.Debug("opened details", "package", msg.Package.Name, "generation", msg.Generation)

	_, cmd := a.details.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})

	return tea.Batch(a.details.Init(), cmd)
}

// updateActive sends input to the screen shown.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if a.screen == DetailsScreen && a.details != nil {
		_, cmd = a.details.Update(msg)
	} else {
		_, cmd = a.search.Update(msg)
	}

	return cmd
}

// broadcast sends msg to every live screen so the hidden search screen
// keeps following the controller while details are shown.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	_, searchCmd := a.search.Update(msg)

	if a.details == nil {
		return searchCmd
	}

	_, detailsCmd := a.details.Update(msg)

	return tea.Batch(searchCmd, detailsCmd)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int
}
