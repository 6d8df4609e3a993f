// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/janderssonse/pacsift/internal/adapters/pacman"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/tui/styles"
)

const (
	markdownWidth     = 80
	defaultViewWidth  = 80
	defaultViewHeight = 20
	dateLayout        = "2006-01-02"
)

// PackageManager builds the commands that install or remove a package.
type PackageManager interface {
	InstallCommand(pkg domain.PackageResult) (pacman.Command, error)
	RemoveCommand(pkg domain.PackageResult) (pacman.Command, error)
}

// CommandFactory creates a process that takes over the terminal.
type CommandFactory func(name string, args ...string) *exec.Cmd

// Details shows one package and runs install or removal for it.
//
//nolint:containedctx // reconciliation after an action runs under the program context
type Details struct {
	ctx      context.Context
	ctrl     *search.Controller
	styles   *styles.Styles
	packages PackageManager
	command  CommandFactory
	keys     DetailsKeyMap
	help     help.Model

	pkg        domain.PackageResult
	generation uint64

	viewport viewport.Model
	renderer *glamour.TermRenderer
	width    int
	height   int

	running    Action
	message    string
	messageErr bool
}

// NewDetails creates the details screen for the package in msg.
func NewDetails(ctx context.Context, ctrl *search.Controller, styleConfig *styles.Styles,
	packages PackageManager, command CommandFactory, msg OpenDetailsMsg,
) *Details {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		// Fallback to the default style
		renderer, _ = glamour.NewTermRenderer(glamour.WithWordWrap(markdownWidth))
	}

	m := &Details{
		ctx:        ctx,
		ctrl:       ctrl,
		styles:     styleConfig,
		packages:   packages,
		command:    command,
		keys:       DefaultDetailsKeyMap(),
		help:       help.New(),
		pkg:        msg.Package,
		generation: msg.Generation,
		viewport:   viewport.New(defaultViewWidth, defaultViewHeight),
		renderer:   renderer,
	}
	m.updateContent()

	return m
}

// Init implements tea.Model.
func (m *Details) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Details) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

		return m, nil

	case ControllerEventMsg:
		m.updateContent()

		return m, nil

	case actionDoneMsg:
		return m, m.handleActionDone(msg)

	case reconciledMsg:
		m.handleReconciled(msg)

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m *Details) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View(), m.renderFooter())
}

// Package returns the package shown.
func (m *Details) Package() domain.PackageResult {
	return m.pkg
}

// Running reports the action that currently owns the terminal, if any.
func (m *Details) Running() Action {
	return m.running
}

// Unexported methods

func (m *Details) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }
	case key.Matches(msg, m.keys.Install):
		return m, m.run(ActionInstall)
	case key.Matches(msg, m.keys.Remove):
		return m, m.run(ActionRemove)
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// run hands the terminal to the install or remove command for the package.
func (m *Details) run(action Action) tea.Cmd {
	status := m.ctrl.Status(m.pkg.Name)

	switch {
	case action == ActionInstall && status == search.StatusInstalled:
		m.setMessage(m.pkg.Name+" is already installed", false)

		return nil
	case action == ActionRemove && status != search.StatusInstalled:
		m.setMessage(m.pkg.Name+" is not installed", false)

		return nil
	}

	var (
		command pacman.Command
		err     error
	)

	if action == ActionInstall {
		command, err = m.packages.InstallCommand(m.pkg)
	} else {
		command, err = m.packages.RemoveCommand(m.pkg)
	}

	if err != nil {
		m.setMessage(fmt.Sprintf("Cannot %s %s: %v", action, m.pkg.Name, err), true)

		return nil
	}

	m.running = action
	m.setMessage("Running "+command.String(), false)

	pkg, generation := m.pkg, m.generation

	return tea.ExecProcess(m.command(command.Name, command.Args...), func(err error) tea.Msg {
		return actionDoneMsg{action: action, pkg: pkg, generation: generation, err: err}
	})
}

// handleActionDone treats the end of a command as an install state change
// and re-resolves the package whether or not the command succeeded.
func (m *Details) handleActionDone(msg actionDoneMsg) tea.Cmd {
	m.running = ""

	if msg.err != nil {
		m.setMessage(fmt.Sprintf("%s %s failed: %v", msg.action, msg.pkg.Name, msg.err), true)
	} else {
		m.setMessage("Refreshing install status...", false)
	}

	return reconcile(m.ctx, m.ctrl, msg.generation, msg.pkg)
}

func (m *Details) handleReconciled(msg reconciledMsg) {
	m.updateContent()

	if !msg.applied {
		m.setMessage("Results changed since this package was opened", true)

		return
	}

	if m.messageErr {
		return
	}

	m.setMessage(fmt.Sprintf("%s is %s", msg.name, m.ctrl.Status(msg.name)), false)
}

func (m *Details) setMessage(message string, isErr bool) {
	m.message = message
	m.messageErr = isErr

	if m.height > 0 {
		m.resize()
	}
}

func (m *Details) resize() {
	headerHeight := lipgloss.Height(m.renderHeader())
	footerHeight := lipgloss.Height(m.renderFooter())

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-headerHeight-footerHeight, 1)
}

// updateContent renders the package as markdown into the viewport.
func (m *Details) updateContent() {
	content := m.markdown()

	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = rendered
		}
	}

	m.viewport.SetContent(content)
}

func (m *Details) markdown() string {
	var b strings.Builder

	pkg := m.pkg

	fmt.Fprintf(&b, "# %s\n\n", pkg.Name)

	if pkg.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", pkg.Description)
	}

	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Version | %s |\n", cell(pkg.Version))
	fmt.Fprintf(&b, "| Repository | %s |\n", pkg.Repository.Label())
	fmt.Fprintf(&b, "| Maintainer | %s |\n", cell(pkg.Maintainer))
	fmt.Fprintf(&b, "| Upstream | %s |\n", cell(pkg.UpstreamURL))

	if !pkg.LastUpdated.IsZero() {
		fmt.Fprintf(&b, "| Last updated | %s (%s) |\n", pkg.LastUpdated.Format(dateLayout), humanize.Time(pkg.LastUpdated))
	}

	fmt.Fprintf(&b, "| Status | %s |\n", m.ctrl.Status(pkg.Name))

	b.WriteString("\n## Dependencies\n\n")

	if len(pkg.Dependencies) == 0 {
		b.WriteString("None listed\n")
	}

	for _, dep := range pkg.Dependencies {
		fmt.Fprintf(&b, "- %s\n", dep)
	}

	return b.String()
}

func (m *Details) renderHeader() string {
	status := m.ctrl.Status(m.pkg.Name)
	title := m.styles.Title.Render(m.pkg.Name) + " " +
		m.styles.RepoBadge(m.pkg.Repository) + " " +
		m.styles.StatusIcon(status.String()) + " " +
		m.styles.MutedText.Render(status.String())

	lines := []string{title}

	if m.message != "" {
		style := m.styles.MutedText
		if m.messageErr {
			style = m.styles.ErrorText
		}

		lines = append(lines, style.Render(m.message))
	}

	return m.styles.Header.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Details) renderFooter() string {
	return m.styles.Footer.Width(max(m.width, minInputWidth)).Render(m.help.View(m.keys))
}

// cell escapes a markdown table value.
func cell(value string) string {
	if value == "" {
		return "-"
	}

	return strings.ReplaceAll(value, "|", `\|`)
}
