// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/grid"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/tui/cards"
	"github.com/janderssonse/pacsift/internal/tui/styles"
)

// Layout constants for the search screen.
const (
	minGridHeight   = 1
	minInputWidth   = 10
	headerChrome    = 4 // header padding plus input border
	wheelStep       = 2 // lines scrolled per mouse wheel notch
	queryCharLimit  = 256
	keyEsc          = "esc"
	placeholderText = "Search packages..."
)

type focusArea int

const (
	focusInput focusArea = iota
	focusGrid
)

// SearchOptions configures the search screen.
type SearchOptions struct {
	// Breakpoints lay out the result grid in terminal cells.
	Breakpoints grid.Breakpoints
	// Query is searched as soon as the screen starts when not empty.
	Query string
}

// Search is the search screen: query input, repository filters and the
// windowed result grid.
//
//nolint:containedctx // searches started from key presses need the program context
type Search struct {
	ctx    context.Context
	ctrl   *search.Controller
	styles *styles.Styles
	cards  *cards.Renderer
	bp     grid.Breakpoints
	keys   SearchKeyMap
	help   help.Model

	input   textinput.Model
	spinner spinner.Model

	form          *huh.Form
	formSelection []domain.Repository

	window *grid.Window[string]
	layout grid.Layout

	session   search.Session
	version   uint64
	pending   bool
	cursor    int
	scrollTop int
	width     int
	height    int
	focus     focusArea
	notice    string
}

// NewSearch creates the search screen bound to ctrl.
func NewSearch(ctx context.Context, ctrl *search.Controller, styleConfig *styles.Styles, opts SearchOptions) *Search {
	input := textinput.New()
	input.Placeholder = placeholderText
	input.Prompt = "> "
	input.CharLimit = queryCharLimit
	input.SetValue(opts.Query)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styleConfig.PrimaryText

	bp := opts.Breakpoints
	if bp.RowHeight <= 0 {
		bp = grid.TerminalBreakpoints
	}

	m := &Search{
		ctx:     ctx,
		ctrl:    ctrl,
		styles:  styleConfig,
		cards:   cards.NewRenderer(styleConfig),
		bp:      bp,
		keys:    DefaultSearchKeyMap(),
		help:    help.New(),
		input:   input,
		spinner: spin,
		session: ctrl.Snapshot(),
	}
	m.window = grid.NewWindow(m.renderCell)

	return m
}

// Init implements tea.Model.
func (m *Search) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if strings.TrimSpace(m.input.Value()) != "" {
		cmds = append(cmds, m.submit())
	}

	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Search) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.version++
		m.scrollTop = m.gridLayout().ClampScroll(m.scrollTop)

		return m, nil

	case ControllerEventMsg:
		m.refresh()

		return m, nil

	case searchDoneMsg:
		m.pending = false
		if errors.Is(msg.err, domain.ErrValidation) {
			m.notice = domain.UserMessage(msg.err)
		}

		m.refresh()

		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m *Search) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	height := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), minGridHeight)

	var body string
	if m.form != nil {
		body = m.styles.Container.Render(m.form.View())
	} else {
		body = m.renderBody(height)
	}

	body = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Session returns the snapshot the screen currently shows.
func (m *Search) Session() search.Session {
	return m.session
}

// InputFocused reports whether key presses go to the query input.
func (m *Search) InputFocused() bool {
	return m.focus == focusInput
}

// Unexported methods

func (m *Search) loading() bool {
	return m.pending || m.session.Loading
}

// submit starts a search for the input value. It does nothing while a
// search is loading and shows the inline prompt for an empty query.
func (m *Search) submit() tea.Cmd {
	if m.loading() {
		return nil
	}

	if _, err := search.Normalize(m.input.Value()); err != nil {
		m.notice = domain.UserMessage(err)

		return nil
	}

	m.notice = ""
	m.pending = true

	return tea.Batch(runSearch(m.ctx, m.ctrl, m.input.Value()), m.spinner.Tick)
}

func (m *Search) refresh() {
	previous := m.session.Generation

	m.session = m.ctrl.Snapshot()
	m.version++

	if m.session.Generation != previous {
		m.cursor = 0
		m.scrollTop = 0
	}

	if n := len(m.session.Displayed); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}

	m.scrollTop = m.gridLayout().ClampScroll(m.scrollTop)

	if len(m.session.Raw) == 0 && m.focus == focusGrid {
		m.focusInput()
	}
}

func (m *Search) focusInput() tea.Cmd {
	m.focus = focusInput

	return m.input.Focus()
}

func (m *Search) focusGrid() {
	m.focus = focusGrid
	m.input.Blur()
}

func (m *Search) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}

	return m.handleGridKey(msg)
}

func (m *Search) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.FocusGrid):
		if len(m.session.Raw) > 0 {
			m.focusGrid()
		}

		return m, nil
	}

	m.notice = ""

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *Search) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusInput):
		return m, m.focusInput()
	case key.Matches(msg, m.keys.Open):
		return m, m.open(m.cursor)
	case key.Matches(msg, m.keys.Filter):
		return m, m.startFilterForm()
	case key.Matches(msg, m.keys.ToggleCore):
		m.toggle(domain.RepoCore)
	case key.Matches(msg, m.keys.ToggleExtra):
		m.toggle(domain.RepoExtra)
	case key.Matches(msg, m.keys.ToggleMulti):
		m.toggle(domain.RepoMultilib)
	case key.Matches(msg, m.keys.ToggleAUR):
		m.toggle(domain.RepoAUR)
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearFilters()
		m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		if m.move(msg) {
			return m, m.focusInput()
		}
	}

	return m, nil
}

func (m *Search) toggle(tag domain.Repository) {
	m.ctrl.ToggleFilter(tag, !m.session.Filters.Contains(tag))
	m.refresh()
}

// move applies a navigation key to the cursor. It reports true when the
// cursor left the top row upwards.
func (m *Search) move(msg tea.KeyMsg) bool {
	n := len(m.session.Displayed)
	if n == 0 {
		return key.Matches(msg, m.keys.Up)
	}

	layout := m.gridLayout()
	cols := layout.ColumnCount
	page := max(layout.Height/layout.RowHeight, 1) * cols

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor < cols {
			return true
		}

		m.cursor -= cols
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < n {
			m.cursor += cols
		} else if layout.RowOf(m.cursor) < layout.RowCount-1 {
			m.cursor = n - 1
		}
	case key.Matches(msg, m.keys.Left):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor = min(m.cursor+1, n-1)
	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(m.cursor-page, 0)
	case key.Matches(msg, m.keys.PageDown):
		m.cursor = min(m.cursor+page, n-1)
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = n - 1
	default:
		return false
	}

	m.scrollTop = layout.ScrollToReveal(m.scrollTop, m.cursor)

	return false
}

func (m *Search) open(index int) tea.Cmd {
	if index < 0 || index >= len(m.session.Displayed) {
		return nil
	}

	pkg := m.session.Displayed[index]
	if err := m.ctrl.SelectItem(pkg); err != nil {
		m.notice = err.Error()

		return nil
	}

	generation := m.session.Generation

	return func() tea.Msg {
		return OpenDetailsMsg{Package: pkg, Generation: generation}
	}
}

func (m *Search) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.form != nil || len(m.session.Displayed) == 0 || m.loading() {
		return m, nil
	}

	layout := m.gridLayout()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollTop = layout.ClampScroll(m.scrollTop - wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollTop = layout.ClampScroll(m.scrollTop + wheelStep)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		y := msg.Y - lipgloss.Height(m.renderHeader())
		if y < 0 || y >= layout.Height || layout.ColumnWidth == 0 {
			return m, nil
		}

		index, ok := layout.CellAt((m.scrollTop+y)/layout.RowHeight, msg.X/layout.ColumnWidth)
		if !ok {
			return m, nil
		}

		if index == m.cursor && m.focus == focusGrid {
			return m, m.open(index)
		}

		m.cursor = index
		m.focusGrid()
	}

	return m, nil
}

func (m *Search) startFilterForm() tea.Cmd {
	m.formSelection = m.session.Filters.Tags()

	options := make([]huh.Option[domain.Repository], 0, len(domain.Repositories()))
	for _, repo := range domain.Repositories() {
		options = append(options, huh.NewOption(repo.Label(), repo).Selected(m.session.Filters.Contains(repo)))
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[domain.Repository]().
			Title("Repositories").
			Description("Show only results from the selected repositories. Select none to show all.").
			Options(options...).
			Value(&m.formSelection),
	)).WithTheme(huh.ThemeCharm())

	return m.form.Init()
}

func (m *Search) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyEsc {
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		m.ctrl.SetFilters(search.NewFilterSet(m.formSelection...))
		m.refresh()

		return m, nil
	case huh.StateAborted:
		m.form = nil

		return m, nil
	case huh.StateNormal:
	}

	return m, cmd
}

func (m *Search) gridLayout() grid.Layout {
	height := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter())

	return grid.Compute(m.bp, m.width, max(height, minGridHeight), len(m.session.Displayed))
}

func (m *Search) renderCell(cell grid.Cell) string {
	pkg := m.session.Displayed[cell.Index]

	return m.cards.Card(pkg, m.ctrl.Status(pkg.Name), m.layout.ColumnWidth, m.layout.RowHeight, false)
}

func (m *Search) renderBody(height int) string {
	if m.width == 0 {
		return ""
	}

	switch {
	case m.loading():
		return m.cards.Skeletons(m.bp, m.width, height)
	case m.session.Err != nil:
		return m.styles.Container.Render(m.renderError())
	case !m.session.Started():
		return m.styles.Container.Render(m.styles.MutedText.Render("Type a package name and press enter."))
	}

	m.layout = grid.Compute(m.bp, m.width, height, len(m.session.Displayed))
	m.window.Invalidate(m.version)

	cells, values := m.window.Render(m.layout, m.scrollTop)

	for i, cell := range cells {
		if cell.Index == m.cursor && m.focus == focusGrid {
			pkg := m.session.Displayed[cell.Index]
			values[i] = m.cards.Card(pkg, m.ctrl.Status(pkg.Name), m.layout.ColumnWidth, m.layout.RowHeight, true)
		}
	}

	return cards.Assemble(m.layout, m.scrollTop, cells, values)
}

func (m *Search) renderError() string {
	err := m.session.Failure()
	message := domain.UserMessage(err)

	if !errors.Is(err, domain.ErrProvider) {
		return m.styles.WarningText.Render(message)
	}

	lines := []string{m.styles.ErrorText.Render("✗ " + message)}

	info := domain.GetErrorInfo(err, false)
	if info.Message != message {
		lines = append(lines, m.styles.MutedText.Render(info.Message))
	}

	for _, suggestion := range info.Suggestions {
		lines = append(lines, m.styles.MutedText.Render("• "+suggestion))
	}

	lines = append(lines, "", m.styles.Keybinding("enter", "retry"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Search) renderHeader() string {
	title := m.styles.Title.Render("pacsift")
	if status := m.statusLine(); status != "" {
		title += "  " + status
	}

	inputStyle := m.styles.Input
	if m.focus == focusInput {
		inputStyle = m.styles.InputFocused
	}

	input := inputStyle.Width(max(m.width-headerChrome, minInputWidth)).Render(m.input.View())

	lines := []string{title, input, m.renderFilters()}
	if m.notice != "" {
		lines = append(lines, m.styles.WarningText.Render(m.notice))
	}

	return m.styles.Header.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Search) statusLine() string {
	switch {
	case m.loading():
		return m.spinner.View() + m.styles.MutedText.Render(" Searching...")
	case len(m.session.Raw) > 0:
		return m.styles.MutedText.Render(fmt.Sprintf("%d of %d results for %q",
			len(m.session.Displayed), len(m.session.Raw), m.session.Query))
	default:
		return ""
	}
}

func (m *Search) renderFilters() string {
	chips := make([]string, 0, len(domain.Repositories()))

	for _, repo := range domain.Repositories() {
		if m.session.Filters.Contains(repo) {
			chips = append(chips, m.styles.RepoBadge(repo))
		} else {
			chips = append(chips, m.styles.MutedText.Render(" "+repo.Label()+" "))
		}
	}

	prefix := "Repositories: "
	if m.session.Filters.IsEmpty() {
		prefix = "Repositories (all): "
	}

	return m.styles.MutedText.Render(prefix) + strings.Join(chips, " ")
}

func (m *Search) renderFooter() string {
	var view string
	if m.focus == focusInput {
		view = m.help.View(inputHelpKeys(m.keys))
	} else {
		view = m.help.View(m.keys)
	}

	return m.styles.Footer.Width(max(m.width, minInputWidth)).Render(view)
}
