// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cards renders package results as fixed-size cards and lays them
// out on a grid.
package cards

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/grid"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/stringutil"
	"github.com/janderssonse/pacsift/internal/tui/styles"
)

// SkeletonCount is the number of placeholder cards shown while loading.
const SkeletonCount = 9

const (
	columnGap   = 1 // blank cells right of each card
	borderCells = 2 // left+right or top+bottom border
	paddingX    = 2 // horizontal padding inside the border
)

// Renderer draws cards with a shared style set.
type Renderer struct {
	styles *styles.Styles
	now    func() time.Time
}

// NewRenderer creates a card renderer.
func NewRenderer(s *styles.Styles) *Renderer {
	return &Renderer{styles: s, now: time.Now}
}

// Card renders pkg as a card filling a width x height cell box.
func (r *Renderer) Card(pkg domain.PackageResult, status search.InstallStatus, width, height int, selected bool) string {
	inner := innerWidth(width)
	lines := innerHeight(height)

	badge := ""
	if status == search.StatusInstalled {
		badge = " " + r.styles.InstalledBadge()
	}

	header := lipgloss.NewStyle().Bold(true).
		Render(stringutil.Truncate(pkg.Name, inner-lipgloss.Width(badge))) + badge

	repo := r.styles.RepoBadge(pkg.Repository)
	meta := repo + " " + r.styles.MutedText.Render(stringutil.Truncate(pkg.Version, inner-lipgloss.Width(repo)-1))

	body := []string{header, meta}

	footer := ""
	if !pkg.LastUpdated.IsZero() {
		footer = r.styles.MutedText.Render(stringutil.Truncate("updated "+humanize.RelTime(pkg.LastUpdated, r.now(), "ago", "from now"), inner))
	}

	descLines := lines - len(body)
	if footer != "" {
		descLines--
	}

	for _, line := range stringutil.Wrap(pkg.Description, inner, descLines) {
		body = append(body, r.styles.BodyText.Render(line))
	}

	if footer != "" {
		for len(body) < lines-1 {
			body = append(body, "")
		}

		body = append(body, footer)
	}

	style := r.styles.Card
	if selected {
		style = r.styles.CardSelected
	}

	return box(style, clip(body, lines), width, height)
}

// Skeleton renders a placeholder card of the same size as Card.
func (r *Renderer) Skeleton(index, width, height int) string {
	inner := innerWidth(width)
	lines := innerHeight(height)

	body := make([]string, 0, lines)
	for i := range lines {
		// Vary bar lengths so the placeholders do not look like one block.
		length := inner * (4 + (index+i)%3) / 6
		body = append(body, strings.Repeat("░", max(length, 1)))
	}

	return box(r.styles.Skeleton, body, width, height)
}

// Grid renders every cell of layout visible at scrollTop.
func (r *Renderer) Grid(layout grid.Layout, scrollTop int, pkgs []domain.PackageResult, status func(string) search.InstallStatus, selected int) string {
	var (
		cells  []grid.Cell
		values []string
	)

	for cell := range layout.Cells(scrollTop) {
		if cell.Index >= len(pkgs) {
			break
		}

		pkg := pkgs[cell.Index]
		cells = append(cells, cell)
		values = append(values, r.Card(pkg, status(pkg.Name), layout.ColumnWidth, layout.RowHeight, cell.Index == selected))
	}

	return Assemble(layout, scrollTop, cells, values)
}

// Skeletons renders the loading placeholder grid.
func (r *Renderer) Skeletons(bp grid.Breakpoints, width, height int) string {
	layout := grid.Compute(bp, width, height, SkeletonCount)

	var (
		cells  []grid.Cell
		values []string
	)

	for cell := range layout.Cells(0) {
		cells = append(cells, cell)
		values = append(values, r.Skeleton(cell.Index, layout.ColumnWidth, layout.RowHeight))
	}

	return Assemble(layout, 0, cells, values)
}

// Assemble joins rendered cells into rows and crops the result to the
// viewport at scrollTop. cells must be in row-major order.
func Assemble(layout grid.Layout, scrollTop int, cells []grid.Cell, values []string) string {
	if len(cells) == 0 {
		return ""
	}

	var (
		rows    []string
		current []string
	)

	row := cells[0].Row
	for i, cell := range cells {
		if cell.Row != row {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
			row = cell.Row
		}

		current = append(current, values[i])
	}

	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))

	lines := strings.Split(lipgloss.JoinVertical(lipgloss.Left, rows...), "\n")

	offset := max(scrollTop-cells[0].Row*layout.RowHeight, 0)
	if offset >= len(lines) {
		return ""
	}

	lines = lines[offset:]
	if layout.Height > 0 && len(lines) > layout.Height {
		lines = lines[:layout.Height]
	}

	return strings.Join(lines, "\n")
}

func innerWidth(width int) int {
	return max(width-columnGap-borderCells-paddingX, 1)
}

func innerHeight(height int) int {
	return max(height-borderCells, 1)
}

func clip(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}

	return lines
}

func box(style lipgloss.Style, lines []string, width, height int) string {
	card := style.
		Width(max(width-columnGap-borderCells, 1)).
		Height(innerHeight(height)).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().PaddingRight(columnGap).Render(card)
}
