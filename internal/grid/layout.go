// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package grid maps viewport geometry and an item count onto a card grid
// and produces only the cells visible in the current scroll window.
package grid

import (
	"iter"
)

// Breakpoints decide the column count from the viewport width.
type Breakpoints struct {
	Wide      int // width at or above which three columns are used
	Medium    int // width at or above which two columns are used
	RowHeight int // fixed height of a grid row
}

// DefaultBreakpoints are expressed in layout units (pixels).
var DefaultBreakpoints = Breakpoints{Wide: 1024, Medium: 768, RowHeight: 250} //nolint:gochecknoglobals

// TerminalBreakpoints are expressed in terminal cells.
var TerminalBreakpoints = Breakpoints{Wide: 120, Medium: 80, RowHeight: 8} //nolint:gochecknoglobals

// Columns returns the column count for width.
func (b Breakpoints) Columns(width int) int {
	switch {
	case width >= b.Wide:
		return 3
	case width >= b.Medium:
		return 2
	default:
		return 1
	}
}

// Layout is the grid computed for one viewport and item count.
type Layout struct {
	Width       int
	Height      int
	ItemCount   int
	ColumnCount int
	RowCount    int
	ColumnWidth int
	RowHeight   int
}

// Cell is one grid position holding an item.
type Cell struct {
	Row   int
	Col   int
	Index int
	X     int // left edge
	Y     int // top edge, relative to the grid origin
}

// Compute derives the layout for a viewport of width x height showing itemCount items.
func Compute(bp Breakpoints, width, height, itemCount int) Layout {
	width = max(width, 0)
	height = max(height, 0)
	itemCount = max(itemCount, 0)

	columns := bp.Columns(width)

	return Layout{
		Width:       width,
		Height:      height,
		ItemCount:   itemCount,
		ColumnCount: columns,
		RowCount:    (itemCount + columns - 1) / columns,
		ColumnWidth: width / columns,
		RowHeight:   max(bp.RowHeight, 1),
	}
}

// CellAt returns the item index at (row, col). It reports false for
// positions outside the grid, including the unfilled tail of the last row.
func (l Layout) CellAt(row, col int) (int, bool) {
	if row < 0 || col < 0 || col >= l.ColumnCount {
		return 0, false
	}

	index := row*l.ColumnCount + col
	if index >= l.ItemCount {
		return 0, false
	}

	return index, true
}

// RowOf returns the row holding index.
func (l Layout) RowOf(index int) int {
	if l.ColumnCount == 0 {
		return 0
	}

	return index / l.ColumnCount
}

// ContentHeight is the full scrollable height of the grid.
func (l Layout) ContentHeight() int {
	return l.RowCount * l.RowHeight
}

// ClampScroll bounds scrollTop to the scrollable range.
func (l Layout) ClampScroll(scrollTop int) int {
	maxScroll := max(l.ContentHeight()-l.Height, 0)

	return min(max(scrollTop, 0), maxScroll)
}

// ScrollToReveal returns the scroll offset closest to scrollTop that shows
// the whole row of index.
func (l Layout) ScrollToReveal(scrollTop, index int) int {
	top := l.RowOf(index) * l.RowHeight
	bottom := top + l.RowHeight

	switch {
	case top < scrollTop:
		scrollTop = top
	case bottom > scrollTop+l.Height:
		scrollTop = bottom - l.Height
	}

	return l.ClampScroll(scrollTop)
}

// VisibleRows returns the half-open row range [first, last) intersecting the
// viewport when scrolled to scrollTop.
func (l Layout) VisibleRows(scrollTop int) (int, int) {
	if l.RowCount == 0 || l.Height == 0 {
		return 0, 0
	}

	scrollTop = l.ClampScroll(scrollTop)
	first := scrollTop / l.RowHeight
	last := (scrollTop + l.Height + l.RowHeight - 1) / l.RowHeight

	return first, min(last, l.RowCount)
}

// Cells yields the cells of the visible window in row-major order. The
// sequence is computed lazily and can be ranged over again after a scroll.
func (l Layout) Cells(scrollTop int) iter.Seq[Cell] {
	first, last := l.VisibleRows(scrollTop)

	return func(yield func(Cell) bool) {
		for row := first; row < last; row++ {
			for col := range l.ColumnCount {
				index, ok := l.CellAt(row, col)
				if !ok {
					continue
				}

				cell := Cell{
					Row:   row,
					Col:   col,
					Index: index,
					X:     col * l.ColumnWidth,
					Y:     row * l.RowHeight,
				}
				if !yield(cell) {
					return
				}
			}
		}
	}
}
