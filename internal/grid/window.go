// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package grid

// Window materializes grid cells on demand and holds only those inside the
// current scroll window. Cells leaving the window are dropped, so memory
// follows the viewport, not the item count.
type Window[T any] struct {
	produce func(Cell) T
	version uint64
	cells   map[int]T
}

// NewWindow creates a window building cells with produce.
func NewWindow[T any](produce func(Cell) T) *Window[T] {
	return &Window[T]{
		produce: produce,
		cells:   make(map[int]T),
	}
}

// Invalidate drops every cell when version differs from the last one seen.
// Callers bump the version whenever the underlying items change.
func (w *Window[T]) Invalidate(version uint64) {
	if version == w.version {
		return
	}

	w.version = version
	clear(w.cells)
}

// Render returns the cells of the window at scrollTop in row-major order,
// producing only those not already held.
func (w *Window[T]) Render(layout Layout, scrollTop int) ([]Cell, []T) {
	var (
		cells  []Cell
		values []T
	)

	keep := make(map[int]T)

	for cell := range layout.Cells(scrollTop) {
		value, ok := w.cells[cell.Index]
		if !ok {
			value = w.produce(cell)
		}

		keep[cell.Index] = value
		cells = append(cells, cell)
		values = append(values, value)
	}

	w.cells = keep

	return cells, values
}

// Len returns the number of materialized cells.
func (w *Window[T]) Len() int {
	return len(w.cells)
}
