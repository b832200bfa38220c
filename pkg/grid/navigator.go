package grid

import "math"

// Cell is a focus coordinate in display space: a row index into the
// grid's display order and a column index into its visible columns.
// -1 on either axis means none.
type Cell struct {
	Row, Col int
}

// NoCell is the absence of focus.
var NoCell = Cell{Row: -1, Col: -1}

// Valid reports whether c names a cell on both axes.
func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Col >= 0
}

// CellSpace is the 2-D space walked by FirstFocusableCell.
type CellSpace interface {
	Rows() int
	Cols() int
	RowFocusable(r int) bool
	CellFocusable(r, c int) bool
}

// FirstFocusableCell walks from `from` by rowDelta focusable rows and then
// by colDelta focusable cells of the resolved row. Both walks saturate at
// the boundaries. A requested row move that cannot change the row leaves
// the column alone too. It reports whether the result differs from from.
func FirstFocusableCell(space CellSpace, from Cell, rowDelta, colDelta int) (Cell, bool) {
	rows, cols := space.Rows(), space.Cols()
	start := from.Row
	if start < 0 {
		start = 0
	} else if start >= rows {
		start = rows - 1
	}
	row := walk(start, rowDelta, rows, space.RowFocusable)
	if row < 0 {
		return NoCell, from != NoCell
	}

	col := -1
	if cols > 0 {
		cstart := from.Col
		if cstart < 0 {
			cstart = 0
		} else if cstart >= cols {
			cstart = cols - 1
		}
		col = walk(cstart, colDelta, cols, func(c int) bool {
			return space.CellFocusable(row, c)
		})
	}
	if rowDelta != 0 && row == from.Row && from.Col >= 0 && from.Col < cols &&
		space.CellFocusable(row, from.Col) {
		col = from.Col
	}
	to := Cell{Row: row, Col: col}
	return to, to != from
}

// walk visits indexes from start in the direction of delta and returns
// the last valid index reached after passing |delta| valid indexes, or
// -1 when none is valid.
func walk(start, delta, n int, valid func(int) bool) int {
	step, remaining := 1, delta
	if delta < 0 {
		step = -1
		remaining = -delta
		if delta == math.MinInt {
			remaining = math.MaxInt
		}
	}
	last := -1
	for i := start; i >= 0 && i < n; i += step {
		if !valid(i) {
			continue
		}
		last = i
		if remaining == 0 {
			break
		}
		remaining--
	}
	return last
}

// gridSpace adapts a Grid to CellSpace. With edit set, only editable
// rows and cells are focusable.
type gridSpace struct {
	g    *Grid
	edit bool
}

func (s gridSpace) Rows() int { return len(s.g.rows) }
func (s gridSpace) Cols() int { return len(s.g.cols) }

func (s gridSpace) RowFocusable(r int) bool {
	row := s.g.rows[r]
	if row.Removed {
		return false
	}
	return !s.edit || (s.g.d.Options().CanChangeRows && !row.ReadOnly)
}

func (s gridSpace) CellFocusable(r, c int) bool {
	f := s.g.cols[c]
	if s.edit {
		return s.g.d.CanChangeCell(s.g.rows[r], f)
	}
	return !f.ReadOnly
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
