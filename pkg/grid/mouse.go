package grid

// ColumnAt returns the column under body x, or -1.
func (g *Grid) ColumnAt(x int) int {
	return g.Columns().At(x + g.win.ScrollX)
}

// CellAt returns the cell under body coordinates (x, y), or NoCell.
func (g *Grid) CellAt(x, y int) Cell {
	row := g.win.FirstVisibleAt(y + g.win.ScrollY)
	col := g.ColumnAt(x)
	if y < 0 || row >= len(g.rows) || col < 0 {
		return NoCell
	}
	return Cell{Row: row, Col: col}
}

// Click handles a click in the body. Clicking the focused cell enters
// edit mode, clicking any other cell moves focus there.
func (g *Grid) Click(x, y int) bool {
	c := g.CellAt(x, y)
	if c == NoCell {
		return false
	}
	if c == g.focus {
		return g.edit.Enter(CaretRight)
	}
	return g.FocusCell(c, true)
}

// HeaderClick handles a click on a column header: toggle that column's
// order, keeping the other keys with shift. A right click clears the
// order.
func (g *Grid) HeaderClick(col int, shift, right bool) bool {
	if right {
		g.ClearOrder()
		return true
	}
	if col < 0 || col >= len(g.cols) {
		return false
	}
	g.ToggleOrder(g.cols[col], shift)
	return true
}

// PressBoundary starts a column resize if x is near a column's right
// edge.
func (g *Grid) PressBoundary(x int) bool {
	cx := x + g.win.ScrollX
	col := g.Columns().Boundary(cx, g.cfg.ResizeTolerance)
	if col < 0 {
		return false
	}
	g.resizing = &resizeState{col: col, startX: cx, startW: g.widths[col]}
	return true
}

// Resizing reports whether a column resize is in progress.
func (g *Grid) Resizing() bool { return g.resizing != nil }

// Drag resizes the column being dragged. The width stays within the
// field's bounds.
func (g *Grid) Drag(x int) bool {
	rs := g.resizing
	if rs == nil {
		return false
	}
	w := g.cols[rs.col].ClampWidth(rs.startW + x + g.win.ScrollX - rs.startX)
	g.SetColumnWidth(rs.col, w)
	return true
}

// Release ends a column resize.
func (g *Grid) Release() {
	g.resizing = nil
}

// SetColumnWidth sets a column's width, clamped to the field's bounds,
// and updates every materialized slot.
func (g *Grid) SetColumnWidth(col, w int) {
	if col < 0 || col >= len(g.cols) {
		return
	}
	w = g.cols[col].ClampWidth(w)
	if g.widths[col] == w {
		return
	}
	g.widths[col] = w
	g.slots.Each(func(s *RowSlot, _ int) {
		if col < len(s.Widths) {
			s.Widths[col] = w
		}
	})
	g.win.ContentWidth = g.Columns().Total()
	g.win.Clamp()
	g.view.Render()
}
