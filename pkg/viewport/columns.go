package viewport

// Columns is the horizontal geometry of a grid: column widths separated
// by a fixed gap.
type Columns struct {
	Widths []int
	Gap    int
}

// Offset returns the x position of the left edge of col.
func (c Columns) Offset(col int) int {
	x := 0
	for i := 0; i < col && i < len(c.Widths); i++ {
		x += c.Widths[i] + c.Gap
	}
	return x
}

// Total returns the width of all columns including the gaps between them.
func (c Columns) Total() int {
	if len(c.Widths) == 0 {
		return 0
	}
	return c.Offset(len(c.Widths)-1) + c.Widths[len(c.Widths)-1]
}

// CellRect returns the box of a cell.
func (c Columns) CellRect(row, col, rowHeight int) Rect {
	w := 0
	if col >= 0 && col < len(c.Widths) {
		w = c.Widths[col]
	}
	return Rect{X: c.Offset(col), Y: row * rowHeight, W: w, H: rowHeight}
}

// At returns the column under x, or -1 for a gap or outside.
func (c Columns) At(x int) int {
	left := 0
	for i, w := range c.Widths {
		if x >= left && x < left+w {
			return i
		}
		left += w + c.Gap
	}
	return -1
}

// Boundary returns the column whose right edge is within tolerance of x,
// or -1. Used to start a column resize drag.
func (c Columns) Boundary(x, tolerance int) int {
	right := 0
	for i, w := range c.Widths {
		right += w
		if x >= right-tolerance && x <= right+tolerance {
			return i
		}
		right += c.Gap
	}
	return -1
}
