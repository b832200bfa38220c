// Package viewport maps scroll offsets to the slice of rows that must be
// materialized, and computes the minimal scroll that brings a cell into
// view.
package viewport

// Rect is an axis-aligned box in content coordinates.
type Rect struct {
	X, Y, W, H int
}

// Window is the scroll state of a grid body. All sizes are in the same
// unit (terminal cells for the TUI).
type Window struct {
	RowHeight    int
	Height       int // viewport height
	Width        int // viewport width
	ContentWidth int
	Rows         int // total number of display rows

	ScrollX int
	ScrollY int
}

// VisibleCount is the number of row slots to materialize: every row that
// fits plus two rows of overscan.
func (w *Window) VisibleCount() int {
	if w.RowHeight <= 0 {
		return 0
	}
	return w.Height/w.RowHeight + 2
}

// PageRows is the number of rows that fit entirely in the viewport.
func (w *Window) PageRows() int {
	if w.RowHeight <= 0 {
		return 0
	}
	return max(1, w.Height/w.RowHeight)
}

// FirstVisibleAt returns the first row shown at scroll offset y.
func (w *Window) FirstVisibleAt(y int) int {
	if w.RowHeight <= 0 {
		return 0
	}
	return y / w.RowHeight
}

// FirstVisible returns the first row shown at the current scroll offset.
func (w *Window) FirstVisible() int {
	return w.FirstVisibleAt(w.ScrollY)
}

// Range returns the half-open range of rows that need slots.
func (w *Window) Range() (first, end int) {
	first = min(w.FirstVisible(), w.Rows)
	end = min(first+w.VisibleCount(), w.Rows)
	return first, end
}

// ContentHeight is the height of all rows stacked.
func (w *Window) ContentHeight() int {
	return w.Rows * w.RowHeight
}

// MaxScrollY is the largest valid vertical scroll offset.
func (w *Window) MaxScrollY() int {
	return max(0, w.ContentHeight()-w.Height)
}

// MaxScrollX is the largest valid horizontal scroll offset.
func (w *Window) MaxScrollX() int {
	return max(0, w.ContentWidth-w.Width)
}

// ScrollTo moves to (x, y), clamped to the scroll bounds. It reports
// whether the first visible row changed.
func (w *Window) ScrollTo(x, y int) bool {
	first := w.FirstVisible()
	w.ScrollX = clamp(x, 0, w.MaxScrollX())
	w.ScrollY = clamp(y, 0, w.MaxScrollY())
	return w.FirstVisible() != first
}

// Clamp pulls the scroll offsets back into bounds after a resize or a
// change in row count.
func (w *Window) Clamp() bool {
	return w.ScrollTo(w.ScrollX, w.ScrollY)
}

// RowRect returns the box of a whole row.
func (w *Window) RowRect(row int) Rect {
	return Rect{X: 0, Y: row * w.RowHeight, W: w.ContentWidth, H: w.RowHeight}
}

// MakeVisible scrolls the minimal amount on each axis so that r lies
// inside the viewport. It reports whether the first visible row changed.
func (w *Window) MakeVisible(r Rect) bool {
	first := w.FirstVisible()
	w.ScrollX = ScrollToContain(w.ScrollX, w.Width, w.ContentWidth, r.X, r.X+r.W)
	w.ScrollY = ScrollToContain(w.ScrollY, w.Height, w.ContentHeight(), r.Y, r.Y+r.H)
	return w.FirstVisible() != first
}

// ScrollToContain is the one-axis scroll-into-view rule. Given the current
// scroll offset, the viewport size, the content size and the target
// interval [lo, hi), it returns the new offset: unchanged if the target
// is already inside, otherwise the offset that lines up the nearer edges.
// The result stays within [0, content-view].
func ScrollToContain(scroll, view, content, lo, hi int) int {
	switch {
	case lo >= scroll && hi <= scroll+view:
	case lo < scroll || hi-lo > view:
		scroll = lo
	default:
		scroll = hi - view
	}
	return clamp(scroll, 0, max(0, content-view))
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
