package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/grid"
	"github.com/pluqqy/gridkit/pkg/order"
)

// headerLines is the number of lines above the body: column names and
// the separator.
const headerLines = 2

// gridView renders a grid for the terminal. Body lines are cached per
// display row and dropped when the grid reports damage, so a key press
// that touches one cell re-renders one line.
type gridView struct {
	g       *grid.Grid
	editor  *cellEditor
	gutter  bool
	lines   map[int]string
	header  []string
	scrollX int

	// counters for tests
	renders int
	builds  int
}

func newGridView(editor *cellEditor, gutter bool) *gridView {
	return &gridView{
		editor: editor,
		gutter: gutter,
		lines:  make(map[int]string),
	}
}

func (v *gridView) Render() {
	v.renders++
	clear(v.lines)
	v.header = nil
}

func (v *gridView) Scrolled(x, y int) {
	if x != v.scrollX {
		v.scrollX = x
		clear(v.lines)
		v.header = nil
	}
}

func (v *gridView) Damage(row, col int) {
	delete(v.lines, row)
}

func (v *gridView) Editing(c grid.Cell, text string, caret grid.Caret) {
	v.editor.open(c, text, caret)
	delete(v.lines, c.Row)
}

func (v *gridView) EditEnded(c grid.Cell) {
	v.editor.close()
	delete(v.lines, c.Row)
}

// gutterWidth is the width of the row number column including its
// separator, or 0 when row numbers are off.
func (v *gridView) gutterWidth() int {
	if !v.gutter || v.g == nil {
		return 0
	}
	return len(fmt.Sprint(max(len(v.g.Rows()), 1))) + 1
}

// Header renders the column names and the separator line.
func (v *gridView) Header(width int) []string {
	if v.header != nil {
		return v.header
	}
	g := v.g
	spec := g.OrderSpec()
	var names, sep strings.Builder
	if gw := v.gutterWidth(); gw > 0 {
		names.WriteString(strings.Repeat(" ", gw-1) + SeparatorStyle.Render("│"))
		sep.WriteString(SeparatorStyle.Render(strings.Repeat("─", gw-1) + "┼"))
	}
	v.eachColumn(width-v.gutterWidth(), func(col, skip, w int, last bool) {
		f := g.Fields()[col]
		label := f.Name + orderMark(spec, f)
		style := HeaderStyle
		if spec.Has(f) {
			style = SortedHeaderStyle
		}
		text := cutLeft(fit(label, g.Columns().Widths[col], dataset.AlignLeft), skip)
		names.WriteString(style.Render(fit(text, w, dataset.AlignLeft)))
		line := strings.Repeat("─", w)
		if !last {
			names.WriteString(SeparatorStyle.Render("│"))
			line += "┼"
		}
		sep.WriteString(SeparatorStyle.Render(line))
	})
	v.header = []string{names.String(), sep.String()}
	return v.header
}

// orderMark shows a column's sort direction, with its position when the
// order has more than one key.
func orderMark(spec order.Spec, f *dataset.Field) string {
	for i, k := range spec {
		if k.Field != f {
			continue
		}
		mark := " ▲"
		if k.Dir == order.Desc {
			mark = " ▼"
		}
		if len(spec) > 1 {
			mark += fmt.Sprint(i + 1)
		}
		return mark
	}
	return ""
}

// Body renders height lines of rows starting at the first visible row.
func (v *gridView) Body(width, height int) []string {
	g := v.g
	rows := g.Rows()
	out := make([]string, 0, height)
	if len(g.Fields()) == 0 {
		return append(out, EmptyStyle.Render("No columns."))
	}
	if len(rows) == 0 {
		return append(out, EmptyStyle.Render("No rows. Press ctrl+n to add one."))
	}
	slots := make(map[int]*grid.RowSlot)
	for _, s := range g.VisibleRows() {
		slots[s.Index] = s
	}
	win := g.Window()
	first := win.FirstVisible()
	for i := 0; i < height && first+i < len(rows); i++ {
		row := first + i
		editingRow := v.editor.active() && v.editor.cell.Row == row
		if line, ok := v.lines[row]; ok && !editingRow {
			out = append(out, line)
			continue
		}
		line := v.buildLine(row, slots[row], width)
		if !editingRow {
			v.lines[row] = line
		}
		out = append(out, line)
	}
	return out
}

func (v *gridView) buildLine(row int, slot *grid.RowSlot, width int) string {
	v.builds++
	g := v.g
	rs := g.RowState(row)
	var b strings.Builder
	if gw := v.gutterWidth(); gw > 0 {
		num := fmt.Sprintf("%*d", gw-1, row+1)
		if rs.New {
			num = fmt.Sprintf("%*s", gw-1, "+")
		}
		style := RowNumberStyle
		if rs.Invalid {
			style = ErrorStyle
		} else if rs.Modified {
			style = ModifiedStyle
		}
		b.WriteString(style.Render(num) + GetSeparator(false))
	}
	v.eachColumn(width-v.gutterWidth(), func(col, skip, w int, last bool) {
		cs := g.CellState(row, col)
		var cell string
		if cs.Editing && v.editor.active() {
			cell = v.editor.view(w)
		} else {
			text := g.CellText(row, col)
			if slot != nil && col < len(slot.Text) {
				text = slot.Text[col]
			}
			f := g.Fields()[col]
			text = cutLeft(fit(text, g.Columns().Widths[col], f.EffectiveAlign()), skip)
			cell = CellStyle(rs, cs).Render(fit(text, w, dataset.AlignLeft))
		}
		b.WriteString(cell)
		if !last {
			b.WriteString(GetSeparator(rs.Focused))
		}
	})
	return b.String()
}

// eachColumn calls fn for every column that intersects the horizontal
// window [scrollX, scrollX+width). skip is how many cells of the column
// are scrolled off to the left and w how many are shown.
func (v *gridView) eachColumn(width int, fn func(col, skip, w int, last bool)) {
	cols := v.g.Columns()
	left, right := v.scrollX, v.scrollX+width
	for col, cw := range cols.Widths {
		x := cols.Offset(col)
		end := x + cw
		if end+cols.Gap <= left {
			continue
		}
		if x >= right {
			return
		}
		skip := max(left-x, 0)
		w := min(end, right) - x - skip
		last := col == len(cols.Widths)-1 || end+cols.Gap > right
		if w > 0 {
			fn(col, skip, w, last)
		} else if !last {
			fn(col, skip, 0, last)
		}
	}
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int, align dataset.Align) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	pad := width - lipgloss.Width(s)
	switch align {
	case dataset.AlignRight:
		return strings.Repeat(" ", pad) + s
	case dataset.AlignCenter:
		return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
	}
	return padding.String(s, uint(width))
}

// cutLeft drops the first n cells of plain text s.
func cutLeft(s string, n int) string {
	if n <= 0 {
		return s
	}
	for i, r := range s {
		if n <= 0 {
			return s[i:]
		}
		n -= lipgloss.Width(string(r))
	}
	return ""
}
