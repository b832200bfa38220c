package grid

import (
	"unicode/utf8"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// Caret tells the view where to put the caret when editing starts.
type Caret int

const (
	CaretSelectAll Caret = iota
	CaretLeft
	CaretRight
)

// EditSession is the edit state machine of a grid. It is Idle or Editing
// the grid's focused cell; it never edits any other cell.
type EditSession struct {
	g      *Grid
	active bool
	text   string
	caret  int
}

// Active reports whether a cell is being edited.
func (e *EditSession) Active() bool { return e.active }

// Text returns the editor text.
func (e *EditSession) Text() string { return e.text }

// Caret returns the caret position in runes.
func (e *EditSession) Caret() int { return e.caret }

// SetCaret records the caret position reported by the view.
func (e *EditSession) SetCaret(pos int) {
	e.caret = min(max(pos, 0), utf8.RuneCountInString(e.text))
}

func (e *EditSession) atEdge(cols int) bool {
	if cols < 0 {
		return e.caret == 0
	}
	return e.caret == utf8.RuneCountInString(e.text)
}

// Enter starts editing the focused cell. It is a no-op returning false
// when already editing or when the cell cannot be changed.
func (e *EditSession) Enter(hint Caret) bool {
	if e.active {
		return false
	}
	g := e.g
	if !g.focus.Valid() || !g.d.CanChangeCell(g.focusedRow(), g.focusedField()) {
		return false
	}
	e.start(g.CellText(g.focus.Row, g.focus.Col), hint)
	return true
}

func (e *EditSession) start(text string, hint Caret) {
	e.active = true
	e.text = text
	e.caret = utf8.RuneCountInString(text)
	if hint == CaretLeft {
		e.caret = 0
	}
	e.g.damage(e.g.focus.Row, e.g.focus.Col)
	e.g.view.Editing(e.g.focus, text, hint)
}

// Input takes new editor text. Depending on the commit policy it is
// committed right away or kept as unsaved. It reports false when a
// commit triggered by the input failed.
func (e *EditSession) Input(text string) bool {
	if !e.active {
		return false
	}
	g := e.g
	r, f := g.focusedRow(), g.focusedField()
	e.text = text
	e.caret = min(e.caret, utf8.RuneCountInString(text))
	g.flags.input(r, f.Index, text)
	g.damage(g.focus.Row, -1)
	if g.cfg.SaveCellOn == SaveCellOnInput && !e.saveCell(r, f) {
		return false
	}
	if g.cfg.SaveRowOn == SaveRowOnInput && !e.saveRow(r) {
		return false
	}
	return true
}

// Exit leaves edit mode. Without cancel the cell and row are committed
// as the policy says, and an invalid cell keeps the session open when
// PreventExitEdit is set. With cancel the cell is reverted instead.
func (e *EditSession) Exit(cancel bool) bool {
	if !e.active {
		return true
	}
	g := e.g
	r, f := g.focusedRow(), g.focusedField()
	if cancel {
		g.flags.revert(r, f.Index)
	} else {
		if g.cfg.SaveCellOn == SaveCellOnExitEdit {
			e.saveCell(r, f)
		}
		if g.cfg.SaveRowOn == SaveRowOnExitEdit {
			e.saveRow(r)
		}
		if g.cfg.PreventExitEdit && !g.cfg.AllowInvalidValues && g.flags.Cell(r, f.Index).Invalid {
			g.log.Printf("grid: staying in %s: %s", f.Name, g.flags.Cell(r, f.Index).Message)
			return false
		}
	}
	e.stop()
	return true
}

func (e *EditSession) stop() {
	e.active = false
	e.text = ""
	e.caret = 0
	e.g.damage(e.g.focus.Row, e.g.focus.Col)
	e.g.view.EditEnded(e.g.focus)
}

// Revert discards the focused cell's uncommitted text and shows the
// dataset value again. Committed values are not touched.
func (e *EditSession) Revert() {
	g := e.g
	if !g.focus.Valid() {
		return
	}
	g.flags.revert(g.focusedRow(), g.focusedField().Index)
	g.damage(g.focus.Row, -1)
	if e.active {
		e.text = g.CellText(g.focus.Row, g.focus.Col)
		e.caret = utf8.RuneCountInString(e.text)
		g.view.Editing(g.focus, e.text, CaretSelectAll)
	}
}

// exitRow runs the row-exit policy before focus leaves the focused row.
func (e *EditSession) exitRow() bool {
	g := e.g
	r := g.focusedRow()
	if r == nil {
		return true
	}
	if g.cfg.SaveRowOn == SaveRowOnExitRow {
		e.saveRow(r)
	}
	if g.cfg.PreventExitRow {
		if g.flags.Row(r).Invalid || (!g.cfg.AllowInvalidValues && g.flags.InvalidValues(r)) {
			g.log.Printf("grid: staying on row %d: invalid values", g.focus.Row)
			return false
		}
	}
	return e.Exit(false)
}

// saveCell offers a cell's unsaved text to the dataset.
func (e *EditSession) saveCell(r *dataset.Row, f *dataset.Field) bool {
	g := e.g
	c := g.flags.Cell(r, f.Index)
	if !c.Unsaved {
		return !c.Invalid
	}
	err := g.d.SetVal(r, f, c.Text)
	g.flags.committed(r, f.Index, err)
	if err != nil {
		g.log.Printf("grid: %s rejected %q: %v", f.Name, c.Text, err)
	}
	g.damageRow(r)
	return err == nil
}

// saveRow settles every cell of r and then validates the row if any
// cell was committed since the last validation.
func (e *EditSession) saveRow(r *dataset.Row) bool {
	g := e.g
	fields := g.d.Fields()
	for _, fi := range g.flags.cells(r) {
		if !e.saveCell(r, fields[fi]) {
			return false
		}
	}
	if !g.flags.Row(r).Unsaved {
		return !g.flags.Invalid(r)
	}
	err := g.d.ValidateRow(r)
	g.flags.validated(r, err)
	if err != nil {
		g.log.Printf("grid: row rejected: %v", err)
	}
	g.damageRow(r)
	return err == nil
}
