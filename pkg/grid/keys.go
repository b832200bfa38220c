package grid

import (
	"math"
	"unicode"
)

// KeyCode identifies a key the grid binds.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyTab
	KeyEnter
	KeyEscape
	KeyF2
	KeyInsert
	KeyDelete
	KeyRune
)

var keyNames = map[KeyCode]string{
	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyPageUp:   "pgup",
	KeyPageDown: "pgdown",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyTab:      "tab",
	KeyEnter:    "enter",
	KeyEscape:   "esc",
	KeyF2:       "f2",
	KeyInsert:   "insert",
	KeyDelete:   "delete",
	KeyRune:     "rune",
}

func (k KeyCode) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "none"
}

// Key is a key press. Rune is set for KeyRune.
type Key struct {
	Code  KeyCode
	Shift bool
	Rune  rune
}

// HandleKey applies the grid's key bindings and reports whether the key
// was consumed. Keys that are not consumed while editing belong to the
// editor.
func (g *Grid) HandleKey(k Key) bool {
	editing := g.edit.active
	reenter := editing && g.cfg.KeepEditing

	switch k.Code {
	case KeyLeft, KeyRight:
		cols := 1
		if k.Code == KeyLeft {
			cols = -1
		}
		move := !editing || (g.cfg.AutoJumpCells && !k.Shift && g.edit.atEdge(cols))
		if move && g.FocusNextCell(cols, false) {
			if reenter {
				g.edit.Enter(enterSide(cols))
			}
			return true
		}
		return false

	case KeyTab:
		cols := 1
		if k.Shift {
			cols = -1
		}
		if g.FocusNextCell(cols, true) && reenter {
			g.edit.Enter(enterSide(cols))
		}
		return true

	case KeyDown:
		if g.cfg.AppendOnArrowDown && g.onLastRow() && !g.onUntouchedNewRow() {
			if g.AddRow() {
				return true
			}
		}
		return g.moveRows(1, reenter)

	case KeyUp:
		if g.onLastRow() && g.onUntouchedNewRow() {
			return g.RemoveFocusedRow()
		}
		return g.moveRows(-1, reenter)

	case KeyPageDown:
		return g.moveRows(g.PageRows(), reenter)

	case KeyPageUp:
		return g.moveRows(-g.PageRows(), reenter)

	case KeyHome, KeyEnd:
		if editing {
			return false
		}
		if k.Code == KeyHome {
			return g.FocusNearCell(math.MinInt, 0)
		}
		return g.FocusNearCell(math.MaxInt, 0)

	case KeyF2:
		if editing {
			return false
		}
		g.edit.Enter(CaretSelectAll)
		return true

	case KeyEnter:
		if !editing {
			g.edit.Enter(CaretSelectAll)
			return true
		}
		if !g.edit.Exit(false) {
			return true
		}
		switch g.cfg.AutoAdvance {
		case AdvanceNextRow:
			if g.FocusNearCell(1, 0) && g.cfg.KeepEditing {
				g.edit.Enter(CaretSelectAll)
			}
		case AdvanceNextCell:
			if g.FocusNextCell(1, false) && g.cfg.KeepEditing {
				g.edit.Enter(CaretSelectAll)
			}
		}
		return true

	case KeyEscape:
		if editing {
			g.edit.Exit(true)
		} else {
			g.edit.Revert()
		}
		return true

	case KeyInsert:
		g.InsertRow()
		return true

	case KeyDelete:
		if editing {
			return false
		}
		g.RemoveFocusedRow()
		return true

	case KeyRune:
		if editing || !unicode.IsPrint(k.Rune) {
			return false
		}
		return g.quickEdit(string(k.Rune))
	}
	return false
}

func enterSide(cols int) Caret {
	if cols > 0 {
		return CaretLeft
	}
	return CaretRight
}

func (g *Grid) moveRows(n int, reenter bool) bool {
	if !g.FocusNearCell(n, 0) {
		return false
	}
	if reenter {
		g.edit.Enter(CaretSelectAll)
	}
	return true
}

func (g *Grid) onLastRow() bool {
	return g.focus.Row >= 0 && g.focus.Row == len(g.rows)-1
}

func (g *Grid) onUntouchedNewRow() bool {
	r := g.focusedRow()
	return r != nil && r.IsNew && !g.flags.Modified(r)
}

// quickEdit starts editing with text replacing the cell content, as when
// typing over a focused cell.
func (g *Grid) quickEdit(text string) bool {
	if !g.focus.Valid() || !g.d.CanChangeCell(g.focusedRow(), g.focusedField()) {
		return false
	}
	g.edit.start(text, CaretRight)
	g.edit.Input(text)
	return true
}
