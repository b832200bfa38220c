package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/gridkit/pkg/grid"
)

// cellEditor is the text input shown over the cell being edited. The
// grid owns the edit session; the editor only reports text and caret.
type cellEditor struct {
	input textinput.Model
	cell  grid.Cell
	// replace is set after a select-all start: the next typed rune
	// replaces the whole text.
	replace bool
}

func newCellEditor() *cellEditor {
	ti := textinput.New()
	ti.Prompt = ""
	ti.TextStyle = EditingCellStyle
	ti.Cursor.Style = EditingCellStyle.Reverse(true)
	return &cellEditor{input: ti, cell: grid.NoCell}
}

// open puts text in the editor and places the caret as the grid asks.
func (e *cellEditor) open(c grid.Cell, text string, caret grid.Caret) {
	e.cell = c
	e.input.SetValue(text)
	e.replace = caret == grid.CaretSelectAll
	if caret == grid.CaretLeft {
		e.input.CursorStart()
	} else {
		e.input.CursorEnd()
	}
	e.input.Focus()
}

func (e *cellEditor) close() {
	e.cell = grid.NoCell
	e.replace = false
	e.input.Blur()
}

func (e *cellEditor) active() bool {
	return e.cell != grid.NoCell
}

// update feeds a key to the text input. It returns the new text and
// whether the text changed.
func (e *cellEditor) update(msg tea.KeyMsg) (string, bool, tea.Cmd) {
	before := e.input.Value()
	if e.replace && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
		e.input.SetValue("")
	}
	e.replace = false
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	after := e.input.Value()
	return after, after != before, cmd
}

func (e *cellEditor) position() int {
	return e.input.Position()
}

// view renders the editor into a cell of the given width.
func (e *cellEditor) view(width int) string {
	e.input.Width = max(width-1, 1)
	if e.replace {
		return fit(EditingCellStyle.Reverse(true).Render(e.input.Value()), width, "left")
	}
	return fit(e.input.View(), width, "left")
}
