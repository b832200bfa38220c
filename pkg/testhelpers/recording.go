package testhelpers

import (
	"github.com/pluqqy/gridkit/pkg/grid"
)

// Damage is one recorded View.Damage call.
type Damage struct {
	Row, Col int
}

// RecordingView is a grid.View that records what the grid asked it to
// redraw.
type RecordingView struct {
	Renders  int
	Scrolls  [][2]int
	Damages  []Damage
	Edits    []grid.Cell
	EditText string
	Caret    grid.Caret
	Ended    []grid.Cell
}

var _ grid.View = (*RecordingView)(nil)

func (v *RecordingView) Render() { v.Renders++ }

func (v *RecordingView) Scrolled(x, y int) {
	v.Scrolls = append(v.Scrolls, [2]int{x, y})
}

func (v *RecordingView) Damage(row, col int) {
	v.Damages = append(v.Damages, Damage{Row: row, Col: col})
}

func (v *RecordingView) Editing(c grid.Cell, text string, caret grid.Caret) {
	v.Edits = append(v.Edits, c)
	v.EditText = text
	v.Caret = caret
}

func (v *RecordingView) EditEnded(c grid.Cell) {
	v.Ended = append(v.Ended, c)
}

// Reset forgets everything recorded so far.
func (v *RecordingView) Reset() {
	*v = RecordingView{}
}
