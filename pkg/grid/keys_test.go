package grid_test

import (
	"testing"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/grid"
	"github.com/pluqqy/gridkit/pkg/testhelpers"
)

func press(g *grid.Grid, code grid.KeyCode) bool {
	return g.HandleKey(grid.Key{Code: code})
}

func TestHandleKey_Navigation(t *testing.T) {
	cfg := grid.DefaultConfig()
	cfg.AutoAdvanceRow = false
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 5, 2)

	tests := []struct {
		name     string
		from     grid.Cell
		key      grid.Key
		want     grid.Cell
		consumed bool
	}{
		{"right", grid.Cell{Row: 1, Col: 0}, grid.Key{Code: grid.KeyRight}, grid.Cell{Row: 1, Col: 1}, true},
		{"left", grid.Cell{Row: 1, Col: 1}, grid.Key{Code: grid.KeyLeft}, grid.Cell{Row: 1, Col: 0}, true},
		{"right at row end", grid.Cell{Row: 1, Col: 2}, grid.Key{Code: grid.KeyRight}, grid.Cell{Row: 1, Col: 2}, false},
		{"tab wraps", grid.Cell{Row: 1, Col: 2}, grid.Key{Code: grid.KeyTab}, grid.Cell{Row: 2, Col: 0}, true},
		{"shift tab wraps back", grid.Cell{Row: 1, Col: 0}, grid.Key{Code: grid.KeyTab, Shift: true}, grid.Cell{Row: 0, Col: 2}, true},
		{"down", grid.Cell{Row: 1, Col: 1}, grid.Key{Code: grid.KeyDown}, grid.Cell{Row: 2, Col: 1}, true},
		{"up", grid.Cell{Row: 1, Col: 1}, grid.Key{Code: grid.KeyUp}, grid.Cell{Row: 0, Col: 1}, true},
		{"up at top", grid.Cell{Row: 0, Col: 1}, grid.Key{Code: grid.KeyUp}, grid.Cell{Row: 0, Col: 1}, false},
		{"home", grid.Cell{Row: 3, Col: 2}, grid.Key{Code: grid.KeyHome}, grid.Cell{Row: 0, Col: 2}, true},
		{"end", grid.Cell{Row: 1, Col: 2}, grid.Key{Code: grid.KeyEnd}, grid.Cell{Row: 4, Col: 2}, true},
		{"page down saturates", grid.Cell{Row: 0, Col: 0}, grid.Key{Code: grid.KeyPageDown}, grid.Cell{Row: 4, Col: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := mount(t, d, cfg, 80, 20)
			g.FocusCell(tt.from, true)
			if got := g.HandleKey(tt.key); got != tt.consumed {
				t.Errorf("HandleKey(%v) = %v, want %v", tt.key.Code, got, tt.consumed)
			}
			if got := g.Focus(); got != tt.want {
				t.Errorf("Focus() = %+v, want %+v", got, tt.want)
			}
			g.Unmount()
		})
	}
}

func TestHandleKey_ArrowsJumpCellsAtCaretEdge(t *testing.T) {
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 3, 2)
	g, v := mount(t, d, grid.DefaultConfig(), 80, 10)
	g.FocusCell(grid.Cell{Row: 0, Col: 1}, true)
	g.EnterEdit(grid.CaretLeft)

	if press(g, grid.KeyRight) {
		t.Fatal("KeyRight with the caret inside the text belongs to the editor")
	}
	g.SetCaret(len("r0c0"))
	if !press(g, grid.KeyRight) {
		t.Fatal("KeyRight at the end of the text should jump cells")
	}
	if got := g.Focus(); got != (grid.Cell{Row: 0, Col: 2}) {
		t.Errorf("Focus() = %+v", got)
	}
	if !g.Editing().Active() || v.Caret != grid.CaretLeft || v.EditText != "r0c1" {
		t.Errorf("editing=%v caret=%v text=%q, want the next cell opened at its start",
			g.Editing().Active(), v.Caret, v.EditText)
	}

	if !press(g, grid.KeyLeft) {
		t.Fatal("KeyLeft at the start of the text should jump cells")
	}
	if got := g.Focus(); got != (grid.Cell{Row: 0, Col: 1}) || v.Caret != grid.CaretRight {
		t.Errorf("Focus() = %+v caret %v", got, v.Caret)
	}
	if g.HandleKey(grid.Key{Code: grid.KeyRight, Shift: true}) {
		t.Error("shifted arrows select text and should stay with the editor")
	}
}

func TestHandleKey_EnterAdvances(t *testing.T) {
	tests := []struct {
		name    string
		advance grid.AutoAdvance
		want    grid.Cell
	}{
		{"next row", grid.AdvanceNextRow, grid.Cell{Row: 1, Col: 1}},
		{"next cell", grid.AdvanceNextCell, grid.Cell{Row: 0, Col: 2}},
		{"none", grid.AdvanceNone, grid.Cell{Row: 0, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := grid.DefaultConfig()
			cfg.AutoAdvance = tt.advance
			d := testhelpers.NewNumbered(dataset.DefaultOptions(), 3, 2)
			g, _ := mount(t, d, cfg, 80, 10)
			g.FocusCell(grid.Cell{Row: 0, Col: 1}, true)

			press(g, grid.KeyEnter)
			if !g.Editing().Active() {
				t.Fatal("Enter should start editing")
			}
			g.Input("x")
			press(g, grid.KeyEnter)

			if got := g.Focus(); got != tt.want {
				t.Errorf("Focus() = %+v, want %+v", got, tt.want)
			}
			if got := d.Rows()[0].Values[1]; got != "x" {
				t.Errorf("value = %v, want %q", got, "x")
			}
			wantEditing := tt.advance != grid.AdvanceNone
			if got := g.Editing().Active(); got != wantEditing {
				t.Errorf("Editing().Active() = %v, want %v", got, wantEditing)
			}
		})
	}
}

func TestHandleKey_EscapeCancelsEdit(t *testing.T) {
	cfg := grid.DefaultConfig()
	cfg.SaveCellOn = grid.SaveCellOnExitEdit
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 3, 2)
	g, v := mount(t, d, cfg, 80, 10)
	g.FocusCell(grid.Cell{Row: 1, Col: 2}, true)

	press(g, grid.KeyF2)
	g.Input("zzz")
	if !press(g, grid.KeyEscape) {
		t.Fatal("Escape not consumed")
	}
	if g.Editing().Active() {
		t.Error("Escape should end editing")
	}
	if len(v.Ended) != 1 {
		t.Errorf("EditEnded called %d times", len(v.Ended))
	}
	if got := g.CellText(1, 2); got != "r1c1" {
		t.Errorf("CellText() = %q", got)
	}
}

func TestHandleKey_TypingStartsEdit(t *testing.T) {
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 3, 2)
	g, v := mount(t, d, grid.DefaultConfig(), 80, 10)
	g.FocusCell(grid.Cell{Row: 2, Col: 1}, true)

	if !g.HandleKey(grid.Key{Code: grid.KeyRune, Rune: 'q'}) {
		t.Fatal("printable rune not consumed")
	}
	if !g.Editing().Active() || g.Editing().Text() != "q" || v.EditText != "q" {
		t.Errorf("editing=%v text=%q view=%q", g.Editing().Active(), g.Editing().Text(), v.EditText)
	}
	if got := d.Rows()[2].Values[1]; got != "q" {
		t.Errorf("value = %v, want the typed text committed on input", got)
	}
	if g.HandleKey(grid.Key{Code: grid.KeyRune, Rune: 'r'}) {
		t.Error("runes while editing belong to the editor")
	}
}

func TestHandleKey_ArrowDownAppendsRow(t *testing.T) {
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 2, 1)
	g, _ := mount(t, d, grid.DefaultConfig(), 80, 10)
	g.FocusCell(grid.Cell{Row: 1, Col: 1}, true)

	if !press(g, grid.KeyDown) {
		t.Fatal("KeyDown on the last row should append")
	}
	if got := len(g.Rows()); got != 3 {
		t.Fatalf("len(Rows()) = %d, want 3", got)
	}
	if got := g.Focus(); got != (grid.Cell{Row: 2, Col: 1}) {
		t.Errorf("Focus() = %+v", got)
	}
	if !g.FocusedRow().IsNew {
		t.Error("focused row should be the new row")
	}

	press(g, grid.KeyDown)
	if got := len(g.Rows()); got != 3 {
		t.Errorf("len(Rows()) = %d, an untouched new row should not be followed by another", got)
	}

	if !press(g, grid.KeyUp) {
		t.Fatal("KeyUp not consumed")
	}
	if got := len(d.Rows()); got != 2 {
		t.Errorf("len(d.Rows()) = %d, KeyUp should drop the untouched new row", got)
	}
	if got := g.Focus(); got != (grid.Cell{Row: 1, Col: 1}) {
		t.Errorf("Focus() = %+v", got)
	}
}

func TestHandleKey_ArrowDownKeepsTouchedRow(t *testing.T) {
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 1, 1)
	g, _ := mount(t, d, grid.DefaultConfig(), 80, 10)
	g.FocusCell(grid.Cell{Row: 0, Col: 1}, true)

	press(g, grid.KeyDown)
	g.HandleKey(grid.Key{Code: grid.KeyRune, Rune: 'n'})
	press(g, grid.KeyUp)

	if got := len(d.Rows()); got != 2 {
		t.Errorf("len(d.Rows()) = %d, an edited new row must survive KeyUp", got)
	}
}

func TestHandleKey_InsertAndDelete(t *testing.T) {
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), 3, 1)
	g, _ := mount(t, d, grid.DefaultConfig(), 80, 10)
	g.FocusCell(grid.Cell{Row: 1, Col: 1}, true)

	press(g, grid.KeyInsert)
	if got := ids(g.Rows()); len(got) != 4 || g.Rows()[1].IsNew != true {
		t.Fatalf("rows = %v, want the new row at the focused position", got)
	}
	if got := g.Focus(); got.Row != 1 {
		t.Errorf("Focus() = %+v, want the inserted row", got)
	}

	press(g, grid.KeyDelete)
	if got := ids(g.Rows()); len(got) != 3 || got[1] != 1 {
		t.Errorf("rows = %v after deleting the new row", got)
	}

	press(g, grid.KeyDelete)
	if !d.Rows()[1].Removed {
		t.Error("Delete should soft-remove a stored row")
	}
	if got := ids(g.Rows()); len(got) != 2 {
		t.Errorf("rows = %v, removed rows are not displayed", got)
	}
	if got := g.FocusedRow(); got != d.Rows()[2] {
		t.Errorf("focus should move to the next row")
	}
}
