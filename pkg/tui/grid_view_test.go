package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/grid"
	"github.com/pluqqy/gridkit/pkg/order"
	"github.com/pluqqy/gridkit/pkg/testhelpers"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		align dataset.Align
		want  string
	}{
		{"pads left aligned", "abc", 5, dataset.AlignLeft, "abc  "},
		{"pads right aligned", "abc", 5, dataset.AlignRight, "  abc"},
		{"centers", "abc", 5, dataset.AlignCenter, " abc "},
		{"truncates with tail", "abcdef", 4, dataset.AlignLeft, "abc…"},
		{"exact width", "abcd", 4, dataset.AlignRight, "abcd"},
		{"zero width", "abc", 0, dataset.AlignLeft, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fit(tt.text, tt.width, tt.align); got != tt.want {
				t.Errorf("fit(%q, %d, %s) = %q, want %q", tt.text, tt.width, tt.align, got, tt.want)
			}
		})
	}
}

func TestCutLeft(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"abcdef", 0, "abcdef"},
		{"abcdef", 2, "cdef"},
		{"abc", 3, ""},
		{"abc", 10, ""},
	}

	for _, tt := range tests {
		if got := cutLeft(tt.text, tt.n); got != tt.want {
			t.Errorf("cutLeft(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}

func TestOrderMark(t *testing.T) {
	d := testhelpers.NewPeople(dataset.DefaultOptions())
	id, name := d.Field("id"), d.Field("name")

	single := order.Spec{{Field: name, Dir: order.Desc}}
	if got := orderMark(single, name); got != " ▼" {
		t.Errorf("expected descending mark, got %q", got)
	}
	if got := orderMark(single, id); got != "" {
		t.Errorf("expected no mark for an unsorted column, got %q", got)
	}

	multi := order.Spec{{Field: id, Dir: order.Asc}, {Field: name, Dir: order.Asc}}
	if got := orderMark(multi, name); got != " ▲2" {
		t.Errorf("expected position in a multi-key order, got %q", got)
	}
}

// newViewGrid mounts a gridView on a numbered dataset.
func newViewGrid(t *testing.T, rows, cols int, gutter bool) (*grid.Grid, *gridView) {
	t.Helper()
	d := testhelpers.NewNumbered(dataset.DefaultOptions(), rows, cols)
	g := grid.New(d, grid.DefaultConfig())
	v := newGridView(newCellEditor(), gutter)
	v.g = g
	g.Mount(v)
	t.Cleanup(g.Unmount)
	g.Resize(40, 5)
	g.FocusCell(grid.Cell{Row: 0, Col: 1}, true)
	return g, v
}

func TestGridView_BodyIsVirtualized(t *testing.T) {
	_, v := newViewGrid(t, 100, 2, false)

	lines := v.Body(40, 5)
	if len(lines) != 5 {
		t.Fatalf("expected 5 body lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "r0c0") || !strings.Contains(lines[4], "r4c0") {
		t.Errorf("expected rows 0-4, got %q ... %q", lines[0], lines[4])
	}
	if v.builds != 5 {
		t.Errorf("expected only visible rows to be built, got %d builds", v.builds)
	}
}

func TestGridView_DamageRebuildsOnlyTouchedRows(t *testing.T) {
	g, v := newViewGrid(t, 20, 2, true)
	v.Body(40, 5)
	v.builds = 0

	g.HandleKey(grid.Key{Code: grid.KeyDown})
	v.Body(40, 5)

	if v.builds != 2 {
		t.Errorf("expected the old and new focus rows to rebuild, got %d builds", v.builds)
	}

	v.builds = 0
	v.Body(40, 5)
	if v.builds != 0 {
		t.Errorf("expected cached lines to be reused, got %d builds", v.builds)
	}
}

func TestGridView_RenderDropsCache(t *testing.T) {
	g, v := newViewGrid(t, 20, 2, false)
	v.Body(40, 5)
	v.builds = 0
	renders := v.renders

	g.ToggleOrder(g.Fields()[0], false)
	v.Body(40, 5)

	if v.renders <= renders {
		t.Error("expected a re-sort to request a full render")
	}
	if v.builds != 5 {
		t.Errorf("expected every visible row to rebuild, got %d", v.builds)
	}
}

func TestGridView_EditingRowIsNeverCached(t *testing.T) {
	g, v := newViewGrid(t, 5, 2, false)
	g.EnterEdit(grid.CaretRight)
	if !v.editor.active() {
		t.Fatal("expected the editor to open")
	}
	if got := v.editor.input.Value(); got != "r0c0" {
		t.Errorf("expected editor to hold the cell text, got %q", got)
	}

	v.Body(40, 5)
	v.builds = 0
	v.Body(40, 5)
	if v.builds != 1 {
		t.Errorf("expected the editing row to rebuild every frame, got %d", v.builds)
	}

	g.ExitEdit(true)
	if v.editor.active() {
		t.Error("expected the editor to close")
	}
}

func TestGridView_HorizontalScroll(t *testing.T) {
	g, v := newViewGrid(t, 3, 6, false)
	// id is 4 wide and every other column 6, plus a 1 cell gap
	g.Resize(14, 5)
	g.ScrollTo(12, 0)

	var seen []int
	v.eachColumn(14, func(col, skip, w int, last bool) {
		seen = append(seen, col, skip, w)
	})
	// c1 starts at 12, c2 at 19; the window ends at 26
	want := []int{2, 0, 6, 3, 0, 6}
	if len(seen) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected columns %v, got %v", want, seen)
		}
	}

	header := v.Header(14)
	if !strings.Contains(header[0], "c1") || strings.Contains(header[0], "c0") {
		t.Errorf("expected header scrolled to c1, got %q", header[0])
	}
}

func TestGridView_EmptyStates(t *testing.T) {
	a := newTestApp(t, &memSource{
		fields: testhelpers.PeopleFields,
		rows:   func() []*dataset.Row { return nil },
	})
	a.Update(tea.WindowSizeMsg{Width: 60, Height: 10})

	if !strings.Contains(a.View(), "No rows") {
		t.Error("expected the empty table hint")
	}
}
