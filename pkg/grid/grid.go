// Package grid is a virtualized, editable, sortable table controller over
// a dataset. It owns focus, the edit session, the display order and the
// scroll window, and tells a View which parts need to be redrawn.
package grid

import (
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/order"
	"github.com/pluqqy/gridkit/pkg/viewport"
)

const defaultColumnWidth = 10

// View is what a Grid drives. Damage calls only name cells or rows whose
// appearance changed; Render means everything did.
type View interface {
	Render()
	Scrolled(x, y int)
	// Damage marks a cell for redraw. col -1 marks the whole row.
	Damage(row, col int)
	// Editing is called when edit mode starts on c, and again whenever
	// the editor text is replaced by the grid.
	Editing(c Cell, text string, caret Caret)
	EditEnded(c Cell)
}

type nopView struct{}

func (nopView) Render() {}

func (nopView) Scrolled(int, int) {}

func (nopView) Damage(int, int) {}

func (nopView) Editing(Cell, string, Caret) {}

func (nopView) EditEnded(Cell) {}

// RowSlot is a materialized row of the scroll window. Slots are reused as
// the window slides.
type RowSlot struct {
	Index  int // display index
	Row    *dataset.Row
	Text   []string // formatted cell text per visible column
	Widths []int
}

type resizeState struct {
	col    int
	startX int
	startW int
}

// Grid is the controller. It is not safe for concurrent use; every call,
// including dataset events, is expected on one goroutine.
type Grid struct {
	cfg  Config
	d    *dataset.Dataset
	log  *log.Logger
	view View

	unsubscribe func()
	mounted     bool
	visible     bool

	cols   []*dataset.Field
	widths []int
	order  order.Spec
	filter func(*dataset.Row) bool
	rows   []*dataset.Row
	index  map[*dataset.Row]int

	focus    Cell
	edit     EditSession
	flags    *Flags
	win      viewport.Window
	slots    *viewport.Slots[RowSlot]
	resizing *resizeState
	insertAt int
}

// New creates a grid over d. The grid does not follow dataset events
// until it is mounted.
func New(d *dataset.Dataset, cfg Config) *Grid {
	if cfg.RowHeight < 1 {
		cfg.RowHeight = 1
	}
	g := &Grid{
		cfg:      cfg,
		d:        d,
		log:      cfg.logger(),
		view:     nopView{},
		visible:  true,
		index:    make(map[*dataset.Row]int),
		focus:    NoCell,
		flags:    NewFlags(),
		insertAt: -1,
	}
	g.edit.g = g
	g.win.RowHeight = cfg.RowHeight
	g.slots = viewport.NewSlots(func() *RowSlot { return &RowSlot{} })
	if cfg.Order != "" {
		if err := g.setOrder(cfg.Order); err != nil {
			g.log.Printf("grid: ignoring order %q: %v", cfg.Order, err)
		}
	}
	g.reload()
	return g
}

// Mount attaches a view, starts following dataset events and rebuilds.
func (g *Grid) Mount(view View) {
	if g.mounted {
		g.Unmount()
	}
	if view == nil {
		view = nopView{}
	}
	g.view = view
	g.mounted = true
	g.unsubscribe = g.d.Subscribe(g.onEvent)
	g.Reload()
}

// Unmount detaches the view and stops following dataset events.
func (g *Grid) Unmount() {
	if !g.mounted {
		return
	}
	g.unsubscribe()
	g.unsubscribe = nil
	g.mounted = false
	g.view = nopView{}
}

// SetVisible tells the grid whether its view is on screen. Events are
// ignored while hidden; becoming visible rebuilds.
func (g *Grid) SetVisible(visible bool) {
	if g.visible == visible {
		return
	}
	g.visible = visible
	if visible {
		g.Reload()
	}
}

func (g *Grid) live() bool {
	return g.mounted && g.visible
}

// Reload rebuilds columns, display order and slots from the dataset and
// restores focus by row and field identity.
func (g *Grid) Reload() {
	g.reload()
}

func (g *Grid) reload() {
	focusRow, focusField := g.focusedRow(), g.focusedField()
	if g.edit.active {
		g.edit.active = false
		g.view.EditEnded(g.focus)
	}
	g.dropStaleFlags()
	g.project()
	g.order = g.resolveOrder(g.order)
	g.rebuildRows()
	g.focus = NoCell
	if i, ok := g.index[focusRow]; ok {
		g.focus = Cell{Row: i, Col: g.colOf(focusField)}
		g.focus, _ = FirstFocusableCell(gridSpace{g: g}, g.focus, 0, 0)
	}
	g.relayout()
	g.view.Render()
}

// dropStaleFlags forgets edit state of rows that left the dataset. Rows
// that survive a bulk change such as ApplyChanges keep their pending text.
func (g *Grid) dropStaleFlags() {
	if g.flags.Len() == 0 {
		return
	}
	present := make(map[*dataset.Row]bool, g.d.RowCount())
	for _, r := range g.d.Rows() {
		if !r.Removed {
			present[r] = true
		}
	}
	g.flags.Retain(func(r *dataset.Row) bool { return present[r] })
}

// project resolves the visible columns.
func (g *Grid) project() {
	g.cols = g.cols[:0]
	if len(g.cfg.Columns) > 0 {
		for _, name := range g.cfg.Columns {
			if f := g.d.Field(name); f != nil {
				g.cols = append(g.cols, f)
			} else {
				g.log.Printf("grid: unknown column %q", name)
			}
		}
	} else {
		for _, f := range g.d.Fields() {
			if !f.Hidden {
				g.cols = append(g.cols, f)
			}
		}
	}
	g.widths = make([]int, len(g.cols))
	for i, f := range g.cols {
		w := f.Width
		if w == 0 {
			w = defaultColumnWidth
		}
		g.widths[i] = f.ClampWidth(w)
	}
}

// resolveOrder maps an order spec onto the current fields by name.
func (g *Grid) resolveOrder(spec order.Spec) order.Spec {
	var out order.Spec
	for _, k := range spec {
		if f := g.d.Field(k.Field.Name); f != nil {
			out = append(out, order.Key{Field: f, Dir: k.Dir})
		}
	}
	return out
}

func (g *Grid) rebuildRows() {
	live := make([]*dataset.Row, 0, g.d.RowCount())
	for _, r := range g.d.Rows() {
		if !r.Removed && g.keep(r) {
			live = append(live, r)
		}
	}
	g.rows = order.Sort(live, g.order, g.d, g.flags)
	g.reindex()
}

func (g *Grid) reindex() {
	clear(g.index)
	for i, r := range g.rows {
		g.index[r] = i
	}
}

// relayout updates the window for the current rows and columns and
// rebinds every slot.
func (g *Grid) relayout() {
	g.win.Rows = len(g.rows)
	g.win.ContentWidth = g.Columns().Total()
	g.win.Clamp()
	g.slots.Unbind()
	g.bindSlots()
}

func (g *Grid) bindSlots() []int {
	g.slots.Reserve(g.win.VisibleCount())
	first, end := g.win.Range()
	return g.slots.Bind(first, end-first, g.bindSlot)
}

func (g *Grid) bindSlot(s *RowSlot, i int) {
	s.Index = i
	s.Row = g.rows[i]
	s.Text = s.Text[:0]
	for c := range g.cols {
		s.Text = append(s.Text, g.CellText(i, c))
	}
	s.Widths = append(s.Widths[:0], g.widths...)
}

// damage refreshes a slot's text and tells the view.
func (g *Grid) damage(row, col int) {
	if row < 0 || row >= len(g.rows) {
		return
	}
	if s, ok := g.slots.Slot(row); ok {
		if col < 0 {
			g.bindSlot(s, row)
		} else if col < len(s.Text) {
			s.Text[col] = g.CellText(row, col)
		}
	}
	g.view.Damage(row, col)
}

func (g *Grid) damageRow(r *dataset.Row) {
	if i, ok := g.index[r]; ok {
		g.damage(i, -1)
	}
}

// reorder re-sorts the display rows keeping focus on the same row.
func (g *Grid) reorder() {
	focused := g.focusedRow()
	g.rebuildRows()
	g.refocus(focused)
	g.relayout()
	g.view.Render()
	g.scrollToFocus()
}

func (g *Grid) refocus(r *dataset.Row) {
	if i, ok := g.index[r]; ok {
		g.focus.Row = i
		return
	}
	g.focus = NoCell
}

func (g *Grid) onEvent(e dataset.Event) {
	if !g.live() {
		return
	}
	switch e.Kind {
	case dataset.ValueChanged:
		i, ok := g.index[e.Row]
		if !ok {
			return
		}
		if g.order.Has(e.Field) {
			g.reorder()
			return
		}
		g.damage(i, g.colOf(e.Field))
	case dataset.RowAdded:
		g.rowAdded(e.Row)
	case dataset.RowRemoved:
		g.rowRemoved(e.Row)
	case dataset.Reload:
		g.reload()
	}
}

func (g *Grid) rowAdded(r *dataset.Row) {
	pos := len(g.rows)
	if g.insertAt >= 0 && g.insertAt < pos {
		pos = g.insertAt
	}
	g.rows = slices.Insert(g.rows, pos, r)
	g.reindex()
	if g.focus.Row >= pos {
		g.focus.Row++
	}
	g.relayout()
	g.view.Render()
}

func (g *Grid) rowRemoved(r *dataset.Row) {
	i, ok := g.index[r]
	if !ok {
		return
	}
	var next *dataset.Row
	focused := g.focus.Row == i
	reenter := focused && g.edit.active && g.cfg.KeepEditing
	if focused {
		space := gridSpace{g: g}
		to, moved := FirstFocusableCell(space, g.focus, 1, 0)
		if !moved || to.Row == i {
			to, moved = FirstFocusableCell(space, g.focus, -1, 0)
		}
		if moved && to.Row >= 0 && to.Row != i {
			next = g.rows[to.Row]
		}
		if g.edit.active {
			g.edit.active = false
			g.view.EditEnded(g.focus)
		}
	}
	g.flags.Drop(r)
	g.rows = slices.Delete(g.rows, i, i+1)
	g.reindex()
	switch {
	case focused && next != nil:
		g.focus.Row = g.index[next]
	case focused:
		g.focus = NoCell
	case g.focus.Row > i:
		g.focus.Row--
	}
	g.relayout()
	g.view.Render()
	g.scrollToFocus()
	if reenter {
		g.edit.Enter(CaretSelectAll)
	}
}

// Focus returns the focused cell.
func (g *Grid) Focus() Cell { return g.focus }

func (g *Grid) focusedRow() *dataset.Row {
	if g.focus.Row < 0 || g.focus.Row >= len(g.rows) {
		return nil
	}
	return g.rows[g.focus.Row]
}

func (g *Grid) focusedField() *dataset.Field {
	if g.focus.Col < 0 || g.focus.Col >= len(g.cols) {
		return nil
	}
	return g.cols[g.focus.Col]
}

// FocusedRow returns the dataset row under focus, or nil.
func (g *Grid) FocusedRow() *dataset.Row { return g.focusedRow() }

// FocusedField returns the field under focus, or nil.
func (g *Grid) FocusedField() *dataset.Field { return g.focusedField() }

func (g *Grid) colOf(f *dataset.Field) int {
	for i, c := range g.cols {
		if c == f {
			return i
		}
	}
	return -1
}

func (g *Grid) navSpace() gridSpace {
	return gridSpace{g: g, edit: g.edit.active && g.cfg.KeepEditing}
}

// FocusCell moves focus to the first focusable cell at or after target.
// NoCell clears focus. Leaving the focused row runs the row-exit policy,
// staying on it runs the edit-exit policy; a refusal keeps focus where it
// is and returns false.
func (g *Grid) FocusCell(target Cell, scroll bool) bool {
	if target != NoCell {
		target, _ = FirstFocusableCell(gridSpace{g: g}, target, 0, 0)
	}
	return g.focusCell(target, scroll)
}

func (g *Grid) focusCell(to Cell, scroll bool) bool {
	if to == g.focus {
		return false
	}
	var target *dataset.Row
	if to.Row >= 0 {
		target = g.rows[to.Row]
	}
	if to.Row != g.focus.Row {
		if !g.edit.exitRow() {
			return false
		}
	} else if !g.edit.Exit(false) {
		return false
	}
	// committing may have re-sorted the rows
	if target != nil {
		to.Row = g.index[target]
	}
	prev := g.focus
	g.focus = to
	if prev.Row != to.Row {
		g.damage(prev.Row, -1)
		g.damage(to.Row, -1)
	}
	g.damage(prev.Row, prev.Col)
	g.damage(to.Row, to.Col)
	if scroll {
		g.scrollToFocus()
	}
	return true
}

// FocusNearCell moves focus by rowDelta rows and colDelta columns.
func (g *Grid) FocusNearCell(rowDelta, colDelta int) bool {
	to, _ := FirstFocusableCell(g.navSpace(), g.focus, rowDelta, colDelta)
	return g.focusCell(to, true)
}

// FocusNextCell moves focus cols columns. When the row has no more
// columns in that direction and row advance is on, it moves to the first
// (or last, going back) column of the next (or previous) row.
func (g *Grid) FocusNextCell(cols int, autoAdvanceRow bool) bool {
	if g.FocusNearCell(0, cols) {
		return true
	}
	if !autoAdvanceRow && !g.cfg.AutoAdvanceRow {
		return false
	}
	return g.FocusNearCell(sign(cols), -sign(cols)*math.MaxInt)
}

func (g *Grid) scrollToFocus() {
	if g.focus.Row < 0 {
		return
	}
	var rect viewport.Rect
	if g.focus.Col >= 0 {
		rect = g.Columns().CellRect(g.focus.Row, g.focus.Col, g.win.RowHeight)
	} else {
		rect = g.win.RowRect(g.focus.Row)
		rect.X, rect.W = g.win.ScrollX, 0
	}
	x, y := g.win.ScrollX, g.win.ScrollY
	g.win.MakeVisible(rect)
	if x != g.win.ScrollX || y != g.win.ScrollY {
		g.bindSlots()
		g.view.Scrolled(g.win.ScrollX, g.win.ScrollY)
	}
}

// ScrollTo scrolls the body to (x, y), clamped to the content.
func (g *Grid) ScrollTo(x, y int) {
	ox, oy := g.win.ScrollX, g.win.ScrollY
	g.win.ScrollTo(x, y)
	if ox != g.win.ScrollX || oy != g.win.ScrollY {
		g.bindSlots()
		g.view.Scrolled(g.win.ScrollX, g.win.ScrollY)
	}
}

// Resize sets the body size.
func (g *Grid) Resize(width, height int) {
	g.win.Width, g.win.Height = width, height
	g.relayout()
	g.scrollToFocus()
	g.view.Render()
}

// EnterEdit starts editing the focused cell.
func (g *Grid) EnterEdit(caret Caret) bool { return g.edit.Enter(caret) }

// ExitEdit leaves edit mode, reverting instead of committing on cancel.
func (g *Grid) ExitEdit(cancel bool) bool { return g.edit.Exit(cancel) }

// Input feeds new editor text.
func (g *Grid) Input(text string) bool { return g.edit.Input(text) }

// SetCaret records the editor caret position.
func (g *Grid) SetCaret(pos int) { g.edit.SetCaret(pos) }

// Revert discards the focused cell's uncommitted text.
func (g *Grid) Revert() { g.edit.Revert() }

// Editing returns the edit session.
func (g *Grid) Editing() *EditSession { return &g.edit }

// InsertRow adds a row before the focused row and focuses it.
func (g *Grid) InsertRow() bool { return g.insertRow(false) }

// AddRow adds a row at the end and focuses it.
func (g *Grid) AddRow() bool { return g.insertRow(true) }

func (g *Grid) insertRow(atEnd bool) bool {
	if !g.d.Options().CanAddRows {
		g.log.Printf("grid: adding rows is not allowed")
		return false
	}
	reenter := g.edit.active && g.cfg.KeepEditing
	if !g.edit.exitRow() {
		return false
	}
	col := g.focus.Col
	g.insertAt = -1
	if !atEnd && g.focus.Row >= 0 {
		g.insertAt = g.focus.Row
	}
	r, err := g.d.AddRow()
	g.insertAt = -1
	if err != nil {
		g.log.Printf("grid: %v", err)
		return false
	}
	i, ok := g.index[r]
	if !ok {
		return false
	}
	to, _ := FirstFocusableCell(gridSpace{g: g}, Cell{Row: i, Col: col}, 0, 0)
	g.focusCell(to, true)
	if reenter {
		g.edit.Enter(CaretSelectAll)
	}
	return true
}

// RemoveFocusedRow removes the focused row from the dataset. Focus moves
// to the next row, or the previous one at the end.
func (g *Grid) RemoveFocusedRow() bool {
	r := g.focusedRow()
	if r == nil {
		return false
	}
	if _, err := g.d.RemoveRow(r); err != nil {
		g.log.Printf("grid: %v", err)
		return false
	}
	return true
}

// ToggleOrder flips the direction of f in the order spec, dropping every
// other key unless keepOthers is set, and re-sorts.
func (g *Grid) ToggleOrder(f *dataset.Field, keepOthers bool) {
	g.order = g.order.Toggle(f, keepOthers)
	g.reorder()
}

// ClearOrder returns to the dataset's natural row order.
func (g *Grid) ClearOrder() {
	g.order = nil
	g.reorder()
}

// SetOrder parses and applies an order spec such as "name, id:desc".
func (g *Grid) SetOrder(s string) error {
	if err := g.setOrder(s); err != nil {
		return err
	}
	g.reorder()
	return nil
}

func (g *Grid) setOrder(s string) error {
	spec, err := order.Parse(s, g.d.Field)
	if err != nil {
		return fmt.Errorf("failed to set order: %w", err)
	}
	g.order = spec
	return nil
}

// SetFilter shows only the rows keep accepts, nil shows every row.
// New rows and rows with unsaved changes are always shown.
func (g *Grid) SetFilter(keep func(*dataset.Row) bool) {
	g.filter = keep
	g.reorder()
}

// Filtered reports whether a filter is set.
func (g *Grid) Filtered() bool { return g.filter != nil }

func (g *Grid) keep(r *dataset.Row) bool {
	return g.filter == nil || r.IsNew || r.Changed() || g.filter(r)
}

// Order returns the order spec in its text form.
func (g *Grid) Order() string { return g.order.String() }

// OrderSpec returns the current order spec.
func (g *Grid) OrderSpec() order.Spec { return g.order }

// MoveColumn moves the visible column at from to position to.
func (g *Grid) MoveColumn(from, to int) {
	n := len(g.cols)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	focusField := g.focusedField()
	f, w := g.cols[from], g.widths[from]
	g.cols = slices.Insert(slices.Delete(g.cols, from, from+1), to, f)
	g.widths = slices.Insert(slices.Delete(g.widths, from, from+1), to, w)
	if focusField != nil {
		g.focus.Col = g.colOf(focusField)
	}
	g.relayout()
	g.view.Render()
}

// Rows returns the display order.
func (g *Grid) Rows() []*dataset.Row { return g.rows }

// RowIndex returns the display index of r, or -1.
func (g *Grid) RowIndex(r *dataset.Row) int {
	if i, ok := g.index[r]; ok {
		return i
	}
	return -1
}

// Fields returns the visible columns.
func (g *Grid) Fields() []*dataset.Field { return g.cols }

// Dataset returns the dataset the grid shows.
func (g *Grid) Dataset() *dataset.Dataset { return g.d }

// Config returns the grid's configuration.
func (g *Grid) Config() Config { return g.cfg }

// Flags returns the edit flags.
func (g *Grid) Flags() *Flags { return g.flags }

// Columns returns the column geometry.
func (g *Grid) Columns() viewport.Columns {
	return viewport.Columns{Widths: g.widths, Gap: 1}
}

// Window returns the scroll window.
func (g *Grid) Window() viewport.Window { return g.win }

// PageRows returns the page size used by PageUp and PageDown.
func (g *Grid) PageRows() int {
	if g.cfg.PageRows > 0 {
		return g.cfg.PageRows
	}
	return g.win.PageRows()
}

// VisibleRows returns the materialized slots in display order.
func (g *Grid) VisibleRows() []*RowSlot {
	var out []*RowSlot
	g.slots.Each(func(s *RowSlot, _ int) {
		out = append(out, s)
	})
	return out
}

// CellText returns the text shown in a cell: pending editor text if any,
// otherwise the formatted dataset value.
func (g *Grid) CellText(row, col int) string {
	r, f := g.rows[row], g.cols[col]
	if c := g.flags.Cell(r, f.Index); c.Pending {
		return c.Text
	}
	return dataset.Format(g.d.Val(r, f))
}

// CellState is everything a view needs to style a cell.
type CellState struct {
	Focused  bool
	Editing  bool
	ReadOnly bool
	Modified bool
	Unsaved  bool
	Invalid  bool
	Message  string
}

// CellState returns the display state of a cell.
func (g *Grid) CellState(row, col int) CellState {
	r, f := g.rows[row], g.cols[col]
	c := g.flags.Cell(r, f.Index)
	focused := g.focus == Cell{Row: row, Col: col}
	return CellState{
		Focused:  focused,
		Editing:  focused && g.edit.active,
		ReadOnly: !g.d.CanChangeCell(r, f),
		Modified: c.Pending || g.d.ValChanged(r, f),
		Unsaved:  c.Unsaved,
		Invalid:  c.Invalid,
		Message:  c.Message,
	}
}

// RowState is everything a view needs to style a row.
type RowState struct {
	Focused  bool
	New      bool
	Modified bool
	Invalid  bool
	Message  string
}

// RowState returns the display state of a row.
func (g *Grid) RowState(row int) RowState {
	r := g.rows[row]
	rf := g.flags.Row(r)
	return RowState{
		Focused:  g.focus.Row == row,
		New:      r.IsNew,
		Modified: g.flags.Modified(r),
		Invalid:  g.flags.Invalid(r),
		Message:  rf.Message,
	}
}
