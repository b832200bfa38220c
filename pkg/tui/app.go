package tui

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/grid"
	"github.com/pluqqy/gridkit/pkg/models"
	"github.com/pluqqy/gridkit/pkg/search"
)

// DebugEnv names the environment variable that turns on debug logging
// to DebugLogFile.
const (
	DebugEnv     = "GRIDKIT_DEBUG"
	DebugLogFile = "gridkit-debug.log"
)

const statusDuration = 3 * time.Second

// Source loads and saves the table an App shows.
type Source interface {
	dataset.Loader
	dataset.Saver
}

// Messages for communication between the program and its commands
type StatusMsg string

type clearStatusMsg struct {
	seq int
}

// loadedMsg carries the result of a load. It is itself a dataset.Loader
// so the dataset can check and take it as-is.
type loadedMsg struct {
	fields []*dataset.Field
	rows   []*dataset.Row
	err    error
}

func (m loadedMsg) Load() ([]*dataset.Field, []*dataset.Row, error) {
	return m.fields, m.rows, m.err
}

type savedMsg struct {
	cs  *dataset.Changeset
	rec *dataset.Reconciliation
	err error
}

// App is the table editor program. It owns the dataset and the grid and
// touches them only from Update; loads and saves run as commands.
type App struct {
	title    string
	src      Source
	settings *models.Settings

	d       *dataset.Dataset
	g       *grid.Grid
	view    *gridView
	editor  *cellEditor
	help    help.Model
	confirm *Confirmation
	filter  *filterPrompt

	width  int
	height int

	loading bool
	saving  bool

	statusMsg string
	statusErr bool
	statusSeq int

	copy func(string) error
}

// NewApp creates the program for one table. opts are the dataset's
// permissions and policy; settings supply the grid and UI options.
func NewApp(title string, opts dataset.Options, src Source, settings *models.Settings) *App {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	cfg := settings.Grid
	cfg.RowHeight = 1
	if cfg.Logger == nil && os.Getenv(DebugEnv) != "" {
		cfg.Logger = log.Default()
	}
	a := &App{
		title:    title,
		src:      src,
		settings: settings,
		d:        dataset.New(opts, nil, nil),
		editor:   newCellEditor(),
		help:     help.New(),
		confirm:  NewConfirmation(),
		filter:   newFilterPrompt(),
		loading:  true,
		copy:     clipboard.WriteAll,
	}
	a.help.ShowAll = false
	a.view = newGridView(a.editor, settings.UI.ShowRowNumbers)
	a.g = grid.New(a.d, cfg)
	a.view.g = a.g
	a.g.Mount(a.view)
	return a
}

// Run starts the program full screen with mouse support.
func Run(a *App) error {
	if os.Getenv(DebugEnv) != "" {
		f, err := tea.LogToFile(DebugLogFile, "gridkit")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	}
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Grid returns the grid the program drives.
func (a *App) Grid() *grid.Grid { return a.g }

func (a *App) Init() tea.Cmd {
	return a.load()
}

func (a *App) load() tea.Cmd {
	a.loading = true
	src := a.src
	return func() tea.Msg {
		fields, rows, err := src.Load()
		return loadedMsg{fields: fields, rows: rows, err: err}
	}
}

func (a *App) save() tea.Cmd {
	if a.g.Editing().Active() && !a.g.ExitEdit(false) {
		return a.setError("Fix the invalid value before saving")
	}
	cs := a.d.Changes()
	if cs.Empty() {
		return a.setStatus("No changes to save")
	}
	a.saving = true
	src := a.src
	return func() tea.Msg {
		rec, err := src.Save(cs)
		return savedMsg{cs: cs, rec: rec, err: err}
	}
}

// dirty reports whether anything would be lost by quitting.
func (a *App) dirty() bool {
	return !a.d.Changes().Empty() || a.g.Flags().Len() > 0
}

func (a *App) setStatus(msg string) tea.Cmd {
	a.statusMsg = msg
	a.statusErr = false
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (a *App) setError(msg string) tea.Cmd {
	cmd := a.setStatus(msg)
	a.statusErr = true
	return cmd
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resize()
		return a, nil

	case loadedMsg:
		a.loading = false
		if msg.err != nil {
			return a, a.setError(fmt.Sprintf("Load failed: %v", msg.err))
		}
		if a.g.Filtered() {
			// compiled against the fields of the previous load
			a.g.SetFilter(nil)
		}
		if err := a.d.Load(msg); err != nil {
			return a, a.setError(err.Error())
		}
		if q := a.filter.query; q != "" {
			if err := a.applyFilter(q); err != nil {
				a.filter.query = ""
			}
		}
		if o := a.settings.Grid.Order; o != "" && a.g.Order() == "" {
			if err := a.g.SetOrder(o); err != nil {
				return a, a.setError(err.Error())
			}
		}
		if !a.g.Focus().Valid() {
			a.g.FocusCell(grid.Cell{Row: 0, Col: 0}, true)
		}
		a.resize()
		return a, a.setStatus(fmt.Sprintf("Loaded %d rows", len(a.g.Rows())))

	case savedMsg:
		a.saving = false
		if msg.err != nil {
			return a, a.setError(fmt.Sprintf("Save failed: %v", msg.err))
		}
		a.d.Reconcile(msg.cs, msg.rec)
		n := len(msg.cs.Insert) + len(msg.cs.Update) + len(msg.cs.Remove)
		return a, a.setStatus(fmt.Sprintf("Saved %d changes", n))

	case StatusMsg:
		return a, a.setStatus(string(msg))

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
			a.statusErr = false
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		a.handleMouse(msg)
		return a, nil
	}

	if a.filter.active {
		return a, a.filter.update(msg)
	}
	if a.editor.active() {
		var cmd tea.Cmd
		a.editor.input, cmd = a.editor.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirm.Active() {
		return a.confirm.Update(msg)
	}
	if a.filter.active {
		return a.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if a.dirty() && a.settings.UI.ConfirmQuit {
			a.confirm.Show("Discard unsaved changes and quit?", true, func() tea.Cmd { return tea.Quit }, nil)
			return nil
		}
		return tea.Quit
	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
		return nil
	}

	if a.loading || a.saving {
		return nil
	}

	switch {
	case key.Matches(msg, keys.Save):
		return a.save()
	case key.Matches(msg, keys.Reload):
		if a.dirty() {
			a.confirm.Show("Discard unsaved changes and reload?", true, a.load, nil)
			return nil
		}
		return a.load()
	case key.Matches(msg, keys.Discard):
		a.g.ExitEdit(true)
		a.d.CancelChanges()
		return a.setStatus("Changes discarded")
	case key.Matches(msg, keys.Sort), key.Matches(msg, keys.SortAdd):
		f := a.g.FocusedField()
		if f == nil {
			return nil
		}
		a.g.ToggleOrder(f, key.Matches(msg, keys.SortAdd))
		return a.setStatus("Order: " + orderLabel(a.g.Order()))
	case key.Matches(msg, keys.ClearSort):
		a.g.ClearOrder()
		return a.setStatus("Order: " + orderLabel(""))
	case key.Matches(msg, keys.Copy):
		return a.copyCell()
	case key.Matches(msg, keys.Filter):
		if a.g.Editing().Active() && !a.g.ExitEdit(false) {
			return a.setError("Fix the invalid value before filtering")
		}
		return a.filter.open()
	}

	if gk, ok := keys.gridKey(msg); ok && a.g.HandleKey(gk) {
		return nil
	}
	if !a.g.Editing().Active() {
		return nil
	}
	text, changed, cmd := a.editor.update(msg)
	if changed {
		a.g.Input(text)
	}
	a.g.SetCaret(a.editor.position())
	return cmd
}

func (a *App) copyCell() tea.Cmd {
	c := a.g.Focus()
	if !c.Valid() {
		return nil
	}
	text := a.g.CellText(c.Row, c.Col)
	if err := a.copy(text); err != nil {
		return a.setError(fmt.Sprintf("Clipboard error: %v", err))
	}
	return a.setStatus(fmt.Sprintf("%s → clipboard", a.g.Fields()[c.Col].Name))
}

func (a *App) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.filter.close()
		return nil
	case tea.KeyEnter:
		q := strings.TrimSpace(a.filter.value())
		if err := a.applyFilter(q); err != nil {
			return a.setError(err.Error())
		}
		a.filter.close()
		if q == "" {
			return a.setStatus(fmt.Sprintf("Filter cleared, %d rows", len(a.g.Rows())))
		}
		return a.setStatus(fmt.Sprintf("Filter matched %d rows", len(a.g.Rows())))
	}
	return a.filter.update(msg)
}

// applyFilter compiles q against the loaded fields and hands it to the
// grid. An empty q shows every row again.
func (a *App) applyFilter(q string) error {
	keep, err := search.Filter(a.d, q)
	if err != nil {
		return err
	}
	a.filter.query = q
	a.g.SetFilter(keep)
	if !a.g.Focus().Valid() && len(a.g.Rows()) > 0 {
		a.g.FocusCell(grid.Cell{Row: 0, Col: 0}, true)
	}
	return nil
}

func orderLabel(o string) string {
	if o == "" {
		return "natural"
	}
	return o
}

// bodyTop is the screen line of the first body row: the title line and
// the header.
func (a *App) bodyTop() int {
	return 1 + headerLines
}

func (a *App) footerHeight() int {
	h := 1
	if a.settings.UI.ShowHelp {
		h += lipgloss.Height(a.help.View(keys))
	}
	return h
}

func (a *App) bodySize() (int, int) {
	w := a.width - a.view.gutterWidth()
	h := a.height - a.bodyTop() - a.footerHeight()
	return max(w, 1), max(h, 1)
}

func (a *App) resize() {
	if a.width == 0 || a.height == 0 {
		return
	}
	a.g.Resize(a.bodySize())
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	if a.loading || a.saving || a.confirm.Active() || a.filter.active {
		return
	}
	x := msg.X - a.view.gutterWidth()
	header := msg.Y == 1
	win := a.g.Window()

	switch msg.Action {
	case tea.MouseActionRelease:
		if a.g.Resizing() {
			a.g.Release()
		}
		return
	case tea.MouseActionMotion:
		if a.g.Resizing() {
			a.g.Drag(x)
		}
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.g.ScrollTo(win.ScrollX, win.ScrollY-3*win.RowHeight)
	case tea.MouseButtonWheelDown:
		a.g.ScrollTo(win.ScrollX, win.ScrollY+3*win.RowHeight)
	case tea.MouseButtonWheelLeft:
		a.g.ScrollTo(win.ScrollX-4, win.ScrollY)
	case tea.MouseButtonWheelRight:
		a.g.ScrollTo(win.ScrollX+4, win.ScrollY)
	case tea.MouseButtonLeft:
		switch {
		case header && x >= 0:
			if !a.g.PressBoundary(x) {
				a.g.HeaderClick(a.g.ColumnAt(x), msg.Shift, false)
			}
		case msg.Y >= a.bodyTop() && x >= 0:
			a.g.Click(x, msg.Y-a.bodyTop())
		}
	case tea.MouseButtonRight:
		if header {
			a.g.HeaderClick(-1, false, true)
		}
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	bodyWidth, bodyHeight := a.bodySize()
	lines := []string{a.renderTitle()}
	if !a.loading {
		lines = append(lines, a.view.Header(bodyWidth)...)
		body := a.view.Body(bodyWidth, bodyHeight)
		lines = append(lines, body...)
		for i := len(body); i < bodyHeight; i++ {
			lines = append(lines, "")
		}
	} else {
		lines = append(lines, EmptyStyle.Render("Loading..."))
	}
	lines = append(lines, a.renderStatus())
	if a.settings.UI.ShowHelp {
		lines = append(lines, a.help.View(keys))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderTitle() string {
	title := TitleStyle.Render(a.title)
	info := fmt.Sprintf(" %d rows", len(a.g.Rows()))
	if o := a.g.Order(); o != "" {
		info += " · " + o
	}
	if q := a.filter.query; q != "" {
		info += " · filter: " + q
	}
	if a.dirty() {
		info += " · " + ModifiedStyle.Render("modified")
	}
	if a.saving {
		info += " · saving…"
	}
	return title + RowNumberStyle.Render(info)
}

// renderStatus shows, in priority order: the confirmation prompt, the
// filter prompt, the focused cell's or row's validation message, the
// flash message.
func (a *App) renderStatus() string {
	if a.confirm.Active() {
		return a.confirm.View()
	}
	if a.filter.active {
		return a.filter.view(a.width)
	}
	msg, isErr := a.statusMsg, a.statusErr
	if c := a.g.Focus(); c.Valid() {
		if cs := a.g.CellState(c.Row, c.Col); cs.Invalid && cs.Message != "" {
			msg, isErr = cs.Message, true
		} else if rs := a.g.RowState(c.Row); rs.Invalid && rs.Message != "" {
			msg, isErr = rs.Message, true
		}
	}
	if msg == "" {
		return ""
	}
	msg = truncate.StringWithTail(msg, uint(max(a.width-2, 1)), "…")
	if isErr {
		return ErrorStyle.Render(msg)
	}
	return StatusStyle.Render(msg)
}
