package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/gridkit/pkg/grid"
)

// keyMap holds every binding of the table screen. Printable keys are
// never bound here because typing over a cell starts editing it.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Edit     key.Binding
	Insert   key.Binding
	Delete   key.Binding

	Sort      key.Binding
	SortAdd   key.Binding
	ClearSort key.Binding
	Copy      key.Binding
	Filter    key.Binding
	Save      key.Binding
	Reload    key.Binding
	Discard   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down/append")),
	Left:     key.NewBinding(key.WithKeys("left", "shift+left"), key.WithHelp("←", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "shift+right"), key.WithHelp("→", "right")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first row")),
	End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last row")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next cell")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("⇧tab", "previous cell")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/commit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Edit:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "edit")),
	Insert:   key.NewBinding(key.WithKeys("insert", "ctrl+n"), key.WithHelp("ctrl+n", "insert row")),
	Delete:   key.NewBinding(key.WithKeys("delete", "ctrl+d"), key.WithHelp("ctrl+d", "remove row")),

	Sort:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "sort column")),
	SortAdd:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "add sort key")),
	ClearSort: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear sort")),
	Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy cell")),
	Filter:    key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "filter rows")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Discard:   key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "discard changes")),
	Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Save, k.Sort, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Tab, k.ShiftTab},
		{k.PageUp, k.PageDown, k.Home, k.End},
		{k.Enter, k.Edit, k.Escape, k.Insert, k.Delete},
		{k.Sort, k.SortAdd, k.ClearSort, k.Filter, k.Copy},
		{k.Save, k.Reload, k.Discard, k.Help, k.Quit},
	}
}

// gridKey translates a key message into the grid's key vocabulary.
func (k keyMap) gridKey(msg tea.KeyMsg) (grid.Key, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return grid.Key{Code: grid.KeyUp}, true
	case key.Matches(msg, k.Down):
		return grid.Key{Code: grid.KeyDown}, true
	case key.Matches(msg, k.Left):
		return grid.Key{Code: grid.KeyLeft, Shift: msg.Type == tea.KeyShiftLeft}, true
	case key.Matches(msg, k.Right):
		return grid.Key{Code: grid.KeyRight, Shift: msg.Type == tea.KeyShiftRight}, true
	case key.Matches(msg, k.PageUp):
		return grid.Key{Code: grid.KeyPageUp}, true
	case key.Matches(msg, k.PageDown):
		return grid.Key{Code: grid.KeyPageDown}, true
	case key.Matches(msg, k.Home):
		return grid.Key{Code: grid.KeyHome}, true
	case key.Matches(msg, k.End):
		return grid.Key{Code: grid.KeyEnd}, true
	case key.Matches(msg, k.Tab):
		return grid.Key{Code: grid.KeyTab}, true
	case key.Matches(msg, k.ShiftTab):
		return grid.Key{Code: grid.KeyTab, Shift: true}, true
	case key.Matches(msg, k.Enter):
		return grid.Key{Code: grid.KeyEnter}, true
	case key.Matches(msg, k.Escape):
		return grid.Key{Code: grid.KeyEscape}, true
	case key.Matches(msg, k.Edit):
		return grid.Key{Code: grid.KeyF2}, true
	case key.Matches(msg, k.Insert):
		return grid.Key{Code: grid.KeyInsert}, true
	case key.Matches(msg, k.Delete):
		return grid.Key{Code: grid.KeyDelete}, true
	}
	switch msg.Type {
	case tea.KeySpace:
		return grid.Key{Code: grid.KeyRune, Rune: ' '}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt && !msg.Paste {
			return grid.Key{Code: grid.KeyRune, Rune: msg.Runes[0]}, true
		}
	}
	return grid.Key{}, false
}
