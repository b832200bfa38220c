package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterPrompt is the query line shown in place of the status line
// while the user types a row filter.
type filterPrompt struct {
	input  textinput.Model
	active bool
	// query is the filter currently applied to the grid.
	query string
}

func newFilterPrompt() *filterPrompt {
	ti := textinput.New()
	ti.Prompt = "Filter: "
	ti.PromptStyle = StatusStyle
	ti.Placeholder = "name:ali age:>30 OR admin:=true"
	ti.CharLimit = 256
	return &filterPrompt{input: ti}
}

// open starts editing from the applied query.
func (f *filterPrompt) open() tea.Cmd {
	f.active = true
	f.input.SetValue(f.query)
	f.input.CursorEnd()
	return f.input.Focus()
}

func (f *filterPrompt) close() {
	f.active = false
	f.input.Blur()
}

func (f *filterPrompt) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *filterPrompt) value() string {
	return f.input.Value()
}

func (f *filterPrompt) view(width int) string {
	f.input.Width = max(width-len(f.input.Prompt)-1, 1)
	return f.input.View()
}
