package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Confirmation is an inline yes/no prompt shown in place of the status
// line. While it is active it takes every key.
type Confirmation struct {
	active      bool
	message     string
	destructive bool
	onConfirm   func() tea.Cmd
	onCancel    func() tea.Cmd
}

// NewConfirmation creates an inactive prompt
func NewConfirmation() *Confirmation {
	return &Confirmation{}
}

// Show activates the prompt. Either callback may be nil.
func (c *Confirmation) Show(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	c.active = true
	c.message = message
	c.destructive = destructive
	c.onConfirm = onConfirm
	c.onCancel = onCancel
}

// Hide deactivates the prompt without running a callback
func (c *Confirmation) Hide() {
	c.active = false
}

// Active returns whether the prompt is currently shown
func (c *Confirmation) Active() bool {
	return c.active
}

// Update answers the prompt. Keys other than y, n and esc are ignored.
func (c *Confirmation) Update(msg tea.KeyMsg) tea.Cmd {
	if !c.active {
		return nil
	}
	switch msg.String() {
	case "y", "Y":
		c.active = false
		if c.onConfirm != nil {
			return c.onConfirm()
		}
	case "n", "N", "esc":
		c.active = false
		if c.onCancel != nil {
			return c.onCancel()
		}
	}
	return nil
}

// View renders the prompt, or "" when inactive
func (c *Confirmation) View() string {
	if !c.active {
		return ""
	}
	return fmt.Sprintf("%s %s", c.message, formatConfirmOptions(c.destructive))
}

// formatConfirmOptions colors the answers: on a destructive prompt yes
// is red and no is green.
func formatConfirmOptions(destructive bool) string {
	yes, no := ColorSuccess, ColorDanger
	if destructive {
		yes, no = ColorDanger, ColorSuccess
	}
	y := lipgloss.NewStyle().Foreground(lipgloss.Color(yes)).Bold(true).Render("[y]es")
	n := lipgloss.NewStyle().Foreground(lipgloss.Color(no)).Bold(true).Render("[n]o")
	return y + " / " + n
}
