package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/gridkit/pkg/grid"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for the focused cell
	ColorInactive = "240" // Gray for separators and read-only cells
	ColorSelected = "236" // Dark gray for the focused row
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorWarning  = "214" // Orange for modified cells
	ColorDanger   = "196" // Red for invalid cells and destructive prompts
	ColorSuccess  = "28"  // Green for new rows
	ColorWhite    = "255"
	ColorStatusBg = "62"
	ColorStatusFg = "230"
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorNormal))

	SortedHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorWarning))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorInactive))

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal))

	ReadOnlyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))

	FocusedRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Background(lipgloss.Color(ColorSelected))

	FocusedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorActive)).
				Background(lipgloss.Color(ColorSelected)).
				Bold(true).
				Reverse(true)

	EditingCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorWhite)).
				Background(lipgloss.Color(ColorActive))

	ModifiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning))

	InvalidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDanger)).
			Underline(true)

	NewRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))

	RowNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorInactive))

	StatusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorStatusBg)).
			Foreground(lipgloss.Color(ColorStatusFg)).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDanger))

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim)).
			Italic(true)
)

// CellStyle picks the style of a body cell. Focus wins over edit flags,
// and an invalid cell always shows as invalid.
func CellStyle(rs grid.RowState, cs grid.CellState) lipgloss.Style {
	switch {
	case cs.Editing:
		return EditingCellStyle
	case cs.Focused && cs.Invalid:
		return FocusedCellStyle.Foreground(lipgloss.Color(ColorDanger))
	case cs.Focused:
		return FocusedCellStyle
	case cs.Invalid:
		return InvalidStyle
	}
	base := NormalStyle
	switch {
	case cs.Modified || cs.Unsaved:
		base = ModifiedStyle
	case rs.New:
		base = NewRowStyle
	case cs.ReadOnly:
		base = ReadOnlyStyle
	}
	if rs.Focused {
		base = base.Background(lipgloss.Color(ColorSelected))
	}
	return base
}

// GetSeparator returns the column gap glyph, highlighted on the
// focused row.
func GetSeparator(focusedRow bool) string {
	if focusedRow {
		return SeparatorStyle.Background(lipgloss.Color(ColorSelected)).Render("│")
	}
	return SeparatorStyle.Render("│")
}
