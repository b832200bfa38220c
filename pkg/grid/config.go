package grid

import (
	"fmt"
	"io"
	"log"
)

// AutoAdvance selects where focus goes after Enter leaves edit mode.
type AutoAdvance string

const (
	AdvanceNextRow  AutoAdvance = "next_row"
	AdvanceNextCell AutoAdvance = "next_cell"
	AdvanceNone     AutoAdvance = "none"
)

// SaveCellOn selects when editor text is committed to the dataset.
type SaveCellOn string

const (
	SaveCellOnInput    SaveCellOn = "input"
	SaveCellOnExitEdit SaveCellOn = "exit_edit"
)

// SaveRowOn selects when a row's committed cells are validated as a row.
type SaveRowOn string

const (
	SaveRowOnInput    SaveRowOn = "input"
	SaveRowOnExitEdit SaveRowOn = "exit_edit"
	SaveRowOnExitRow  SaveRowOn = "exit_row"
	SaveRowOnNone     SaveRowOn = "none"
)

// Config holds every option recognized by a Grid.
type Config struct {
	RowHeight int `yaml:"row_height"`
	PageRows  int `yaml:"page_rows"` // 0 means one screen

	AutoAdvance    AutoAdvance `yaml:"auto_advance"`
	AutoAdvanceRow bool        `yaml:"auto_advance_row"` // horizontal moves wrap to the next row
	AutoJumpCells  bool        `yaml:"auto_jump_cells"`  // arrows at the caret edge leave the cell
	KeepEditing    bool        `yaml:"keep_editing"`     // re-enter edit mode after navigating

	SaveCellOn         SaveCellOn `yaml:"save_cell_on"`
	SaveRowOn          SaveRowOn  `yaml:"save_row_on"`
	PreventExitEdit    bool       `yaml:"prevent_exit_edit"`
	PreventExitRow     bool       `yaml:"prevent_exit_row"`
	AllowInvalidValues bool       `yaml:"allow_invalid_values"`

	AppendOnArrowDown bool `yaml:"append_on_arrow_down"`
	ResizeTolerance   int  `yaml:"resize_tolerance"`

	// Columns lists the field names shown, in order. Empty shows every
	// field that is not hidden.
	Columns []string `yaml:"columns,omitempty"`
	// Order is the initial order spec, e.g. "name, id:desc".
	Order string `yaml:"order,omitempty"`

	Logger *log.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		RowHeight:         1,
		PageRows:          20,
		AutoAdvance:       AdvanceNextRow,
		AutoAdvanceRow:    true,
		AutoJumpCells:     true,
		KeepEditing:       true,
		SaveCellOn:        SaveCellOnInput,
		SaveRowOn:         SaveRowOnExitEdit,
		PreventExitEdit:   false,
		PreventExitRow:    true,
		AppendOnArrowDown: true,
		ResizeTolerance:   1,
	}
}

// Validate reports the first unrecognized option value.
func (c Config) Validate() error {
	if c.RowHeight < 1 {
		return fmt.Errorf("row_height must be at least 1, got %d", c.RowHeight)
	}
	if c.PageRows < 0 {
		return fmt.Errorf("page_rows must not be negative, got %d", c.PageRows)
	}
	switch c.AutoAdvance {
	case AdvanceNextRow, AdvanceNextCell, AdvanceNone:
	default:
		return fmt.Errorf("invalid auto_advance %q (valid: next_row, next_cell, none)", c.AutoAdvance)
	}
	switch c.SaveCellOn {
	case SaveCellOnInput, SaveCellOnExitEdit:
	default:
		return fmt.Errorf("invalid save_cell_on %q (valid: input, exit_edit)", c.SaveCellOn)
	}
	switch c.SaveRowOn {
	case SaveRowOnInput, SaveRowOnExitEdit, SaveRowOnExitRow, SaveRowOnNone:
	default:
		return fmt.Errorf("invalid save_row_on %q (valid: input, exit_edit, exit_row, none)", c.SaveRowOn)
	}
	if c.ResizeTolerance < 0 {
		return fmt.Errorf("resize_tolerance must not be negative, got %d", c.ResizeTolerance)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard, "", 0)
}
