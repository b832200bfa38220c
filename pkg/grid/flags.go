package grid

import (
	"sort"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// CellFlags is the edit state of one cell.
type CellFlags struct {
	Text    string // displayed instead of the dataset value while Pending
	Pending bool   // the cell shows text the dataset does not hold
	Unsaved bool   // Text has not been offered to the dataset yet
	Invalid bool   // the last commit of Text failed
	Message string
}

// RowFlags is the edit state of one row.
type RowFlags struct {
	Unsaved bool // cells were committed since the last row validation
	Invalid bool // the last row validation failed
	Message string
}

type rowState struct {
	RowFlags
	cells map[int]*CellFlags // keyed by field index
}

func (s *rowState) empty() bool {
	return s.RowFlags == (RowFlags{}) && len(s.cells) == 0
}

// Flags tracks per-cell and per-row edit state keyed by row identity, so
// it survives re-sorting. Entries are deleted as soon as they carry no
// state.
type Flags struct {
	rows map[*dataset.Row]*rowState
}

// NewFlags returns an empty flag table.
func NewFlags() *Flags {
	return &Flags{rows: make(map[*dataset.Row]*rowState)}
}

// Cell returns the state of the cell of r at field index fi.
func (f *Flags) Cell(r *dataset.Row, fi int) CellFlags {
	if s := f.rows[r]; s != nil {
		if c := s.cells[fi]; c != nil {
			return *c
		}
	}
	return CellFlags{}
}

// Row returns the row-level state of r.
func (f *Flags) Row(r *dataset.Row) RowFlags {
	if s := f.rows[r]; s != nil {
		return s.RowFlags
	}
	return RowFlags{}
}

// InvalidValues reports whether any cell of r is invalid.
func (f *Flags) InvalidValues(r *dataset.Row) bool {
	s := f.rows[r]
	if s == nil {
		return false
	}
	for _, c := range s.cells {
		if c.Invalid {
			return true
		}
	}
	return false
}

// Invalid reports whether r failed row validation or holds an invalid
// cell.
func (f *Flags) Invalid(r *dataset.Row) bool {
	return f.Row(r).Invalid || f.InvalidValues(r)
}

// Pending reports whether any cell of r shows uncommitted text.
func (f *Flags) Pending(r *dataset.Row) bool {
	s := f.rows[r]
	if s == nil {
		return false
	}
	for _, c := range s.cells {
		if c.Pending {
			return true
		}
	}
	return false
}

// Modified reports whether r has edits that are not saved: committed
// values not yet applied, or text not yet committed.
func (f *Flags) Modified(r *dataset.Row) bool {
	return r.Changed() || f.Pending(r)
}

// Drop forgets all state of r.
func (f *Flags) Drop(r *dataset.Row) {
	delete(f.rows, r)
}

// Reset forgets all state.
func (f *Flags) Reset() {
	clear(f.rows)
}

// Retain forgets the state of every row for which keep returns false.
func (f *Flags) Retain(keep func(r *dataset.Row) bool) {
	for r := range f.rows {
		if !keep(r) {
			delete(f.rows, r)
		}
	}
}

// Len returns the number of rows carrying state.
func (f *Flags) Len() int {
	return len(f.rows)
}

func (f *Flags) state(r *dataset.Row) *rowState {
	s := f.rows[r]
	if s == nil {
		s = &rowState{cells: make(map[int]*CellFlags)}
		f.rows[r] = s
	}
	return s
}

func (f *Flags) gc(r *dataset.Row) {
	if s := f.rows[r]; s != nil && s.empty() {
		delete(f.rows, r)
	}
}

// input records new editor text for a cell. Typing clears the cell's and
// the row's invalid marks until the next commit says otherwise.
func (f *Flags) input(r *dataset.Row, fi int, text string) {
	s := f.state(r)
	s.cells[fi] = &CellFlags{Text: text, Pending: true, Unsaved: true}
	s.Invalid = false
	s.Message = ""
}

// committed records the outcome of offering a cell's text to the dataset.
func (f *Flags) committed(r *dataset.Row, fi int, err error) {
	s := f.state(r)
	c := s.cells[fi]
	if err == nil {
		delete(s.cells, fi)
		s.Unsaved = true
		return
	}
	if c == nil {
		c = &CellFlags{}
		s.cells[fi] = c
	}
	c.Unsaved = false
	c.Invalid = true
	c.Message = err.Error()
}

// validated records the outcome of row validation.
func (f *Flags) validated(r *dataset.Row, err error) {
	s := f.state(r)
	s.Unsaved = false
	s.Invalid = err != nil
	s.Message = ""
	if err != nil {
		s.Message = err.Error()
	}
	f.gc(r)
}

// revert drops a cell's pending text and any mark it caused.
func (f *Flags) revert(r *dataset.Row, fi int) {
	s := f.rows[r]
	if s == nil {
		return
	}
	delete(s.cells, fi)
	f.gc(r)
}

// cells returns the field indexes of r carrying cell state, ascending.
func (f *Flags) cells(r *dataset.Row) []int {
	s := f.rows[r]
	if s == nil {
		return nil
	}
	fis := make([]int, 0, len(s.cells))
	for fi := range s.cells {
		fis = append(fis, fi)
	}
	sort.Ints(fis)
	return fis
}
