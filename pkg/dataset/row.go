package dataset

import "fmt"

// Row is one record of the dataset.
type Row struct {
	Values []any

	IsNew     bool  // added locally, not yet saved
	Removed   bool  // soft-deleted, kept until ApplyChanges
	ReadOnly  bool
	NoRemove  bool  // refuses RemoveRow
	OldValues []any // snapshot taken on first mutation; nil when unchanged
}

// NewRow creates a stored (not new) row with the given values.
func NewRow(values ...any) *Row {
	return &Row{Values: values}
}

// Changed reports whether the row has pending edits.
func (r *Row) Changed() bool {
	return r.OldValues != nil
}

func (r *Row) snapshot() {
	if r.OldValues != nil {
		if len(r.OldValues) != len(r.Values) {
			panic(fmt.Sprintf("dataset: old values length %d does not match values length %d",
				len(r.OldValues), len(r.Values)))
		}
		return
	}
	r.OldValues = make([]any, len(r.Values))
	copy(r.OldValues, r.Values)
}

// clone returns a shallow copy of the row with its own Values slice.
func (r *Row) clone() *Row {
	c := *r
	c.Values = make([]any, len(r.Values))
	copy(c.Values, r.Values)
	return &c
}
