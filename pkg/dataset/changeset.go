package dataset

import "fmt"

// Record maps field names to values.
type Record map[string]any

// Update describes a changed, stored row.
type Update struct {
	Values    Record // changed fields only
	OldValues Record // every field, as last loaded or saved
}

// Changeset partitions pending edits into inserts, updates and removals.
type Changeset struct {
	Insert []Record
	Update []Update
	Remove []Record // original values of removed rows

	inserted []*Row
}

// Empty reports whether there is nothing to save.
func (c *Changeset) Empty() bool {
	return len(c.Insert) == 0 && len(c.Update) == 0 && len(c.Remove) == 0
}

// Reconciliation is a saver's answer to a changeset.
type Reconciliation struct {
	// InsertIDs holds the id assigned to each Changeset.Insert entry, in
	// order. Entries may be nil when the saver keeps the client's id.
	InsertIDs []any
}

// Loader supplies fields and rows. It is implemented outside the core.
type Loader interface {
	Load() ([]*Field, []*Row, error)
}

// Saver persists a changeset. It is implemented outside the core.
type Saver interface {
	Save(cs *Changeset) (*Reconciliation, error)
}

// OldVal returns the value of f before any pending edit.
func (d *Dataset) OldVal(r *Row, f *Field) any {
	if r.OldValues != nil {
		return r.OldValues[f.Index]
	}
	return r.Values[f.Index]
}

// ValChanged reports whether f holds a pending edit in r.
func (d *Dataset) ValChanged(r *Row, f *Field) bool {
	return r.OldValues != nil && !SameValue(r.OldValues[f.Index], r.Values[f.Index])
}

// Changes computes the changeset of all pending edits.
func (d *Dataset) Changes() *Changeset {
	cs := &Changeset{}
	for _, r := range d.rows {
		switch {
		case r.IsNew && !r.Removed:
			rec := Record{}
			for _, f := range d.fields {
				if v := r.Values[f.Index]; v != nil {
					rec[f.Name] = v
				}
			}
			cs.Insert = append(cs.Insert, rec)
			cs.inserted = append(cs.inserted, r)
		case r.OldValues != nil && !r.Removed:
			u := Update{Values: Record{}, OldValues: Record{}}
			for _, f := range d.fields {
				old, cur := r.OldValues[f.Index], r.Values[f.Index]
				u.OldValues[f.Name] = old
				if !SameValue(old, cur) {
					u.Values[f.Name] = cur
				}
			}
			if len(u.Values) > 0 {
				cs.Update = append(cs.Update, u)
			}
		case r.Removed && !r.IsNew:
			rec := Record{}
			for _, f := range d.fields {
				rec[f.Name] = d.OldVal(r, f)
			}
			cs.Remove = append(cs.Remove, rec)
		}
	}
	return cs
}

// ApplyChanges settles pending edits as saved: removed rows are dropped,
// snapshots cleared and new rows become stored rows. Emits Reload.
func (d *Dataset) ApplyChanges() {
	rows := d.rows[:0]
	for _, r := range d.rows {
		if r.Removed {
			continue
		}
		r.OldValues = nil
		r.IsNew = false
		rows = append(rows, r)
	}
	clear(d.rows[len(rows):])
	d.rows = rows
	d.emit(Event{Kind: Reload})
}

// CancelChanges reverts every pending edit: new rows are dropped,
// removed rows restored and changed values rolled back. Emits Reload.
func (d *Dataset) CancelChanges() {
	rows := d.rows[:0]
	for _, r := range d.rows {
		if r.IsNew {
			continue
		}
		r.Removed = false
		if r.OldValues != nil {
			r.Values = r.OldValues
			r.OldValues = nil
		}
		rows = append(rows, r)
	}
	clear(d.rows[len(rows):])
	d.rows = rows
	d.emit(Event{Kind: Reload})
}

// Load replaces the dataset's contents with what l returns.
func (d *Dataset) Load(l Loader) error {
	fields, rows, err := l.Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	for _, r := range rows {
		if len(r.Values) != len(fields) {
			return fmt.Errorf("failed to load dataset: row has %d values, want %d", len(r.Values), len(fields))
		}
	}
	d.Reset(fields, rows)
	return nil
}

// Save hands the pending changeset to s and, on success, reconciles it.
func (d *Dataset) Save(s Saver) error {
	cs := d.Changes()
	rec, err := s.Save(cs)
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	d.Reconcile(cs, rec)
	return nil
}

// Reconcile finishes a save that happened elsewhere: it writes back the
// ids the saver assigned to cs's inserted rows and applies the changes.
func (d *Dataset) Reconcile(cs *Changeset, rec *Reconciliation) {
	if idf := d.IDField(); idf != nil && rec != nil {
		for i, r := range cs.inserted {
			if i < len(rec.InsertIDs) && rec.InsertIDs[i] != nil {
				r.Values[idf.Index] = rec.InsertIDs[i]
			}
		}
	}
	d.ApplyChanges()
}
