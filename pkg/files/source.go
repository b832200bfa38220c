package files

import (
	"errors"
	"fmt"
	"math"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/models"
)

// ErrConflict is returned when a saved row no longer matches the table
// on disk.
var ErrConflict = errors.New("row changed on disk")

// TableSource loads and saves one table document. It is a
// dataset.Loader and a dataset.Saver.
type TableSource struct {
	Name  string
	table *models.Table
}

// NewTableSource returns a source for the named table.
func NewTableSource(name string) *TableSource {
	return &TableSource{Name: name}
}

// Table returns the document as last loaded or saved, or nil.
func (s *TableSource) Table() *models.Table {
	return s.table
}

func (s *TableSource) Load() ([]*dataset.Field, []*dataset.Row, error) {
	t, err := ReadTable(s.Name)
	if err != nil {
		return nil, nil, err
	}
	fields, rows, err := t.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load table %s: %w", s.Name, err)
	}
	s.table = t
	return fields, rows, nil
}

// Save applies a changeset to the document on disk. Rows are matched by
// the id field when the table has one and by their old values
// otherwise. Inserted rows without an id get numbers above every id
// the table held before the save.
func (s *TableSource) Save(cs *dataset.Changeset) (*dataset.Reconciliation, error) {
	t, err := ReadTable(s.Name)
	if err != nil {
		return nil, err
	}
	fields, _, err := t.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", s.Name, err)
	}
	rows := make([][]any, len(t.Rows))
	for i, values := range t.Rows {
		rows[i] = models.NormalizeValues(fields, values)
	}
	m := matcher{fields: fields, idField: -1}
	for _, f := range fields {
		if f.Name == t.IDField {
			m.idField = f.Index
		}
	}

	next := 0.0
	if m.idField >= 0 {
		next = nextID(rows, m.idField)
	}

	for _, rec := range cs.Remove {
		// a row already gone from disk is not an error
		if i := m.find(rows, rec); i >= 0 {
			rows = append(rows[:i], rows[i+1:]...)
		}
	}

	for _, u := range cs.Update {
		i := m.find(rows, u.OldValues)
		if i < 0 {
			return nil, fmt.Errorf("failed to save table %s: %w", s.Name, ErrConflict)
		}
		for name, v := range u.Values {
			if f := m.field(name); f != nil {
				rows[i][f.Index] = v
			}
		}
	}

	rec := &dataset.Reconciliation{}
	for _, in := range cs.Insert {
		values := make([]any, len(fields))
		for _, f := range fields {
			values[f.Index] = in[f.Name]
		}
		var id any
		if m.idField >= 0 && values[m.idField] == nil && fields[m.idField].Type == dataset.TypeNumber {
			id = next
			values[m.idField] = id
			next++
		}
		rows = append(rows, values)
		rec.InsertIDs = append(rec.InsertIDs, id)
	}

	t.Rows = rows
	if err := WriteTable(t); err != nil {
		return nil, err
	}
	s.table = t
	return rec, nil
}

type matcher struct {
	fields  []*dataset.Field
	idField int
}

func (m matcher) field(name string) *dataset.Field {
	for _, f := range m.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (m matcher) find(rows [][]any, rec dataset.Record) int {
	for i, values := range rows {
		if m.matches(values, rec) {
			return i
		}
	}
	return -1
}

func (m matcher) matches(values []any, rec dataset.Record) bool {
	if m.idField >= 0 {
		id := m.fields[m.idField]
		return dataset.SameValue(values[id.Index], rec[id.Name])
	}
	for _, f := range m.fields {
		if !dataset.SameValue(values[f.Index], rec[f.Name]) {
			return false
		}
	}
	return true
}

func nextID(rows [][]any, idField int) float64 {
	next := 1.0
	for _, values := range rows {
		if n, ok := values[idField].(float64); ok && !math.IsNaN(n) && n >= next {
			next = math.Floor(n) + 1
		}
	}
	return next
}
