package models

import (
	"fmt"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// Table is the on-disk document of one table
type Table struct {
	Name     string      `yaml:"name" json:"name"`
	IDField  string      `yaml:"id_field,omitempty" json:"id_field,omitempty"`
	Order    string      `yaml:"order,omitempty" json:"order,omitempty"`
	ReadOnly bool        `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	NoAdd    bool        `yaml:"no_add,omitempty" json:"no_add,omitempty"`
	NoRemove bool        `yaml:"no_remove,omitempty" json:"no_remove,omitempty"`
	Fields   []FieldSpec `yaml:"fields" json:"fields"`
	Rows     [][]any     `yaml:"rows" json:"rows"`
}

// FieldSpec describes one column of a table document
type FieldSpec struct {
	Name      string        `yaml:"name" json:"name"`
	Type      string        `yaml:"type,omitempty" json:"type,omitempty"`
	Align     dataset.Align `yaml:"align,omitempty" json:"align,omitempty"`
	Width     int           `yaml:"width,omitempty" json:"width,omitempty"`
	MinWidth  int           `yaml:"min_width,omitempty" json:"min_width,omitempty"`
	MaxWidth  int           `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	AllowNull bool          `yaml:"allow_null,omitempty" json:"allow_null,omitempty"`
	ReadOnly  bool          `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Hidden    bool          `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Default   any           `yaml:"default,omitempty" json:"default,omitempty"`
	// ServerDefault is written into new rows without validation
	ServerDefault any `yaml:"server_default,omitempty" json:"server_default,omitempty"`
}

// Validate checks names and row shapes
func (t *Table) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return fmt.Errorf("invalid table name %q: %w", t.Name, err)
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if err := ValidateName(f.Name); err != nil {
			return fmt.Errorf("invalid field name %q: %w", f.Name, err)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = true
	}
	if t.IDField != "" && !seen[t.IDField] {
		return fmt.Errorf("id field %q is not a field of table %s", t.IDField, t.Name)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Fields) {
			return fmt.Errorf("row %d has %d values, table %s has %d fields", i, len(row), t.Name, len(t.Fields))
		}
	}
	return nil
}

// Options returns the dataset options the table asks for
func (t *Table) Options() dataset.Options {
	opts := dataset.DefaultOptions()
	opts.IDField = t.IDField
	opts.CanChangeRows = !t.ReadOnly
	opts.CanAddRows = !t.ReadOnly && !t.NoAdd
	opts.CanRemoveRows = !t.ReadOnly && !t.NoRemove
	return opts
}

// ToField builds a dataset field from the spec
func (s FieldSpec) ToField() *dataset.Field {
	typ := s.Type
	if typ == "" {
		typ = dataset.TypeString
	}
	return &dataset.Field{
		Name:          s.Name,
		Type:          typ,
		Align:         s.Align,
		Width:         s.Width,
		MinWidth:      s.MinWidth,
		MaxWidth:      s.MaxWidth,
		AllowNull:     s.AllowNull,
		ReadOnly:      s.ReadOnly,
		Hidden:        s.Hidden,
		ClientDefault: s.Default,
		ServerDefault: normalize(typ, s.ServerDefault),
	}
}

// FieldSpecOf is the inverse of ToField
func FieldSpecOf(f *dataset.Field) FieldSpec {
	typ := f.Type
	if typ == dataset.TypeString {
		typ = ""
	}
	return FieldSpec{
		Name:          f.Name,
		Type:          typ,
		Align:         f.Align,
		Width:         f.Width,
		MinWidth:      f.MinWidth,
		MaxWidth:      f.MaxWidth,
		AllowNull:     f.AllowNull,
		ReadOnly:      f.ReadOnly,
		Hidden:        f.Hidden,
		Default:       f.ClientDefault,
		ServerDefault: f.ServerDefault,
	}
}

// Load implements dataset.Loader. Stored values are normalized with the
// field type's converter, so a yaml integer becomes a float64 number.
func (t *Table) Load() ([]*dataset.Field, []*dataset.Row, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}
	fields := make([]*dataset.Field, len(t.Fields))
	for i, s := range t.Fields {
		fields[i] = s.ToField()
	}
	rows := make([]*dataset.Row, len(t.Rows))
	for i, values := range t.Rows {
		rows[i] = dataset.NewRow(NormalizeValues(fields, values)...)
	}
	return fields, rows, nil
}

// NormalizeValues converts raw document values to their field types
func NormalizeValues(fields []*dataset.Field, values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = normalize(fields[i].Type, v)
	}
	return out
}

func normalize(typ string, v any) any {
	if v == nil {
		return nil
	}
	if convert := dataset.DefaultConverters()[typ]; convert != nil {
		return convert(nil, v)
	}
	return v
}

// TableOf captures a dataset's stored state as a document. Removed rows
// are skipped.
func TableOf(name, order string, d *dataset.Dataset) *Table {
	opts := d.Options()
	t := &Table{
		Name:     name,
		IDField:  opts.IDField,
		Order:    order,
		ReadOnly: !opts.CanChangeRows,
		NoAdd:    opts.CanChangeRows && !opts.CanAddRows,
		NoRemove: opts.CanChangeRows && !opts.CanRemoveRows,
	}
	for _, f := range d.Fields() {
		t.Fields = append(t.Fields, FieldSpecOf(f))
	}
	t.Rows = [][]any{}
	for _, r := range d.Rows() {
		if r.Removed {
			continue
		}
		t.Rows = append(t.Rows, append([]any(nil), r.Values...))
	}
	return t
}

// Dataset loads the table into a new dataset
func (t *Table) Dataset() (*dataset.Dataset, error) {
	fields, rows, err := t.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", t.Name, err)
	}
	return dataset.New(t.Options(), fields, rows), nil
}
