// Package dataset is the in-memory table model behind the grid: fields,
// rows, the validate/convert/compare policy and the mutation API. It has
// no rendering knowledge; views observe it through Subscribe.
package dataset

import (
	"fmt"
)

// Options configures a Dataset. Start from DefaultOptions; the zero
// value refuses every mutation.
type Options struct {
	CanAddRows    bool
	CanRemoveRows bool
	CanChangeRows bool

	// IDField names the field that identifies rows in changesets.
	IDField string

	// Per-type policy, merged over the package defaults.
	Validators  map[string]ValidateFunc
	Converters  map[string]ConvertFunc
	Comparators map[string]CompareFunc

	// ValidateRow is the cross-field hook, run against the row as it
	// would look after a SetVal.
	ValidateRow func(r *Row) error
}

// DefaultOptions allows every mutation.
func DefaultOptions() Options {
	return Options{
		CanAddRows:    true,
		CanRemoveRows: true,
		CanChangeRows: true,
	}
}

// Dataset holds fields and rows and owns every mutation of them.
type Dataset struct {
	opts Options

	validators  map[string]ValidateFunc
	converters  map[string]ConvertFunc
	comparators map[string]CompareFunc

	fields []*Field
	byName map[string]*Field
	rows   []*Row

	subs []*subscription
}

// New creates a dataset. Field indexes are assigned from the slice order.
func New(opts Options, fields []*Field, rows []*Row) *Dataset {
	d := &Dataset{
		opts:        opts,
		validators:  DefaultValidators(),
		converters:  DefaultConverters(),
		comparators: DefaultComparators(),
	}
	for k, v := range opts.Validators {
		d.validators[k] = v
	}
	for k, v := range opts.Converters {
		d.converters[k] = v
	}
	for k, v := range opts.Comparators {
		d.comparators[k] = v
	}
	d.init(fields, rows)
	return d
}

func (d *Dataset) init(fields []*Field, rows []*Row) {
	d.fields = fields
	d.rows = rows
	d.byName = make(map[string]*Field, len(fields))
	for i, f := range fields {
		f.Index = i
		d.byName[f.Name] = f
	}
	for _, r := range rows {
		d.checkRow(r)
	}
}

func (d *Dataset) checkRow(r *Row) {
	if len(r.Values) != len(d.fields) {
		panic(fmt.Sprintf("dataset: row has %d values, dataset has %d fields",
			len(r.Values), len(d.fields)))
	}
	if r.OldValues != nil && len(r.OldValues) != len(r.Values) {
		panic(fmt.Sprintf("dataset: old values length %d does not match values length %d",
			len(r.OldValues), len(r.Values)))
	}
}

// Options returns the options the dataset was created with.
func (d *Dataset) Options() Options { return d.opts }

// Field returns the field called name, or nil.
func (d *Dataset) Field(name string) *Field {
	return d.byName[name]
}

// Fields returns all fields in index order. The slice must not be modified.
func (d *Dataset) Fields() []*Field { return d.fields }

// Rows returns the rows in storage order, including soft-deleted ones.
// The slice must not be modified.
func (d *Dataset) Rows() []*Row { return d.rows }

// RowCount returns the number of stored rows, including soft-deleted ones.
func (d *Dataset) RowCount() int { return len(d.rows) }

// IndexOf returns the storage index of r, or -1.
func (d *Dataset) IndexOf(r *Row) int {
	for i, x := range d.rows {
		if x == r {
			return i
		}
	}
	return -1
}

// Val returns the value of field in row, preferring a computed value.
func (d *Dataset) Val(r *Row, f *Field) any {
	if f.Value != nil {
		return f.Value(f, r)
	}
	return r.Values[f.Index]
}

// ValidateVal checks a converted value against the field's policy.
func (d *Dataset) ValidateVal(f *Field, v any) error {
	if isEmpty(v) {
		if f.AllowNull {
			return nil
		}
		return &ValidationError{Field: f.Name, Message: "NULL not allowed"}
	}
	validate := f.Validate
	if validate == nil {
		validate = d.validators[f.Type]
	}
	if validate == nil {
		return nil
	}
	if err := validate(f, v); err != nil {
		if ve, ok := err.(*ValidationError); ok && ve.Field == "" {
			ve.Field = f.Name
		}
		return err
	}
	return nil
}

// ValidateRow runs the cross-field hook.
func (d *Dataset) ValidateRow(r *Row) error {
	if d.opts.ValidateRow == nil {
		return nil
	}
	return d.opts.ValidateRow(r)
}

// ConvertVal turns input into the field's internal representation.
func (d *Dataset) ConvertVal(f *Field, v any) any {
	convert := f.Convert
	if convert == nil {
		convert = d.converters[f.Type]
	}
	if convert == nil {
		return v
	}
	return convert(f, v)
}

// CanChangeCell reports whether SetVal may write field in row.
func (d *Dataset) CanChangeCell(r *Row, f *Field) bool {
	return d.opts.CanChangeRows && !r.ReadOnly && !f.ReadOnly
}

// SetVal converts, validates and writes a value, then emits ValueChanged.
// A refused or invalid value leaves the row untouched. Writing a value
// equal to the stored one is a no-op.
func (d *Dataset) SetVal(r *Row, f *Field, v any) error {
	if !d.CanChangeCell(r, f) {
		return &PermissionError{Op: "set " + f.Name, Err: ErrReadOnly}
	}
	v, err := d.check(r, f, v)
	if err != nil {
		return err
	}
	if SameValue(r.Values[f.Index], v) {
		return nil
	}
	r.snapshot()
	r.Values[f.Index] = v
	d.emit(Event{Kind: ValueChanged, Row: r, Field: f, Value: v})
	return nil
}

// check runs convert, validate_val and validate_row and returns the
// converted value.
func (d *Dataset) check(r *Row, f *Field, v any) (any, error) {
	v = d.ConvertVal(f, v)
	if err := d.ValidateVal(f, v); err != nil {
		return nil, err
	}
	if d.opts.ValidateRow != nil {
		candidate := r.clone()
		candidate.Values[f.Index] = v
		if err := d.ValidateRow(candidate); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// AddRow appends a new row built from server defaults and validated
// client defaults, then emits RowAdded.
func (d *Dataset) AddRow() (*Row, error) {
	if !d.opts.CanAddRows {
		return nil, &PermissionError{Op: "add row", Err: ErrCannotAdd}
	}
	values := make([]any, len(d.fields))
	for i, f := range d.fields {
		values[i] = f.ServerDefault
	}
	r := &Row{Values: values, IsNew: true}
	for _, f := range d.fields {
		if f.ClientDefault == nil {
			continue
		}
		// invalid client defaults leave the server default in place
		if v, err := d.check(r, f, f.ClientDefault); err == nil {
			r.Values[f.Index] = v
		}
	}
	d.rows = append(d.rows, r)
	d.emit(Event{Kind: RowAdded, Row: r})
	return r, nil
}

// CanRemoveRow reports whether RemoveRow would accept r.
func (d *Dataset) CanRemoveRow(r *Row) bool {
	return d.opts.CanRemoveRows && !r.NoRemove
}

// RemoveRow deletes a new row outright and soft-deletes any other, then
// emits RowRemoved.
func (d *Dataset) RemoveRow(r *Row) (*Row, error) {
	if !d.CanRemoveRow(r) {
		return nil, &PermissionError{Op: "remove row", Err: ErrCannotRemove}
	}
	if r.IsNew {
		i := d.IndexOf(r)
		if i < 0 {
			return nil, ErrRowNotFound
		}
		d.rows = append(d.rows[:i], d.rows[i+1:]...)
	} else {
		if r.Removed {
			return r, nil
		}
		r.Removed = true
	}
	d.emit(Event{Kind: RowRemoved, Row: r})
	return r, nil
}

// Comparator returns the ordering used to sort values of f.
func (d *Dataset) Comparator(f *Field) CompareFunc {
	if f.Compare != nil {
		return f.Compare
	}
	if c := d.comparators[f.Type]; c != nil {
		return c
	}
	return compareGeneric
}

// IDField returns the configured id field, or nil.
func (d *Dataset) IDField() *Field {
	if d.opts.IDField == "" {
		return nil
	}
	return d.byName[d.opts.IDField]
}

// RowByID finds a row by the value of its id field.
func (d *Dataset) RowByID(id any) (*Row, error) {
	f := d.IDField()
	if f == nil {
		return nil, ErrNoIDField
	}
	id = d.ConvertVal(f, id)
	for _, r := range d.rows {
		if SameValue(r.Values[f.Index], id) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s=%v", ErrRowNotFound, f.Name, id)
}

// Reset replaces fields and rows and emits Reload.
func (d *Dataset) Reset(fields []*Field, rows []*Row) {
	d.init(fields, rows)
	d.emit(Event{Kind: Reload})
}
