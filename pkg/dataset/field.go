package dataset

// Type names understood by the default validators, converters and
// comparators. Fields with any other type use the generic policy.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Align controls how a field's values are laid out inside their column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// ValidateFunc checks an already converted value. A nil return accepts it.
type ValidateFunc func(f *Field, v any) error

// ConvertFunc turns user input into the field's internal representation.
type ConvertFunc func(f *Field, v any) any

// CompareFunc orders two values of the same field, returning -1, 0 or 1.
type CompareFunc func(a, b any) int

// Field describes a column of the dataset.
type Field struct {
	Name  string
	Index int // position in Dataset.Fields(), assigned by the dataset
	Type  string
	Align Align

	Width    int
	MinWidth int
	MaxWidth int

	AllowNull bool
	ReadOnly  bool
	Hidden    bool // hidden from grid views, still part of every row

	ClientDefault any // applied by AddRow through the validation pipeline
	ServerDefault any // written as-is into new rows

	Validate ValidateFunc
	Convert  ConvertFunc
	Compare  CompareFunc

	// Value, when set, computes the displayed value instead of reading
	// the stored one.
	Value func(f *Field, r *Row) any
}

// EffectiveAlign returns the field's alignment, defaulting numbers to
// the right and everything else to the left.
func (f *Field) EffectiveAlign() Align {
	if f.Align != "" {
		return f.Align
	}
	if f.Type == TypeNumber {
		return AlignRight
	}
	return AlignLeft
}

// ClampWidth limits w to the field's [MinWidth, MaxWidth] range. A zero
// bound is treated as unset.
func (f *Field) ClampWidth(w int) int {
	if f.MinWidth > 0 && w < f.MinWidth {
		w = f.MinWidth
	}
	if f.MaxWidth > 0 && w > f.MaxWidth {
		w = f.MaxWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}
