package testhelpers

import (
	"fmt"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// PeopleFields returns the fields of the people fixture: a numeric id
// and a name.
func PeopleFields() []*dataset.Field {
	return []*dataset.Field{
		{Name: "id", Type: dataset.TypeNumber, Width: 4},
		{Name: "name", Type: dataset.TypeString, Width: 10},
	}
}

// NewPeople returns the two-row people fixture: {1, "b"} and {0, "a"}.
func NewPeople(opts dataset.Options) *dataset.Dataset {
	return dataset.New(opts, PeopleFields(), []*dataset.Row{
		dataset.NewRow(1.0, "b"),
		dataset.NewRow(0.0, "a"),
	})
}

// NewNumbered returns a dataset of rows × cols string cells named
// "c0".."cN" holding "r<row>c<col>", plus a numeric id in field 0.
func NewNumbered(opts dataset.Options, rows, cols int) *dataset.Dataset {
	fields := []*dataset.Field{{Name: "id", Type: dataset.TypeNumber, Width: 4}}
	for c := 0; c < cols; c++ {
		fields = append(fields, &dataset.Field{
			Name:      fmt.Sprintf("c%d", c),
			Type:      dataset.TypeString,
			Width:     6,
			AllowNull: true,
		})
	}
	var data []*dataset.Row
	for r := 0; r < rows; r++ {
		values := []any{float64(r)}
		for c := 0; c < cols; c++ {
			values = append(values, fmt.Sprintf("r%dc%d", r, c))
		}
		data = append(data, dataset.NewRow(values...))
	}
	if opts.IDField == "" {
		opts.IDField = "id"
	}
	return dataset.New(opts, fields, data)
}
