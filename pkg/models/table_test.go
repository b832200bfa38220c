package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

const peopleYAML = `name: people
id_field: id
order: name
fields:
  - name: id
    type: number
    read_only: true
  - name: name
    width: 12
  - name: active
    type: boolean
    default: true
rows:
  - [1, alice, true]
  - [2, bob, "no"]
`

func TestTable_Load(t *testing.T) {
	var table Table
	if err := yaml.Unmarshal([]byte(peopleYAML), &table); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	d, err := table.Dataset()
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}

	var got [][]any
	for _, r := range d.Rows() {
		got = append(got, r.Values)
	}
	want := [][]any{{1.0, "alice", true}, {2.0, "bob", false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	f := d.Field("name")
	if f.Type != dataset.TypeString || f.Width != 12 {
		t.Errorf("name field = %+v", f)
	}
	if !d.Field("id").ReadOnly {
		t.Error("id field should be read-only")
	}
	if d.Field("active").ClientDefault != true {
		t.Errorf("active default = %v", d.Field("active").ClientDefault)
	}
	if d.IDField() != d.Field("id") {
		t.Error("IDField() should be the id field")
	}
}

func TestTable_Validate(t *testing.T) {
	base := func() *Table {
		return &Table{
			Name:    "people",
			IDField: "id",
			Fields:  []FieldSpec{{Name: "id", Type: "number"}, {Name: "name"}},
			Rows:    [][]any{{1, "a"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Table)
		wantErr error
	}{
		{"valid", func(*Table) {}, nil},
		{"bad table name", func(t *Table) { t.Name = "" }, ErrEmptyName},
		{"bad field name", func(t *Table) { t.Fields[1].Name = "first name" }, ErrInvalidCharacter},
		{"duplicate field", func(t *Table) { t.Fields[1].Name = "id" }, ErrDuplicateField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := base()
			tt.mutate(table)
			err := table.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unknown id field", func(t *testing.T) {
		table := base()
		table.IDField = "key"
		if err := table.Validate(); err == nil {
			t.Error("Validate() should reject an unknown id field")
		}
	})

	t.Run("short row", func(t *testing.T) {
		table := base()
		table.Rows = append(table.Rows, []any{2})
		if err := table.Validate(); err == nil {
			t.Error("Validate() should reject a row with missing values")
		}
	})
}

func TestTable_Options(t *testing.T) {
	tests := []struct {
		name                   string
		table                  Table
		change, add, removable bool
	}{
		{"writable", Table{}, true, true, true},
		{"read only", Table{ReadOnly: true}, false, false, false},
		{"no add", Table{NoAdd: true}, true, false, true},
		{"no remove", Table{NoRemove: true}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.table.Options()
			if opts.CanChangeRows != tt.change || opts.CanAddRows != tt.add || opts.CanRemoveRows != tt.removable {
				t.Errorf("Options() = %+v", opts)
			}
		})
	}
}

func TestTableOf_RoundTrip(t *testing.T) {
	var table Table
	if err := yaml.Unmarshal([]byte(peopleYAML), &table); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	d, err := table.Dataset()
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}
	if _, err := d.RemoveRow(d.Rows()[1]); err != nil {
		t.Fatalf("RemoveRow() error = %v", err)
	}

	out := TableOf(table.Name, table.Order, d)
	if diff := cmp.Diff([][]any{{1.0, "alice", true}}, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if out.Fields[1].Type != "" || out.Fields[0].Type != dataset.TypeNumber {
		t.Errorf("field types = %q, %q", out.Fields[0].Type, out.Fields[1].Type)
	}
	if out.IDField != "id" || out.Order != "name" || out.ReadOnly {
		t.Errorf("TableOf() = %+v", out)
	}
}
