package search

import (
	"errors"
	"testing"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

func staff() *dataset.Dataset {
	fields := []*dataset.Field{
		{Name: "id", Type: dataset.TypeNumber},
		{Name: "name", Type: dataset.TypeString},
		{Name: "age", Type: dataset.TypeNumber, AllowNull: true},
		{Name: "admin", Type: dataset.TypeBoolean},
		{Name: "note", Type: dataset.TypeString, Hidden: true, AllowNull: true},
	}
	return dataset.New(dataset.DefaultOptions(), fields, []*dataset.Row{
		dataset.NewRow(1.0, "Bob Smith", 42.0, true, "secret"),
		dataset.NewRow(2.0, "alice", 29.0, false, nil),
		dataset.NewRow(3.0, "carol", nil, false, nil),
		dataset.NewRow(4.0, "dave", 35.0, true, nil),
	})
}

func matchingIDs(t *testing.T, d *dataset.Dataset, query string) []float64 {
	t.Helper()
	keep, err := Filter(d, query)
	if err != nil {
		t.Fatalf("Filter(%q) error = %v", query, err)
	}
	var ids []float64
	for _, r := range d.Rows() {
		if keep == nil || keep(r) {
			ids = append(ids, r.Values[0].(float64))
		}
	}
	return ids
}

func TestFilter(t *testing.T) {
	d := staff()

	tests := []struct {
		query string
		want  []float64
	}{
		{"", []float64{1, 2, 3, 4}},
		{"bob", []float64{1}},
		{"ALICE", []float64{2}},
		{`"bob smith"`, []float64{1}},
		{"secret", nil},
		{"name:a", []float64{2, 3, 4}},
		{"name:=alice", []float64{2}},
		{"name:=Alice", []float64{2}},
		{"name:!=alice", []float64{1, 3, 4}},
		{"age:>30", []float64{1, 4}},
		{"age:<35", []float64{2}},
		{"age:=", []float64{3}},
		{"age:=42", []float64{1}},
		{"age:>old", nil},
		{"admin:=true", []float64{1, 4}},
		{"NOT admin:=true", []float64{2, 3}},
		{"age:>30 name:dave", []float64{4}},
		{"name:alice OR name:carol", []float64{2, 3}},
		{"name:alice OR name:carol AND age:>20", []float64{2}},
		{"note:secret", []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := matchingIDs(t, d, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) matched %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Filter(%q) matched %v, want %v", tt.query, got, tt.want)
					break
				}
			}
		})
	}
}

func TestFilter_Errors(t *testing.T) {
	d := staff()

	if _, err := Filter(d, "salary:>10"); !errors.Is(err, dataset.ErrUnknownField) {
		t.Errorf("Expected unknown field error, got %v", err)
	}
	if _, err := Filter(d, "OR bob"); err == nil {
		t.Error("Expected parse error")
	}
}

func TestFilter_UsesComputedValues(t *testing.T) {
	d := staff()
	d.Field("name").Value = func(f *dataset.Field, r *dataset.Row) any {
		return "user-" + dataset.Format(r.Values[0])
	}

	got := matchingIDs(t, d, "name:=user-3")
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("Expected computed value to be searched, got %v", got)
	}
}
