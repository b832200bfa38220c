package examples

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

type mapPutter map[string]*models.Table

func (m mapPutter) PutTable(t *models.Table, replace bool) error {
	if _, ok := m[t.Name]; ok && !replace {
		return fmt.Errorf("%w: %s", files.ErrTableExists, t.Name)
	}
	m[t.Name] = t
	return nil
}

func TestGetExamples(t *testing.T) {
	if got := len(GetExamples("all")); got != len(Categories)-1 {
		t.Errorf("Expected one set per category, got %d", got)
	}
	if got := GetExamples("games"); len(got) != 0 {
		t.Errorf("Expected no sets for an unknown category, got %d", len(got))
	}

	for _, set := range GetExamples("all") {
		for _, table := range set.Tables {
			if !strings.HasPrefix(table.Name, Prefix) {
				t.Errorf("Table %s lacks the %q prefix", table.Name, Prefix)
			}
			if err := table.Validate(); err != nil {
				t.Errorf("Table %s is invalid: %v", table.Name, err)
			}
			d, err := table.Dataset()
			if err != nil {
				t.Fatalf("Table %s does not load: %v", table.Name, err)
			}
			for _, r := range d.Rows() {
				if err := d.ValidateRow(r); err != nil {
					t.Errorf("Table %s has an invalid row: %v", table.Name, err)
				}
				for _, f := range d.Fields() {
					if err := d.ValidateVal(f, d.Val(r, f)); err != nil {
						t.Errorf("Table %s field %s: %v", table.Name, f.Name, err)
					}
				}
			}
			if table.IDField != "" && d.IDField() == nil {
				t.Errorf("Table %s has no usable id field", table.Name)
			}
		}
	}
}

func TestInstallTable(t *testing.T) {
	p := mapPutter{}
	table := GetExamples("store")[0].Tables[0]

	if err := InstallTable(p, table, false); err != nil {
		t.Fatalf("InstallTable failed: %v", err)
	}
	if err := InstallTable(p, table, false); !errors.Is(err, ErrExists) {
		t.Errorf("Expected ErrExists, got %v", err)
	}
	if err := InstallTable(p, table, true); err != nil {
		t.Errorf("Expected force to overwrite, got %v", err)
	}

	bad := &models.Table{Name: "Bad Name"}
	if err := InstallTable(p, bad, false); err == nil {
		t.Error("Expected an invalid table to be refused")
	}
}
