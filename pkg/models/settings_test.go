package models

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/gridkit/pkg/grid"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() error = %v", err)
	}
	if s.Store.Backend != BackendFile {
		t.Errorf("Store.Backend = %q, want %q", s.Store.Backend, BackendFile)
	}
	if s.Grid.AutoAdvance != grid.AdvanceNextRow {
		t.Errorf("Grid.AutoAdvance = %q", s.Grid.AutoAdvance)
	}
}

func TestSettings_YAMLOverridesDefaults(t *testing.T) {
	data := `grid:
  auto_advance: next_cell
  save_row_on: exit_row
store:
  backend: bolt
`
	s := DefaultSettings()
	if err := yaml.Unmarshal([]byte(data), s); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if s.Grid.AutoAdvance != grid.AdvanceNextCell || s.Grid.SaveRowOn != grid.SaveRowOnExitRow {
		t.Errorf("Grid = %+v", s.Grid)
	}
	if !s.Grid.PreventExitRow || s.Grid.RowHeight != 1 {
		t.Error("keys missing from the document should keep their defaults")
	}
	if s.Store.Backend != BackendBolt {
		t.Errorf("Store.Backend = %q", s.Store.Backend)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"bad backend", func(s *Settings) { s.Store.Backend = "sqlite" }},
		{"bad save_cell_on", func(s *Settings) { s.Grid.SaveCellOn = "blur" }},
		{"bad auto_advance", func(s *Settings) { s.Grid.AutoAdvance = "down" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
