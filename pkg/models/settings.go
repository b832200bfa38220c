package models

import (
	"fmt"

	"github.com/pluqqy/gridkit/pkg/grid"
)

// Store backends
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Settings represents the application configuration
type Settings struct {
	Grid  grid.Config   `yaml:"grid"`
	UI    UISettings    `yaml:"ui"`
	Store StoreSettings `yaml:"store"`
}

// UISettings controls UI preferences
type UISettings struct {
	ShowHelp       bool `yaml:"show_help"`
	ShowRowNumbers bool `yaml:"show_row_numbers"`
	ConfirmQuit    bool `yaml:"confirm_quit"`
}

// StoreSettings selects where tables are loaded from and saved to
type StoreSettings struct {
	Backend string `yaml:"backend"` // "file" or "bolt"
	Path    string `yaml:"path,omitempty"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Grid: grid.DefaultConfig(),
		UI: UISettings{
			ShowHelp:       true,
			ShowRowNumbers: true,
			ConfirmQuit:    true,
		},
		Store: StoreSettings{
			Backend: BackendFile,
		},
	}
}

// Validate checks enumerated settings values
func (s *Settings) Validate() error {
	if err := s.Grid.Validate(); err != nil {
		return fmt.Errorf("invalid grid settings: %w", err)
	}
	switch s.Store.Backend {
	case BackendFile, BackendBolt:
	default:
		return fmt.Errorf("invalid store backend %q (must be %s or %s)", s.Store.Backend, BackendFile, BackendBolt)
	}
	return nil
}
