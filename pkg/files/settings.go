package files

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/gridkit/pkg/models"
)

// SettingsPath returns the path of the settings document
func SettingsPath() string {
	return filepath.Join(GridkitDir, SettingsFile)
}

// ReadSettings reads the settings document over the defaults. A missing
// file yields the defaults.
func ReadSettings() (*models.Settings, error) {
	settings := models.DefaultSettings()

	content, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func WriteSettings(settings *models.Settings) error {
	if err := os.MkdirAll(GridkitDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", GridkitDir, err)
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := os.WriteFile(SettingsPath(), content, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// StorePath returns where the configured backend keeps its data
func StorePath(settings *models.Settings) string {
	if settings.Store.Path != "" {
		return settings.Store.Path
	}
	if settings.Store.Backend == models.BackendBolt {
		return filepath.Join(GridkitDir, DBFile)
	}
	return filepath.Join(GridkitDir, TablesDir)
}
