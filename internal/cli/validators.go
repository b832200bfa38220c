package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pluqqy/gridkit/pkg/models"
)

// ValidateTableName validates a table name
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if err := models.ValidateName(name); err != nil {
		return fmt.Errorf("invalid table name %q: %w", name, err)
	}
	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	if Contains(validFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateExportFormat validates the export format flag
func ValidateExportFormat(format string) error {
	validFormats := []string{"yaml", "json", "tsv", "markdown"}
	if Contains(validFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid export format: %s (must be: %s)", format, strings.Join(validFormats, ", "))
}

// ValidateBackend validates the --store flag
func ValidateBackend(backend string) error {
	switch backend {
	case "", models.BackendFile, models.BackendBolt:
		return nil
	}
	return fmt.Errorf("invalid store backend: %s (must be: %s or %s)", backend, models.BackendFile, models.BackendBolt)
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ParseAssignment splits a field=value argument
func ParseAssignment(arg string) (field, value string, err error) {
	field, value, ok := strings.Cut(arg, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return "", "", fmt.Errorf("invalid assignment %q (expected field=value)", arg)
	}
	return field, value, nil
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
