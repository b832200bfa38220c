package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/gridkit/pkg/models"
)

const (
	GridkitDir   = ".gridkit"
	TablesDir    = "tables"
	ArchiveDir   = "archive"
	SettingsFile = "settings.yaml"
	DBFile       = "gridkit.db"
	TableExt     = ".yaml"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableExists   = errors.New("table already exists")
)

func InitProjectStructure() error {
	dirs := []string{
		GridkitDir,
		filepath.Join(GridkitDir, TablesDir),
		filepath.Join(GridkitDir, ArchiveDir, TablesDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// TablePath returns the path of a table document
func TablePath(name string) string {
	return filepath.Join(GridkitDir, TablesDir, name+TableExt)
}

// ArchivedTablePath returns the path of an archived table document
func ArchivedTablePath(name string) string {
	return filepath.Join(GridkitDir, ArchiveDir, TablesDir, name+TableExt)
}

func ReadTable(name string) (*models.Table, error) {
	if err := validatePath(name); err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}
	return readTableFile(TablePath(name))
}

func readTableFile(path string) (*models.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableName(path))
		}
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}

	var table models.Table
	if err := yaml.Unmarshal(content, &table); err != nil {
		return nil, fmt.Errorf("failed to parse table YAML %s: %w", path, err)
	}
	if table.Name == "" {
		table.Name = tableName(path)
	}

	return &table, nil
}

func WriteTable(table *models.Table) error {
	if err := table.Validate(); err != nil {
		return fmt.Errorf("invalid table: %w", err)
	}
	return writeTableFile(TablePath(table.Name), table)
}

func writeTableFile(path string, table *models.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for table: %w", err)
	}

	content, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal table to YAML: %w", err)
	}

	// a failed write must not truncate the table
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("failed to write table %s: %w", table.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write table %s: %w", table.Name, err)
	}

	return nil
}

// CreateTable writes a new table, refusing to overwrite an existing one
func CreateTable(table *models.Table) error {
	if _, err := os.Stat(TablePath(table.Name)); err == nil {
		return fmt.Errorf("%w: %s", ErrTableExists, table.Name)
	}
	return WriteTable(table)
}

func ListTables() ([]string, error) {
	return listTables(filepath.Join(GridkitDir, TablesDir))
}

func ListArchivedTables() ([]string, error) {
	return listTables(filepath.Join(GridkitDir, ArchiveDir, TablesDir))
}

func listTables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var tables []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), TableExt) {
			tables = append(tables, tableName(entry.Name()))
		}
	}
	sort.Strings(tables)

	return tables, nil
}

// ArchiveTable moves a table out of the active set
func ArchiveTable(name string) error {
	if err := validatePath(name); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}
	return moveTable(TablePath(name), ArchivedTablePath(name), name)
}

// RestoreTable moves an archived table back into the active set
func RestoreTable(name string) error {
	if err := validatePath(name); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}
	return moveTable(ArchivedTablePath(name), TablePath(name), name)
}

func moveTable(from, to, name string) error {
	if _, err := os.Stat(from); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if _, err := os.Stat(to); err == nil {
		return fmt.Errorf("%w: %s", ErrTableExists, to)
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(to), err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move table '%s': %w", name, err)
	}
	return nil
}

// DeleteArchivedTable permanently deletes an archived table
func DeleteArchivedTable(name string) error {
	if err := validatePath(name); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}

	absPath := ArchivedTablePath(name)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("archived table not found: '%s'", name)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to delete archived table '%s': %w", name, err)
	}

	return nil
}

// WriteFile writes content to a file (for exports)
func WriteFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validatePath rejects names that would escape the tables directory
func validatePath(name string) error {
	if name == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("absolute paths are not allowed: %s", name)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("path traversal is not allowed: %s", name)
	}
	return nil
}
