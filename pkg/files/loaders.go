package files

import (
	"path/filepath"
	"strings"

	"github.com/pluqqy/gridkit/pkg/models"
)

// LoadTable is a convenience wrapper for ReadTable
// It accepts a bare table name or a path to a table document, inside the
// project or anywhere else
func LoadTable(ref string) (*models.Table, error) {
	if !strings.HasSuffix(ref, TableExt) && !strings.ContainsAny(ref, `/\`) {
		return ReadTable(ref)
	}
	// A document under .gridkit/tables is addressed by name
	if filepath.Dir(filepath.Clean(ref)) == filepath.Join(GridkitDir, TablesDir) {
		return ReadTable(tableName(ref))
	}
	return readTableFile(ref)
}

// ReadTableFile reads a table document from any path. JSON documents
// are read too, being valid YAML.
func ReadTableFile(path string) (*models.Table, error) {
	return readTableFile(path)
}
