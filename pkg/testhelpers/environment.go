package testhelpers

import (
	"os"
	"testing"

	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

// TestEnvironment provides a project directory for tests that touch disk
type TestEnvironment struct {
	t          *testing.T
	TempDir    string
	OriginalWd string
	cleanup    []func()
}

// NewTestEnvironment creates a new test environment with a temporary directory
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "gridkit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	env := &TestEnvironment{
		t:          t,
		TempDir:    tmpDir,
		OriginalWd: originalWd,
	}

	env.cleanup = append(env.cleanup, func() {
		os.Chdir(originalWd)
		os.RemoveAll(tmpDir)
	})
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup performs all cleanup operations. It is safe to call twice.
func (e *TestEnvironment) Cleanup() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
	e.cleanup = nil
}

// ChangeToTempDir changes the working directory to the temp directory
func (e *TestEnvironment) ChangeToTempDir() {
	if err := os.Chdir(e.TempDir); err != nil {
		e.t.Fatalf("Failed to change to temp dir: %v", err)
	}
}

// InitProject changes into the temp directory and creates the .gridkit
// layout there
func (e *TestEnvironment) InitProject() {
	e.t.Helper()
	e.ChangeToTempDir()
	if err := files.InitProjectStructure(); err != nil {
		e.t.Fatalf("Failed to init project: %v", err)
	}
}

// CreateTable writes a table document into the project
func (e *TestEnvironment) CreateTable(table *models.Table) {
	e.t.Helper()
	if err := files.WriteTable(table); err != nil {
		e.t.Fatalf("Failed to write table %s: %v", table.Name, err)
	}
}

// CreateSettings writes a settings document into the project
func (e *TestEnvironment) CreateSettings(settings *models.Settings) {
	e.t.Helper()
	if err := files.WriteSettings(settings); err != nil {
		e.t.Fatalf("Failed to write settings: %v", err)
	}
}

// PeopleTable returns the people fixture as a table document
func PeopleTable() *models.Table {
	return &models.Table{
		Name:    "people",
		IDField: "id",
		Fields: []models.FieldSpec{
			{Name: "id", Type: "number", Width: 4, ReadOnly: true},
			{Name: "name", Width: 10},
		},
		Rows: [][]any{{1.0, "bob"}, {2.0, "alice"}},
	}
}
