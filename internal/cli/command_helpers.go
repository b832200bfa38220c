package cli

import (
	"fmt"
	"os"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
	"github.com/pluqqy/gridkit/pkg/store"
)

// CommandContext manages project validation and common command context
type CommandContext struct {
	ProjectPath string
	Settings    *models.Settings
	validated   bool
}

// NewCommandContext creates a new command context
func NewCommandContext() (*CommandContext, error) {
	return &CommandContext{
		ProjectPath: files.GridkitDir,
	}, nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}

	if _, err := os.Stat(c.ProjectPath); os.IsNotExist(err) {
		return fmt.Errorf("no .gridkit directory found. Run 'gridkit init' first")
	}

	c.validated = true
	return nil
}

// LoadSettingsWithDefault loads settings or returns default if error.
// The --store flag overrides the configured backend.
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := files.ReadSettings()
	if err != nil {
		PrintWarning("Using default settings: %v", err)
		settings = models.DefaultSettings()
	}
	if storeBackend != "" {
		settings.Store.Backend = storeBackend
	}

	c.Settings = settings
	return settings
}

// TableHandle is an opened table: its document as stored and the
// load/save hooks of the configured backend.
type TableHandle struct {
	Name   string
	Table  *models.Table
	Source interface {
		dataset.Loader
		dataset.Saver
	}
	close func() error
}

// Close releases the backend.
func (h *TableHandle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// Dataset loads the table's rows into a new dataset.
func (h *TableHandle) Dataset() (*dataset.Dataset, error) {
	d := dataset.New(h.Table.Options(), nil, nil)
	if err := d.Load(h.Source); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenTable opens a table through the configured backend
func (c *CommandContext) OpenTable(name string) (*TableHandle, error) {
	if err := ValidateTableName(name); err != nil {
		return nil, err
	}
	settings := c.LoadSettingsWithDefault()

	switch settings.Store.Backend {
	case models.BackendBolt:
		st, err := store.NewStore(files.StorePath(settings))
		if err != nil {
			return nil, err
		}
		t, err := st.Table(name)
		if err != nil {
			st.Close()
			return nil, err
		}
		return &TableHandle{Name: name, Table: t, Source: st.Source(name), close: st.Close}, nil

	default:
		t, err := files.ReadTable(name)
		if err != nil {
			return nil, err
		}
		return &TableHandle{Name: name, Table: t, Source: files.NewTableSource(name)}, nil
	}
}

// ListTables lists the tables of the configured backend
func (c *CommandContext) ListTables() ([]string, error) {
	settings := c.LoadSettingsWithDefault()
	if settings.Store.Backend != models.BackendBolt {
		return files.ListTables()
	}
	st, err := store.NewStore(files.StorePath(settings))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Tables()
}

// PutTable creates or replaces a whole table in the configured backend.
// Without replace, an existing table is an error.
func (c *CommandContext) PutTable(t *models.Table, replace bool) error {
	settings := c.LoadSettingsWithDefault()
	if settings.Store.Backend != models.BackendBolt {
		if replace {
			return files.WriteTable(t)
		}
		return files.CreateTable(t)
	}
	st, err := store.NewStore(files.StorePath(settings))
	if err != nil {
		return err
	}
	defer st.Close()
	if !replace {
		if _, err := st.Table(t.Name); err == nil {
			return fmt.Errorf("%w: %s", files.ErrTableExists, t.Name)
		}
	}
	return st.PutTable(t)
}

// DeleteTable removes a table from the configured backend. File tables
// are archived instead so they can be restored.
func (c *CommandContext) DeleteTable(name string) error {
	settings := c.LoadSettingsWithDefault()
	if settings.Store.Backend != models.BackendBolt {
		return files.ArchiveTable(name)
	}
	st, err := store.NewStore(files.StorePath(settings))
	if err != nil {
		return err
	}
	defer st.Close()
	return st.DeleteTable(name)
}
