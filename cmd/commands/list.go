package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

// ListResult represents the output structure for list command
type ListResult struct {
	Backend  string     `json:"backend" yaml:"backend"`
	Archived bool       `json:"archived,omitempty" yaml:"archived,omitempty"`
	Tables   []ListItem `json:"tables" yaml:"tables"`
	Count    int        `json:"count" yaml:"count"`
}

// ListItem represents a single table in the list
type ListItem struct {
	Name     string `json:"name" yaml:"name"`
	Fields   int    `json:"fields" yaml:"fields"`
	Rows     int    `json:"rows" yaml:"rows"`
	IDField  string `json:"id_field,omitempty" yaml:"id_field,omitempty"`
	Order    string `json:"order,omitempty" yaml:"order,omitempty"`
	ReadOnly bool   `json:"read_only,omitempty" yaml:"read_only,omitempty"`
}

var listShowArchived bool

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tables",
		Long: `List the tables of the current project with their field and row counts.

Examples:
  # List all tables
  gridkit list

  # List tables with JSON output
  gridkit list -o json

  # Show only archived tables (file backend)
  gridkit list --archived`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runList,
	}

	cmd.Flags().BoolVarP(&listShowArchived, "archived", "a", false, "Show only archived tables")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	settings := ctx.LoadSettingsWithDefault()

	result := ListResult{Backend: settings.Store.Backend, Archived: listShowArchived, Tables: []ListItem{}}

	if listShowArchived {
		if settings.Store.Backend != models.BackendFile {
			return fmt.Errorf("the %s backend does not keep archived tables", settings.Store.Backend)
		}
		names, err := files.ListArchivedTables()
		if err != nil {
			return err
		}
		for _, name := range names {
			t, err := files.LoadTable(files.ArchivedTablePath(name))
			if err != nil {
				cli.PrintWarning("Skipping %s: %v", name, err)
				continue
			}
			result.Tables = append(result.Tables, listItem(t))
		}
	} else {
		names, err := ctx.ListTables()
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		for _, name := range names {
			h, err := ctx.OpenTable(name)
			if err != nil {
				cli.PrintWarning("Skipping %s: %v", name, err)
				continue
			}
			result.Tables = append(result.Tables, listItem(h.Table))
			h.Close()
		}
	}
	result.Count = len(result.Tables)

	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	out := cmd.OutOrStdout()
	if result.Count == 0 {
		if listShowArchived {
			fmt.Fprintln(out, "No archived tables.")
		} else {
			fmt.Fprintln(out, "No tables found. Create one with 'gridkit create' or 'gridkit import'.")
		}
		return nil
	}

	tf := cli.NewTableFormatter(out)
	tf.Header("NAME", "FIELDS", "ROWS", "ID", "ORDER")
	for _, item := range result.Tables {
		name := item.Name
		if item.ReadOnly {
			name += " (read-only)"
		}
		tf.Row(name, strconv.Itoa(item.Fields), strconv.Itoa(item.Rows), item.IDField, item.Order)
	}
	tf.Flush()
	fmt.Fprintf(out, "\n%d table(s)\n", result.Count)

	return nil
}

func listItem(t *models.Table) ListItem {
	return ListItem{
		Name:     t.Name,
		Fields:   len(t.Fields),
		Rows:     len(t.Rows),
		IDField:  t.IDField,
		Order:    t.Order,
		ReadOnly: t.ReadOnly,
	}
}
