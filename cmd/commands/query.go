package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
	"github.com/pluqqy/gridkit/pkg/query"
)

var (
	queryTables []string
	querySave   string
)

// NewQueryCommand creates the query command
func NewQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL over tables",
		Long: `Run a SQL query over tables loaded into an in-memory SQLite database.

Each table becomes a SQL table of the same name. Without --table every
table of the project is loaded. The result can be saved as a new table.

Examples:
  # Count people by name
  gridkit query "SELECT name, count(*) AS n FROM people GROUP BY name"

  # Only load the tables the query needs
  gridkit query "SELECT * FROM people p JOIN tasks t ON t.owner = p.id" --table people --table tasks

  # Keep the result
  gridkit query "SELECT * FROM people WHERE id > 10" --save recent-people`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runQuery,
	}

	cmd.Flags().StringSliceVarP(&queryTables, "table", "t", nil, "Table to load (repeatable, default: all)")
	cmd.Flags().StringVar(&querySave, "save", "", "Save the result as a new table")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	if querySave != "" {
		if err := cli.ValidateTableName(querySave); err != nil {
			return err
		}
	}

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}

	names := queryTables
	if len(names) == 0 {
		if names, err = ctx.ListTables(); err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
	}
	var tables []*models.Table
	for _, name := range names {
		h, err := ctx.OpenTable(name)
		if err != nil {
			return err
		}
		tables = append(tables, h.Table)
		h.Close()
	}

	result, err := query.Run(tables, args[0])
	if err != nil {
		return err
	}

	if querySave != "" {
		result.Name = querySave
		result.ReadOnly = false
		if err := ctx.PutTable(result, false); err != nil {
			if errors.Is(err, files.ErrTableExists) {
				return fmt.Errorf("table '%s' already exists", querySave)
			}
			return fmt.Errorf("failed to save result: %w", err)
		}
		cli.PrintSuccess("Saved %d row(s) as table '%s'", len(result.Rows), querySave)
		return nil
	}

	d, err := result.Dataset()
	if err != nil {
		return err
	}
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, cli.Records(d, d.Fields(), d.Rows()))
	}

	out := cmd.OutOrStdout()
	cli.PrintRows(out, d, d.Fields(), d.Rows(), false)
	fmt.Fprintf(out, "\n%d row(s)\n", len(d.Rows()))
	return nil
}
