package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/dataset"
)

// NewAddCommand creates the add command
func NewAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <table> [field=value]...",
		Short: "Append a row to a table",
		Long: `Append a row to a table and save it.

The row starts from the fields' defaults; assignments override them.
When the table has a numeric id field and no id is given, the next free
id is assigned on save and printed.

Examples:
  # Add a person
  gridkit add people name=dave

  # Add a row with defaults only
  gridkit add people`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: requireProject,
		RunE:    runAdd,
	}

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	tableName := args[0]

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	h, err := ctx.OpenTable(tableName)
	if err != nil {
		return err
	}
	defer h.Close()

	d, err := h.Dataset()
	if err != nil {
		return err
	}
	r, err := d.AddRow()
	if err != nil {
		return err
	}
	if err := assign(d, r, args[1:]); err != nil {
		return err
	}
	if err := validateNew(d, r); err != nil {
		return err
	}
	if err := d.Save(h.Source); err != nil {
		return err
	}

	if idf := d.IDField(); idf != nil {
		cli.PrintSuccess("Added row %s to %s", dataset.Format(d.Val(r, idf)), tableName)
	} else {
		cli.PrintSuccess("Added a row to %s", tableName)
	}
	return nil
}

// validateNew checks every stored value of a new row. The id field is
// skipped since the backend may fill it on save.
func validateNew(d *dataset.Dataset, r *dataset.Row) error {
	idf := d.IDField()
	for _, f := range d.Fields() {
		if f == idf && r.Values[f.Index] == nil {
			continue
		}
		if err := d.ValidateVal(f, r.Values[f.Index]); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return d.ValidateRow(r)
}
