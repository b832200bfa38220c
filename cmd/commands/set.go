package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/dataset"
)

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <table> <row-id> <field=value>...",
		Short: "Change cells of one row",
		Long: `Change one or more cells of the row with the given id and save the table.

Values are converted with the field's type: numbers are parsed, booleans
accept true/false, yes/no, 1/0. An empty value clears a number field.
Every assignment is validated before anything is saved.

Examples:
  # Rename person 2
  gridkit set people 2 name=carol

  # Change two cells at once
  gridkit set people 2 name=carol age=41`,
		Args:    cobra.MinimumNArgs(3),
		PreRunE: requireProject,
		RunE:    runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	tableName, id := args[0], args[1]

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
	r, err := rowByID(d, tableName, id)
	if err != nil {
		return err
	}

	if err := assign(d, r, args[2:]); err != nil {
		return err
	}
	if !r.Changed() {
		cli.PrintInfo("Row %s of %s is unchanged", id, tableName)
		return nil
	}
	if err := d.Save(h.Source); err != nil {
		return err
	}

	cli.PrintSuccess("Updated row %s of %s", id, tableName)
	return nil
}

// assign applies field=value arguments to r. The first failing
// assignment stops the run.
func assign(d *dataset.Dataset, r *dataset.Row, assignments []string) error {
	for _, arg := range assignments {
		name, value, err := cli.ParseAssignment(arg)
		if err != nil {
			return err
		}
		f := d.Field(name)
		if f == nil {
			return fmt.Errorf("%w: %q", dataset.ErrUnknownField, name)
		}
		if err := d.SetVal(r, f, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
