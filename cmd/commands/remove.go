package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
)

// NewRemoveCommand creates the remove command
func NewRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <table> <row-id>...",
		Aliases: []string{"rm"},
		Short:   "Remove rows from a table",
		Long: `Remove the rows with the given ids and save the table.

Examples:
  # Remove person 2
  gridkit remove people 2

  # Remove several rows without confirmation
  gridkit remove people 2 3 5 -y`,
		Args:    cobra.MinimumNArgs(2),
		PreRunE: requireProject,
		RunE:    runRemove,
	}

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	tableName, ids := args[0], args[1:]

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
	for _, id := range ids {
		r, err := rowByID(d, tableName, id)
		if err != nil {
			return err
		}
		if _, err := d.RemoveRow(r); err != nil {
			return fmt.Errorf("row %s: %w", id, err)
		}
	}

	ok, err := confirmed(cmd, fmt.Sprintf("Remove %d row(s) from %s?", len(ids), tableName))
	if err != nil {
		return err
	}
	if !ok {
		cli.PrintInfo("Remove cancelled")
		return nil
	}

	if err := d.Save(h.Source); err != nil {
		return err
	}

	cli.PrintSuccess("Removed %d row(s) from %s", len(ids), tableName)
	return nil
}
