package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

var deleteArchived bool

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "Delete a table",
		Long: `Delete a table.

With the file backend an active table is archived, so it can still be
restored; --archived deletes an archived table permanently. With the
bolt backend the table is deleted at once.

Examples:
  # Delete (archive) a table
  gridkit delete people

  # Permanently delete an archived table
  gridkit delete people --archived -y`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runDelete,
	}

	cmd.Flags().BoolVar(&deleteArchived, "archived", false, "Permanently delete an archived table")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := cli.ValidateTableName(name); err != nil {
		return err
	}

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	backend := ctx.LoadSettingsWithDefault().Store.Backend

	if deleteArchived {
		if backend != models.BackendFile {
			return fmt.Errorf("the %s backend does not keep archived tables", backend)
		}
		ok, err := confirmed(cmd, fmt.Sprintf("Permanently delete archived table '%s'? This cannot be undone.", name))
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Delete cancelled")
			return nil
		}
		if err := files.DeleteArchivedTable(name); err != nil {
			return err
		}
		cli.PrintSuccess("Deleted archived table: %s", name)
		return nil
	}

	ok, err := confirmed(cmd, fmt.Sprintf("Delete table '%s'?", name))
	if err != nil {
		return err
	}
	if !ok {
		cli.PrintInfo("Delete cancelled")
		return nil
	}
	if err := ctx.DeleteTable(name); err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}

	if backend == models.BackendFile {
		cli.PrintSuccess("Archived table: %s (restore with 'gridkit restore %s')", name, name)
	} else {
		cli.PrintSuccess("Deleted table: %s", name)
	}
	return nil
}
