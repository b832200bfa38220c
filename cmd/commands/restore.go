package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
)

// NewRestoreCommand creates the restore command
func NewRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <table>",
		Short: "Restore an archived table",
		Long: `Restore an archived table back to active use.

Examples:
  # Restore a table
  gridkit restore people

  # See what can be restored
  gridkit list --archived`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runRestore,
	}

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := requireFileBackend("restore"); err != nil {
		return err
	}
	if err := cli.ValidateTableName(name); err != nil {
		return err
	}

	if err := files.RestoreTable(name); err != nil {
		return fmt.Errorf("failed to restore table: %w", err)
	}

	cli.PrintSuccess("Restored table: %s", name)
	return nil
}
