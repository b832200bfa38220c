package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

// NewArchiveCommand creates the archive command
func NewArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <table>",
		Short: "Archive a table",
		Long: `Archive a table to move it out of active use.

Archived tables are moved to the archive directory and won't appear
in normal listings unless specifically requested. Only the file backend
keeps archived tables.

Examples:
  # Archive a table
  gridkit archive people

  # Archive without confirmation
  gridkit archive old-people -y`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runArchive,
	}

	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := requireFileBackend("archive"); err != nil {
		return err
	}
	if err := cli.ValidateTableName(name); err != nil {
		return err
	}

	ok, err := confirmed(cmd, fmt.Sprintf("Archive table '%s'?", name))
	if err != nil {
		return err
	}
	if !ok {
		cli.PrintInfo("Archive cancelled")
		return nil
	}

	if err := files.ArchiveTable(name); err != nil {
		return fmt.Errorf("failed to archive table: %w", err)
	}

	cli.PrintSuccess("Archived table: %s", name)
	return nil
}

// requireFileBackend refuses archive operations on the bolt backend
func requireFileBackend(op string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	if backend := ctx.LoadSettingsWithDefault().Store.Backend; backend != models.BackendFile {
		return fmt.Errorf("cannot %s tables with the %s backend", op, backend)
	}
	return nil
}
