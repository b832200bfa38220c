package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
)

var (
	importName    string
	importReplace bool
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a table document",
		Long: `Import a YAML or JSON table document, such as one written by
'gridkit export', into the configured backend.

Examples:
  # Import a table under the name stored in the document
  gridkit import people.yaml

  # Import under another name
  gridkit import people.json --name staff

  # Overwrite an existing table
  gridkit import people.yaml --replace -y`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := requireProject(cmd, args); err != nil {
				return err
			}
			return cli.ValidateFilePath(args[0])
		},
		RunE: runImport,
	}

	cmd.Flags().StringVar(&importName, "name", "", "Table name (default: the document's name)")
	cmd.Flags().BoolVar(&importReplace, "replace", false, "Replace an existing table")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	t, err := files.ReadTableFile(args[0])
	if err != nil {
		return err
	}
	if importName != "" {
		t.Name = importName
	}
	if err := cli.ValidateTableName(t.Name); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}

	if importReplace {
		ok, err := confirmed(cmd, fmt.Sprintf("Replace table '%s' if it exists?", t.Name))
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Import cancelled")
			return nil
		}
	}

	if err := ctx.PutTable(t, importReplace); err != nil {
		if errors.Is(err, files.ErrTableExists) {
			return fmt.Errorf("table '%s' already exists (use --replace to overwrite)", t.Name)
		}
		return fmt.Errorf("failed to import table: %w", err)
	}

	cli.PrintSuccess("Imported table '%s' (%d fields, %d rows)", t.Name, len(t.Fields), len(t.Rows))
	return nil
}
