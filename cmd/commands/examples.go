package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/examples"
)

func NewExamplesCommand() *cobra.Command {
	var listOnly bool
	var force bool

	cmd := &cobra.Command{
		Use:   "examples [category]",
		Short: "Add example tables to your project",
		Long: `Add example tables to your project to try sorting, editing and
filtering on realistic data.

Categories:
  team         - People and projects with numeric ids (default)
  store        - A product catalog keyed by SKU with a hidden column
  all          - Install all example categories

The tables are named with an 'example-' prefix to distinguish them from
your own tables.`,
		Example: `  # Add the team examples
  gridkit examples

  # List available examples without installing
  gridkit examples --list

  # Add all examples, overwriting earlier copies
  gridkit examples all --force`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			category := "team"
			if len(args) > 0 {
				category = args[0]
			} else if listOnly {
				category = "all"
			}

			if !cli.Contains(examples.Categories, category) {
				return fmt.Errorf("invalid category '%s'. Valid categories: %s",
					category, strings.Join(examples.Categories, ", "))
			}

			if listOnly {
				listExamples(cmd, category)
				return nil
			}
			return installExamples(cmd, category, force)
		},
	}

	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "List available examples without installing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing example tables")

	return cmd
}

func listExamples(cmd *cobra.Command, category string) {
	out := cmd.OutOrStdout()
	for _, set := range examples.GetExamples(category) {
		fmt.Fprintf(out, "📦 [%s] %s\n", set.Category, set.Name)
		fmt.Fprintf(out, "   %s\n", set.Description)
		for _, t := range set.Tables {
			fmt.Fprintf(out, "   • %s (%d fields, %d rows)\n", t.Name, len(t.Fields), len(t.Rows))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "To install, run: gridkit examples <category>\n")
}

func installExamples(cmd *cobra.Command, category string, force bool) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}

	installed, skipped := 0, 0
	for _, set := range examples.GetExamples(category) {
		for _, t := range set.Tables {
			err := examples.InstallTable(ctx, t, force)
			if errors.Is(err, examples.ErrExists) {
				skipped++
				cli.PrintWarning("Skipped %s (already exists, use --force to overwrite)", t.Name)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to install table %s: %w", t.Name, err)
			}
			installed++
			cli.PrintSuccess("Installed table %s", t.Name)
		}
	}

	if skipped > 0 {
		cli.PrintInfo("Installed %d table(s), skipped %d", installed, skipped)
	} else {
		cli.PrintInfo("Installed %d table(s). Open one with 'gridkit open <table>'", installed)
	}
	return nil
}
