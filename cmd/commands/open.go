package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/tui"
)

// runTUI is replaced in tests
var runTUI = tui.Run

// NewOpenCommand creates the open command
func NewOpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [table]",
		Short: "Open a table in the grid editor",
		Long: `Open a table in the interactive grid editor.

Without a name, the only table of the project is opened.

Keys:
  arrows, tab, pgup/pgdown   move between cells
  enter, f2, or typing       edit a cell; esc cancels
  ctrl+n / ctrl+d            add / remove a row
  ctrl+t / ctrl+g / ctrl+l   sort by column / add sort key / clear sort
  ctrl+s / ctrl+r / ctrl+z   save / reload / discard changes
  ctrl+y                     copy the focused cell
  f1                         toggle help, ctrl+q quits

Examples:
  gridkit open people
  gridkit people`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    RunOpen,
	}

	return cmd
}

// RunOpen opens the named table, or the only table, in the grid editor.
func RunOpen(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}

	name, err := defaultTable(ctx, args)
	if err != nil {
		return err
	}
	h, err := ctx.OpenTable(name)
	if err != nil {
		return err
	}
	defer h.Close()

	settings := ctx.LoadSettingsWithDefault()
	if settings.Grid.Order == "" {
		settings.Grid.Order = h.Table.Order
	}
	app := tui.NewApp(name, h.Table.Options(), h.Source, settings)
	if err := runTUI(app); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}

func defaultTable(ctx *cli.CommandContext, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	names, err := ctx.ListTables()
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no tables found. Create one with 'gridkit create' or 'gridkit import'")
	case 1:
		return names[0], nil
	}
	return "", fmt.Errorf("%d tables found, name one: gridkit open <table>", len(names))
}
