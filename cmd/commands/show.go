package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
)

// ShowResult represents the output structure for show command
type ShowResult struct {
	Table  string           `json:"table" yaml:"table"`
	Order  string           `json:"order,omitempty" yaml:"order,omitempty"`
	Fields []string         `json:"fields" yaml:"fields"`
	Rows   []map[string]any `json:"rows" yaml:"rows"`
	Count  int              `json:"count" yaml:"count"`
}

var (
	showOrder string
	showLimit int
	showAll   bool
	showWhere string
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Print the rows of a table",
		Long: `Print the rows of a table, optionally sorted.

The order is a comma separated list of field names, each optionally
followed by :asc or :desc. Without --order the table's stored order is
used.

--where takes a search query: bare words match any visible field,
field:value matches a field containing value, and field:=, field:!=,
field:> and field:< compare with the field's type. Conditions combine
with AND (the default), OR and NOT.

Examples:
  # Show a table
  gridkit show people

  # Sort by name, then by id descending
  gridkit show people --order "name, id:desc"

  # Only people over 30 whose name contains "al"
  gridkit show people --where "age:>30 name:al"

  # Only the first 10 rows, as YAML
  gridkit show people --limit 10 -o yaml

  # Include hidden fields
  gridkit show people --all`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runShow,
	}

	cmd.Flags().StringVar(&showOrder, "order", "", "Sort order, e.g. \"name, id:desc\"")
	cmd.Flags().StringVarP(&showWhere, "where", "w", "", "Only show rows matching this search query")
	cmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Show at most this many rows (0 shows all)")
	cmd.Flags().BoolVar(&showAll, "all", false, "Include hidden fields")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	h, err := ctx.OpenTable(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	d, err := h.Dataset()
	if err != nil {
		return err
	}

	spec := showOrder
	if spec == "" {
		spec = h.Table.Order
	}
	rows, s, err := sortedRows(d, spec)
	if err != nil {
		return err
	}
	if rows, err = whereRows(d, rows, showWhere); err != nil {
		return err
	}
	total := len(rows)
	if showLimit > 0 && showLimit < len(rows) {
		rows = rows[:showLimit]
	}

	fields := visibleFields(d)
	if showAll {
		fields = d.Fields()
	}

	if format != string(cli.FormatText) {
		result := ShowResult{
			Table: h.Name,
			Order: s.String(),
			Rows:  cli.Records(d, fields, rows),
			Count: len(rows),
		}
		for _, f := range fields {
			result.Fields = append(result.Fields, f.Name)
		}
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	out := cmd.OutOrStdout()
	if len(fields) == 0 {
		fmt.Fprintf(out, "Table %s has no visible fields.\n", h.Name)
		return nil
	}
	cli.PrintRows(out, d, fields, rows, false)
	if len(rows) < total {
		fmt.Fprintf(out, "\n%d of %d row(s)\n", len(rows), total)
	} else {
		fmt.Fprintf(out, "\n%d row(s)\n", total)
	}
	if len(s) > 0 {
		fmt.Fprintf(out, "Order: %s\n", s)
	}

	return nil
}
