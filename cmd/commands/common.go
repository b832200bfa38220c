package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/order"
	"github.com/pluqqy/gridkit/pkg/search"
)

// requireProject is the PreRunE of every command that works on tables
func requireProject(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	return ctx.ValidateProject()
}

// outputFormat reads the persistent -o flag. Commands run on their own
// (as in tests) have no such flag and print text.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = string(cli.FormatText)
	}
	if err := cli.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// confirmed asks before a destructive step unless --yes was given
func confirmed(cmd *cobra.Command, prompt string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	return cli.Confirm(prompt, false)
}

// sortedRows returns the live rows of d in the given order. An empty spec
// keeps the stored order.
func sortedRows(d *dataset.Dataset, spec string) ([]*dataset.Row, order.Spec, error) {
	s, err := order.Parse(spec, d.Field)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid order %q: %w", spec, err)
	}
	var live []*dataset.Row
	for _, r := range d.Rows() {
		if !r.Removed {
			live = append(live, r)
		}
	}
	return order.Sort(live, s, d, nil), s, nil
}

// whereRows keeps the rows matching a search query. An empty query keeps
// them all.
func whereRows(d *dataset.Dataset, rows []*dataset.Row, where string) ([]*dataset.Row, error) {
	keep, err := search.Filter(d, where)
	if err != nil || keep == nil {
		return rows, err
	}
	var matched []*dataset.Row
	for _, r := range rows {
		if keep(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// visibleFields drops hidden fields
func visibleFields(d *dataset.Dataset) []*dataset.Field {
	var fields []*dataset.Field
	for _, f := range d.Fields() {
		if !f.Hidden {
			fields = append(fields, f)
		}
	}
	return fields
}

// rowByID finds a row by the text form of its id
func rowByID(d *dataset.Dataset, table, id string) (*dataset.Row, error) {
	if d.IDField() == nil {
		return nil, fmt.Errorf("table %s has no id field", table)
	}
	r, err := d.RowByID(id)
	if err != nil {
		return nil, fmt.Errorf("row %s not found in table %s: %w", id, table, err)
	}
	return r, nil
}
