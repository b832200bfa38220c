// Package composer renders table rows as a Markdown document.
package composer

import (
	"fmt"
	"strings"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// Options shape a composed document
type Options struct {
	// Title is written as the top heading; empty omits it.
	Title string
	// Order is noted under the title when set.
	Order string
	// GroupBy splits the rows into one section per distinct value of
	// this field, in order of first appearance.
	GroupBy *dataset.Field
}

// ComposeTable writes fields of rows as a Markdown pipe table
func ComposeTable(d *dataset.Dataset, fields []*dataset.Field, rows []*dataset.Row, opts Options) (string, error) {
	if d == nil {
		return "", fmt.Errorf("dataset is nil")
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("table has no fields to compose")
	}

	var output strings.Builder
	if opts.Title != "" {
		output.WriteString(fmt.Sprintf("# Table: %s\n\n", opts.Title))
	}
	if opts.Order != "" {
		output.WriteString(fmt.Sprintf("_Sorted by %s_\n\n", opts.Order))
	}

	if opts.GroupBy == nil {
		writeTable(&output, d, fields, rows)
		return output.String(), nil
	}

	// Group rows by value while keeping their order
	groups := make(map[string][]*dataset.Row)
	groupOrder := []string{}
	for _, r := range rows {
		key := dataset.Format(d.Val(r, opts.GroupBy))
		if _, exists := groups[key]; !exists {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], r)
	}

	var rest []*dataset.Field
	for _, f := range fields {
		if f != opts.GroupBy {
			rest = append(rest, f)
		}
	}
	if len(rest) == 0 {
		rest = fields
	}

	for i, key := range groupOrder {
		output.WriteString(fmt.Sprintf("## %s\n\n", groupHeading(opts.GroupBy, key)))
		writeTable(&output, d, rest, groups[key])
		if i < len(groupOrder)-1 {
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func writeTable(output *strings.Builder, d *dataset.Dataset, fields []*dataset.Field, rows []*dataset.Row) {
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = escapeCell(f.Name)
	}
	writeLine(output, cells)

	for i, f := range fields {
		switch f.EffectiveAlign() {
		case dataset.AlignRight:
			cells[i] = "---:"
		case dataset.AlignCenter:
			cells[i] = ":---:"
		default:
			cells[i] = "---"
		}
	}
	writeLine(output, cells)

	for _, r := range rows {
		for i, f := range fields {
			cells[i] = escapeCell(dataset.Format(d.Val(r, f)))
		}
		writeLine(output, cells)
	}
}

func writeLine(output *strings.Builder, cells []string) {
	output.WriteString("| ")
	output.WriteString(strings.Join(cells, " | "))
	output.WriteString(" |\n")
}

// escapeCell keeps a value on one line of its table cell
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}

func groupHeading(f *dataset.Field, key string) string {
	if key == "" {
		return fmt.Sprintf("%s: (empty)", f.Name)
	}
	return fmt.Sprintf("%s: %s", f.Name, escapeCell(key))
}
