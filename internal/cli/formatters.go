package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/truncate"
	"gopkg.in/yaml.v3"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatTSV  OutputFormat = "tsv"
	// FormatMarkdown is an export format only
	FormatMarkdown OutputFormat = "markdown"
)

// maxCellWidth caps a cell in text tables
const maxCellWidth = 40

// TableFormatter helps format tabular output
type TableFormatter struct {
	writer *tabwriter.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	return &TableFormatter{writer: tw}
}

// Header writes the table header and a rule under it
func (t *TableFormatter) Header(columns ...string) {
	fmt.Fprintln(t.writer, strings.Join(columns, "\t"))
	rules := make([]string, len(columns))
	for i, c := range columns {
		rules[i] = strings.Repeat("-", max(len(c), 3))
	}
	fmt.Fprintln(t.writer, strings.Join(rules, "\t"))
}

// Row writes a table row
func (t *TableFormatter) Row(values ...string) {
	fmt.Fprintln(t.writer, strings.Join(values, "\t"))
}

// Flush writes the buffered table to output
func (t *TableFormatter) Flush() {
	t.writer.Flush()
}

// OutputResults formats and outputs results based on the specified format
func OutputResults(w io.Writer, format string, data interface{}) error {
	switch OutputFormat(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		yamlData, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(yamlData))
		return nil

	case FormatText:
		// For text format, we expect the caller to have already formatted
		// the data appropriately. This is a fallback.
		fmt.Fprintf(w, "%v\n", data)
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Records turns rows into field-name keyed maps for json and yaml output
func Records(d *dataset.Dataset, fields []*dataset.Field, rows []*dataset.Row) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		rec := make(map[string]any, len(fields))
		for _, f := range fields {
			rec[f.Name] = d.Val(r, f)
		}
		out = append(out, rec)
	}
	return out
}

// PrintRows writes rows as an aligned text table. With marks, a leading
// column flags new (+), changed (*) and removed (-) rows.
func PrintRows(w io.Writer, d *dataset.Dataset, fields []*dataset.Field, rows []*dataset.Row, marks bool) {
	tf := NewTableFormatter(w)
	var header []string
	if marks {
		header = append(header, " ")
	}
	for _, f := range fields {
		header = append(header, strings.ToUpper(f.Name))
	}
	tf.Header(header...)
	for _, r := range rows {
		var values []string
		if marks {
			values = append(values, RowMark(r))
		}
		for _, f := range fields {
			values = append(values, TruncateString(dataset.Format(d.Val(r, f)), maxCellWidth))
		}
		tf.Row(values...)
	}
	tf.Flush()
}

// RowMark returns the change marker of a row
func RowMark(r *dataset.Row) string {
	switch {
	case r.Removed:
		return "-"
	case r.IsNew:
		return "+"
	case r.OldValues != nil:
		return "*"
	}
	return " "
}

// WriteTSV writes a header line and one tab separated line per row. Tabs
// and newlines inside values are replaced by spaces.
func WriteTSV(w io.Writer, d *dataset.Dataset, fields []*dataset.Field, rows []*dataset.Row) error {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	if _, err := fmt.Fprintln(w, strings.Join(names, "\t")); err != nil {
		return err
	}
	for _, r := range rows {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = clean.Replace(dataset.Format(d.Val(r, f)))
		}
		if _, err := fmt.Fprintln(w, strings.Join(values, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// TruncateString truncates a string to the specified display width
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(maxLen), "...")
}
