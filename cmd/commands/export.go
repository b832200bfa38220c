package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/composer"
	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/models"
)

var (
	exportToFile    string
	exportClipboard bool
	exportOrder     string
	exportFormat    string
	exportWhere     string
	exportGroupBy   string
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Export a table to stdout, a file or the clipboard",
		Long: `Export a table as a YAML or JSON document or as tab separated values.

YAML and JSON exports are complete table documents (fields and rows) and
can be brought back with 'gridkit import'. TSV writes a header line and
one line per row, ready to paste into a spreadsheet. Markdown writes a
pipe table, optionally split into one section per value of --group-by.

Examples:
  # Export a table to stdout
  gridkit export people

  # Export sorted rows as TSV to the clipboard
  gridkit export people --format tsv --order name --clipboard

  # Export only the admins
  gridkit export people --where admin:=true

  # Export a Markdown document grouped by team
  gridkit export people --format markdown --group-by team

  # Export to a file
  gridkit export people --format json --file people.json`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runExport,
	}

	cmd.Flags().StringVarP(&exportToFile, "file", "f", "", "Export to file instead of stdout")
	cmd.Flags().BoolVarP(&exportClipboard, "clipboard", "c", false, "Copy the export to the clipboard")
	cmd.Flags().StringVar(&exportOrder, "order", "", "Sort order of the exported rows")
	cmd.Flags().StringVarP(&exportWhere, "where", "w", "", "Only export rows matching this search query")
	cmd.Flags().StringVar(&exportFormat, "format", "yaml", "Export format (yaml, json, tsv, markdown)")
	cmd.Flags().StringVar(&exportGroupBy, "group-by", "", "Split a markdown export into sections by this field")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateExportFormat(exportFormat); err != nil {
		return err
	}
	if exportToFile != "" && exportClipboard {
		return fmt.Errorf("--file and --clipboard cannot be used together")
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
	spec := exportOrder
	if spec == "" {
		spec = h.Table.Order
	}
	rows, s, err := sortedRows(d, spec)
	if err != nil {
		return err
	}
	if rows, err = whereRows(d, rows, exportWhere); err != nil {
		return err
	}

	var buf bytes.Buffer
	switch cli.OutputFormat(exportFormat) {
	case cli.FormatTSV:
		err = cli.WriteTSV(&buf, d, visibleFields(d), rows)
	case cli.FormatMarkdown:
		var md string
		md, err = composeMarkdown(h.Name, d, rows, s.String())
		buf.WriteString(md)
	default:
		doc := exportDocument(h.Table, d, rows)
		if exportOrder != "" {
			doc.Order = s.String()
		}
		err = cli.OutputResults(&buf, exportFormat, doc)
	}
	if err != nil {
		return fmt.Errorf("failed to format export: %w", err)
	}

	switch {
	case exportToFile != "":
		if err := os.WriteFile(exportToFile, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		cli.PrintSuccess("Table '%s' exported to: %s (%s format)", h.Name, exportToFile, exportFormat)
	case exportClipboard:
		if err := copyToClipboard(buf.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		cli.PrintSuccess("Table '%s' copied to clipboard (%d rows)", h.Name, len(rows))
	default:
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	return nil
}

func composeMarkdown(name string, d *dataset.Dataset, rows []*dataset.Row, order string) (string, error) {
	opts := composer.Options{Title: name, Order: order}
	if exportGroupBy != "" {
		if opts.GroupBy = d.Field(exportGroupBy); opts.GroupBy == nil {
			return "", fmt.Errorf("%w: %q", dataset.ErrUnknownField, exportGroupBy)
		}
	}
	return composer.ComposeTable(d, visibleFields(d), rows, opts)
}

// exportDocument is the stored table with its rows in the given order
func exportDocument(stored *models.Table, d *dataset.Dataset, rows []*dataset.Row) *models.Table {
	doc := models.TableOf(stored.Name, stored.Order, d)
	doc.Rows = make([][]any, len(rows))
	for i, r := range rows {
		doc.Rows[i] = append([]any(nil), r.Values...)
	}
	return doc
}
