package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

var (
	createFields   []string
	createIDField  string
	createOrder    string
	createReadOnly bool
)

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <table>",
		Short: "Create an empty table",
		Long: `Create an empty table with the given fields.

Each --field is name[:type], where type is string (default), number or
boolean. With --id, the named field identifies rows; a numeric id field
is filled automatically when rows are added.

Examples:
  # A table of people keyed by a numeric id
  gridkit create people --field id:number --field name --id id

  # Fields can also be given comma separated
  gridkit create tasks --field id:number,title,done:boolean --id id --order done`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := requireProject(cmd, args); err != nil {
				return err
			}
			return cli.ValidateTableName(args[0])
		},
		RunE: runCreate,
	}

	cmd.Flags().StringSliceVar(&createFields, "field", nil, "Field as name[:type] (repeatable)")
	cmd.Flags().StringVar(&createIDField, "id", "", "Name of the id field")
	cmd.Flags().StringVar(&createOrder, "order", "", "Default sort order")
	cmd.Flags().BoolVar(&createReadOnly, "read-only", false, "Refuse edits to the table")
	cmd.MarkFlagRequired("field")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	t := &models.Table{
		Name:     args[0],
		IDField:  createIDField,
		Order:    createOrder,
		ReadOnly: createReadOnly,
		Rows:     [][]any{},
	}
	for _, arg := range createFields {
		spec, err := parseFieldSpec(arg)
		if err != nil {
			return err
		}
		if spec.Name == createIDField {
			spec.ReadOnly = spec.Type == dataset.TypeNumber
		}
		t.Fields = append(t.Fields, spec)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if createOrder != "" {
		d, err := t.Dataset()
		if err != nil {
			return err
		}
		if _, _, err := sortedRows(d, createOrder); err != nil {
			return err
		}
	}

	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	if err := ctx.PutTable(t, false); err != nil {
		if errors.Is(err, files.ErrTableExists) {
			return fmt.Errorf("table '%s' already exists", t.Name)
		}
		return fmt.Errorf("failed to create table: %w", err)
	}

	cli.PrintSuccess("Created table '%s' with %d field(s)", t.Name, len(t.Fields))
	return nil
}

func parseFieldSpec(arg string) (models.FieldSpec, error) {
	name, typ, _ := strings.Cut(strings.TrimSpace(arg), ":")
	spec := models.FieldSpec{Name: name, AllowNull: true}
	switch strings.ToLower(typ) {
	case "", dataset.TypeString:
	case dataset.TypeNumber, dataset.TypeBoolean:
		spec.Type = strings.ToLower(typ)
	default:
		return spec, fmt.Errorf("invalid type %q for field %s (must be string, number or boolean)", typ, name)
	}
	if err := models.ValidateName(name); err != nil {
		return spec, fmt.Errorf("invalid field name %q: %w", name, err)
	}
	return spec, nil
}
