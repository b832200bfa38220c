package examples

import (
	"errors"
	"fmt"

	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

// Prefix marks example tables apart from the user's own
const Prefix = "example-"

// ExampleSet represents a collection of related example tables
type ExampleSet struct {
	Category    string
	Name        string
	Description string
	Tables      []*models.Table
}

// Categories lists the accepted categories, "all" last
var Categories = []string{"team", "store", "all"}

// GetExamples returns example sets for the given category
func GetExamples(category string) []ExampleSet {
	switch category {
	case "team":
		return []ExampleSet{teamExamples()}
	case "store":
		return []ExampleSet{storeExamples()}
	case "all":
		return []ExampleSet{teamExamples(), storeExamples()}
	default:
		return []ExampleSet{}
	}
}

// Putter stores a whole table
type Putter interface {
	PutTable(t *models.Table, replace bool) error
}

// ErrExists reports an example table that is already installed
var ErrExists = errors.New("example already exists")

// InstallTable writes an example table. Without force an existing table
// is left alone and ErrExists returned.
func InstallTable(p Putter, table *models.Table, force bool) error {
	if err := table.Validate(); err != nil {
		return fmt.Errorf("example %s is invalid: %w", table.Name, err)
	}
	err := p.PutTable(table, force)
	if errors.Is(err, files.ErrTableExists) {
		return fmt.Errorf("%w: %s", ErrExists, table.Name)
	}
	return err
}

func teamExamples() ExampleSet {
	return ExampleSet{
		Category:    "team",
		Name:        "Team directory",
		Description: "People and the projects they own, with numeric ids",
		Tables: []*models.Table{
			{
				Name:    Prefix + "people",
				IDField: "id",
				Order:   "team, name",
				Fields: []models.FieldSpec{
					{Name: "id", Type: "number", Width: 4, ReadOnly: true},
					{Name: "name", Width: 16},
					{Name: "team", Width: 10, AllowNull: true},
					{Name: "email", Width: 24, AllowNull: true},
					{Name: "age", Type: "number", Width: 5, AllowNull: true},
					{Name: "admin", Type: "boolean", Width: 6, Default: false},
				},
				Rows: [][]any{
					{1.0, "Ada Park", "platform", "ada@example.com", 36.0, true},
					{2.0, "Ben Ortiz", "platform", "ben@example.com", 29.0, false},
					{3.0, "Chloe Nakamura", "design", "chloe@example.com", 41.0, false},
					{4.0, "Dev Rao", "support", nil, nil, false},
					{5.0, "Eva Lind", "design", "eva@example.com", 33.0, true},
				},
			},
			{
				Name:    Prefix + "projects",
				IDField: "id",
				Order:   "due",
				Fields: []models.FieldSpec{
					{Name: "id", Type: "number", Width: 4, ReadOnly: true},
					{Name: "title", Width: 20},
					{Name: "owner", Type: "number", Width: 6, AllowNull: true},
					{Name: "due", Width: 10, AllowNull: true},
					{Name: "done", Type: "boolean", Width: 5, Default: false},
				},
				Rows: [][]any{
					{1.0, "Storage migration", 1.0, "2026-11-02", false},
					{2.0, "New onboarding flow", 3.0, "2026-12-15", false},
					{3.0, "Help center search", 4.0, nil, false},
					{4.0, "Dark theme", 5.0, "2026-09-30", true},
				},
			},
		},
	}
}

func storeExamples() ExampleSet {
	return ExampleSet{
		Category:    "store",
		Name:        "Small store",
		Description: "A product catalog with prices, stock and a hidden cost column",
		Tables: []*models.Table{
			{
				Name:    Prefix + "products",
				IDField: "sku",
				Order:   "category, price:desc",
				Fields: []models.FieldSpec{
					{Name: "sku", Width: 8},
					{Name: "name", Width: 20},
					{Name: "category", Width: 10},
					{Name: "price", Type: "number", Width: 8},
					{Name: "stock", Type: "number", Width: 6, Default: 0.0},
					{Name: "active", Type: "boolean", Width: 6, Default: true},
					{Name: "cost", Type: "number", Width: 8, Hidden: true, AllowNull: true},
				},
				Rows: [][]any{
					{"tea-01", "Green tea", "tea", 6.5, 40.0, true, 2.1},
					{"tea-02", "Smoked black tea", "tea", 8.0, 12.0, true, 3.4},
					{"cup-01", "Glazed cup", "ware", 14.0, 6.0, true, nil},
					{"pot-01", "Cast iron pot", "ware", 42.0, 0.0, false, 18.0},
				},
			},
		},
	}
}
