package composer

import (
	"strings"
	"testing"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

func inventory() *dataset.Dataset {
	fields := []*dataset.Field{
		{Name: "sku", Type: dataset.TypeString},
		{Name: "shelf", Type: dataset.TypeString, AllowNull: true},
		{Name: "qty", Type: dataset.TypeNumber},
		{Name: "label", Type: dataset.TypeString, Align: dataset.AlignCenter},
	}
	return dataset.New(dataset.DefaultOptions(), fields, []*dataset.Row{
		dataset.NewRow("a-1", "top", 3.0, "bolts | nuts"),
		dataset.NewRow("b-2", nil, 10.0, "two\nlines"),
		dataset.NewRow("c-3", "top", 0.5, "washers"),
	})
}

func TestComposeTable(t *testing.T) {
	d := inventory()

	output, err := ComposeTable(d, d.Fields(), d.Rows(), Options{Title: "inventory", Order: "sku"})
	if err != nil {
		t.Fatalf("ComposeTable failed: %v", err)
	}

	expected := "# Table: inventory\n\n" +
		"_Sorted by sku_\n\n" +
		"| sku | shelf | qty | label |\n" +
		"| --- | --- | ---: | :---: |\n" +
		"| a-1 | top | 3 | bolts \\| nuts |\n" +
		"| b-2 |  | 10 | two<br>lines |\n" +
		"| c-3 | top | 0.5 | washers |\n"
	if output != expected {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", output, expected)
	}
}

func TestComposeTableGrouped(t *testing.T) {
	d := inventory()

	output, err := ComposeTable(d, d.Fields(), d.Rows(), Options{GroupBy: d.Field("shelf")})
	if err != nil {
		t.Fatalf("ComposeTable failed: %v", err)
	}

	if strings.Contains(output, "# Table:") {
		t.Error("Expected no title heading")
	}
	top := strings.Index(output, "## shelf: top")
	empty := strings.Index(output, "## shelf: (empty)")
	if top < 0 || empty < 0 {
		t.Fatalf("Expected both group headings, got:\n%s", output)
	}
	if top > empty {
		t.Error("Expected groups in order of first appearance")
	}
	if strings.Contains(output, "| shelf |") {
		t.Error("Expected the grouping field to be left out of the tables")
	}

	topSection := output[top:empty]
	if !strings.Contains(topSection, "| a-1 |") || !strings.Contains(topSection, "| c-3 |") {
		t.Errorf("Expected a-1 and c-3 under top, got:\n%s", topSection)
	}
}

func TestComposeTableErrors(t *testing.T) {
	d := inventory()

	if _, err := ComposeTable(nil, d.Fields(), d.Rows(), Options{}); err == nil {
		t.Error("Expected error for nil dataset")
	}
	if _, err := ComposeTable(d, nil, d.Rows(), Options{}); err == nil {
		t.Error("Expected error for no fields")
	}

	output, err := ComposeTable(d, d.Fields()[:1], nil, Options{})
	if err != nil {
		t.Fatalf("ComposeTable failed: %v", err)
	}
	if output != "| sku |\n| --- |\n" {
		t.Errorf("Expected header only, got %q", output)
	}
}
