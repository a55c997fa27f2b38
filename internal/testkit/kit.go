package testkit

import (
	"fmt"
	"strings"
	"testing"

	"cancerscope/adapters/datareadiness/coercer"
	"cancerscope/domain/dataset"
)

// DemoTable returns the seeded county table or fails the test
func DemoTable(t testing.TB, seed int64, rows int) *dataset.Table {
	t.Helper()
	table, err := NewCountyDataGenerator(CountyGeneratorConfig{Seed: seed, Rows: rows}).Generate()
	if err != nil {
		t.Fatalf("generate demo table: %v", err)
	}
	return table
}

// TableFromCSV builds a table from inline comma-separated text using the
// default coercion rules, so fixtures read like the files users upload.
// Cells are split on commas without quoting support.
func TableFromCSV(t testing.TB, text string) *dataset.Table {
	t.Helper()
	table, err := ParseFixture("fixture", text)
	if err != nil {
		t.Fatalf("build fixture table: %v", err)
	}
	return table
}

// ParseFixture is TableFromCSV without a testing.TB
func ParseFixture(name, text string) (*dataset.Table, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 1 {
		return nil, fmt.Errorf("fixture has no header")
	}
	header := splitFixtureLine(lines[0])
	columns := make([][]string, len(header))
	for r, line := range lines[1:] {
		cells := splitFixtureLine(line)
		if len(cells) != len(header) {
			return nil, fmt.Errorf("fixture row %d has %d cells, want %d", r+1, len(cells), len(header))
		}
		for c, cell := range cells {
			columns[c] = append(columns[c], cell)
		}
	}

	tc := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	b := dataset.NewBuilder(name, dataset.SourceUpload)
	for c, h := range header {
		analysis := tc.AnalyzeColumn(columns[c])
		b.AddColumn(h, analysis.RecommendedType, tc.CoerceColumn(columns[c], analysis.RecommendedType))
	}
	return b.Build()
}

func splitFixtureLine(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
