package datareadiness

import (
	"cancerscope/domain/dataset"
)

// Classification partitions table columns into numeric and everything else.
// Both lists keep table column order.
type Classification struct {
	Numeric []string `json:"numeric"`
	Other   []string `json:"other"`
}

// IsNumeric reports whether name was classified numeric
func (c Classification) IsNumeric(name string) bool {
	for _, n := range c.Numeric {
		if n == name {
			return true
		}
	}
	return false
}

// ColumnClassifier runs the classification pass once per table so downstream
// computations consume a typed column list instead of re-inspecting cells.
type ColumnClassifier struct{}

// NewColumnClassifier creates a classifier
func NewColumnClassifier() *ColumnClassifier {
	return &ColumnClassifier{}
}

// Classify returns the numeric and non-numeric column names of t. A column is
// numeric when it is declared numeric and every cell is a number or missing.
// Missing cells are not imputed here.
func (c *ColumnClassifier) Classify(t *dataset.Table) Classification {
	result := Classification{Numeric: []string{}, Other: []string{}}
	for _, col := range t.Columns() {
		if isNumericColumn(col) {
			result.Numeric = append(result.Numeric, col.Name())
		} else {
			result.Other = append(result.Other, col.Name())
		}
	}
	return result
}

func isNumericColumn(col *dataset.Column) bool {
	if col.Type() != dataset.TypeNumeric {
		return false
	}
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if !v.IsNumber() && !v.IsMissing() {
			return false
		}
	}
	return true
}

// Classify is a convenience wrapper around the default classifier
func Classify(t *dataset.Table) Classification {
	return NewColumnClassifier().Classify(t)
}
