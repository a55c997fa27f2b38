package coercer

import (
	"math"
	"strconv"
	"strings"

	"cancerscope/domain/dataset"
)

// TypeCoercer decides column types and converts raw cells into typed values
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingTokens       []string `json:"missing_tokens"`        // cells read as missing (after trimming)
	CategoricalMaxCount int      `json:"categorical_max_count"` // max distinct labels for a categorical column
	CategoricalMaxRatio float64  `json:"categorical_max_ratio"` // max distinct/non-missing ratio for categorical
	TrimSpace           bool     `json:"trim_space"`            // trim surrounding whitespace from text cells
}

// DefaultMissingTokens mirrors the NA markers dataframe tooling recognises by default
var DefaultMissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens:       DefaultMissingTokens,
		CategoricalMaxCount: 20,
		CategoricalMaxRatio: 0.5,
		TrimSpace:           true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a raw cell is a missing marker
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[strings.TrimSpace(raw)]
}

// ParseNumeric parses a finite decimal or scientific-notation number.
// Thousands separators and currency symbols are not accepted.
func ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// AnalyzeColumn counts what a column of raw cells can be coerced to
func (c *TypeCoercer) AnalyzeColumn(raw []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(raw)}
	distinct := make(map[string]struct{})

	for _, cell := range raw {
		if c.IsMissing(cell) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		if _, ok := ParseNumeric(cell); ok {
			analysis.NumericCount++
		}
		distinct[c.normalize(cell)] = struct{}{}
	}
	analysis.DistinctCount = len(distinct)
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// determineRecommendedType requires every non-missing cell to be numeric for a
// numeric column. All-missing columns are numeric, as dataframe readers do.
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) dataset.ColumnType {
	if analysis.NumericCount == analysis.ValidCount {
		return dataset.TypeNumeric
	}
	if analysis.DistinctCount <= c.config.CategoricalMaxCount &&
		float64(analysis.DistinctCount) <= c.config.CategoricalMaxRatio*float64(analysis.ValidCount) {
		return dataset.TypeCategorical
	}
	return dataset.TypeText
}

// CoerceColumn converts raw cells to values of the given column type
func (c *TypeCoercer) CoerceColumn(raw []string, ctype dataset.ColumnType) []dataset.Value {
	values := make([]dataset.Value, len(raw))
	for i, cell := range raw {
		values[i] = c.CoerceValue(cell, ctype)
	}
	return values
}

// CoerceValue converts one raw cell. Cells of numeric columns that fail to
// parse become missing; text cells are kept verbatim apart from trimming.
func (c *TypeCoercer) CoerceValue(raw string, ctype dataset.ColumnType) dataset.Value {
	if c.IsMissing(raw) {
		return dataset.Missing()
	}
	if ctype == dataset.TypeNumeric {
		if f, ok := ParseNumeric(raw); ok {
			return dataset.Number(f)
		}
		return dataset.Missing()
	}
	return dataset.Text(c.normalize(raw))
}

func (c *TypeCoercer) normalize(s string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(s)
	}
	return s
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	MissingCount    int                `json:"missing_count"`
	NumericCount    int                `json:"numeric_count"`
	DistinctCount   int                `json:"distinct_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	RecommendedType dataset.ColumnType `json:"recommended_type"`
}
