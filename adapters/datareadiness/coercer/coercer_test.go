package coercer

import (
	"testing"

	"cancerscope/domain/dataset"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"1e3", 1000, true},
		{"+7", 7, true},
		{"1,000", 0, false},
		{"$5", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
		{"South", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseNumeric(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestAnalyzeColumnNumericWithMissing(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	analysis := c.AnalyzeColumn([]string{"5", "NA", "7", "", "null"})
	assert.Equal(t, dataset.TypeNumeric, analysis.RecommendedType)
	assert.Equal(t, 3, analysis.MissingCount)
	assert.Equal(t, 2, analysis.NumericCount)
	assert.Equal(t, 1.0, analysis.NumericRatio)
}

func TestAnalyzeColumnAllMissingIsNumeric(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	assert.Equal(t, dataset.TypeNumeric, c.AnalyzeColumn([]string{"", "NaN"}).RecommendedType)
}

func TestAnalyzeColumnOneTextCellMakesColumnNonNumeric(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	analysis := c.AnalyzeColumn([]string{"1", "2", "3", "4", "5", "six"})
	assert.Equal(t, dataset.TypeText, analysis.RecommendedType)
}

func TestAnalyzeColumnCategorical(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	raw := []string{"South", "West", "South", "West", "South", "West"}
	assert.Equal(t, dataset.TypeCategorical, c.AnalyzeColumn(raw).RecommendedType)

	unique := []string{"County_1", "County_2", "County_3"}
	assert.Equal(t, dataset.TypeText, c.AnalyzeColumn(unique).RecommendedType)
}

func TestCoerceColumn(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	nums := c.CoerceColumn([]string{"1.5", "N/A", " 2 "}, dataset.TypeNumeric)
	assert.Equal(t, []dataset.Value{dataset.Number(1.5), dataset.Missing(), dataset.Number(2)}, nums)

	text := c.CoerceColumn([]string{" South ", "", "12"}, dataset.TypeCategorical)
	assert.Equal(t, []dataset.Value{dataset.Text("South"), dataset.Missing(), dataset.Text("12")}, text)
}
