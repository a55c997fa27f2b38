package testkit

import (
	"bytes"
	"testing"

	"cancerscope/domain/dataset"
	"cancerscope/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountyDataGenerator_Shape(t *testing.T) {
	table := DemoTable(t, 42, 0)

	assert.Equal(t, 100, table.RowCount())
	assert.Equal(t, dataset.SourceDemo, table.Source())
	assert.Equal(t, []string{
		"County", "Region", "Median_Income", "Poverty_Rate", "Education_Level",
		"Cancer_Rate", "Lung_Cancer_Rate", "Breast_Cancer_Rate",
	}, table.ColumnNames())

	county, _ := table.Column("County")
	assert.Equal(t, "County_1", county.Value(0).String())
	assert.Equal(t, "County_100", county.Value(99).String())

	region, _ := table.Column("Region")
	assert.Equal(t, dataset.TypeCategorical, region.Type())
	for i := 0; i < region.Len(); i++ {
		assert.Contains(t, DemoRegions, region.Value(i).String())
	}
}

func TestCountyDataGenerator_Floors(t *testing.T) {
	table := DemoTable(t, 7, 2000)
	floors := map[string]float64{"Cancer_Rate": 50, "Lung_Cancer_Rate": 0, "Breast_Cancer_Rate": 0}
	for name, floor := range floors {
		col, ok := table.Column(name)
		require.True(t, ok, name)
		assert.Zero(t, col.MissingCount(), name)
		for i := 0; i < col.Len(); i++ {
			v, _ := col.Float(i)
			assert.GreaterOrEqual(t, v, floor, name)
		}
	}
}

func TestCountyDataGenerator_Deterministic(t *testing.T) {
	a := DemoTable(t, 42, 100)
	b := DemoTable(t, 42, 100)
	c := DemoTable(t, 43, 100)

	var bufA, bufB bytes.Buffer
	require.NoError(t, a.WriteCSV(&bufA))
	require.NoError(t, b.WriteCSV(&bufB))

	assert.Equal(t, bufA.Bytes(), bufB.Bytes())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestCountyDataGenerator_RejectsHugeRowCount(t *testing.T) {
	_, err := NewCountyDataGenerator(CountyGeneratorConfig{Seed: 1, Rows: maxRows + 1}).Generate()
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestTableFromCSV(t *testing.T) {
	table := TableFromCSV(t, `
Region,Cancer_Rate
North,5
North,
South,7`)
	assert.Equal(t, 3, table.RowCount())
	rate, _ := table.Column("Cancer_Rate")
	assert.Equal(t, dataset.TypeNumeric, rate.Type())
	assert.True(t, rate.Value(1).IsMissing())
}
