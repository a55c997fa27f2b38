package frame

import (
	"testing"

	"cancerscope/internal/testkit"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDataFrame(t *testing.T) {
	table := testkit.TableFromCSV(t, `
County,Rate
Adams,1.5
,NA
Clark,3`)

	df := ToDataFrame(table)
	require.NoError(t, df.Err)
	assert.Equal(t, []string{"County", "Rate"}, df.Names())
	assert.Equal(t, 3, df.Nrow())

	rate := df.Col("Rate")
	assert.Equal(t, series.Float, rate.Type())
	assert.Equal(t, 1.5, rate.Elem(0).Float())
	assert.True(t, rate.Elem(1).IsNA())

	county := df.Col("County")
	assert.Equal(t, series.String, county.Type())
	assert.True(t, county.Elem(1).IsNA())
	assert.Equal(t, "Clark", county.Elem(2).String())
}

func TestPreview(t *testing.T) {
	table := testkit.DemoTable(t, 42, 20)
	df := Preview(table, 5)
	assert.Equal(t, 5, df.Nrow())
	assert.Equal(t, 8, df.Ncol())
	assert.Contains(t, df.String(), "Median_Income")
}

func TestFromRecords(t *testing.T) {
	df := FromRecords([]string{"region", "mean"}, [][]string{{"West", "12.5"}, {"South", "-"}})
	require.NoError(t, df.Err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, series.String, df.Col("mean").Type())
	assert.Equal(t, "12.5", df.Col("mean").Elem(0).String())
}
