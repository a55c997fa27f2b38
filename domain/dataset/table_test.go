package dataset

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *Table {
	t.Helper()
	table, err := NewBuilder("sample.csv", SourceUpload).
		AddText("Region", TypeCategorical, []string{"North", "North", "South"}).
		AddColumn("Cancer_Rate", TypeNumeric, []Value{Number(5), Missing(), Number(7.5)}).
		Build()
	require.NoError(t, err)
	return table
}

func TestBuilderBuildsTable(t *testing.T) {
	table := buildSample(t)

	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, 2, table.ColumnCount())
	assert.Equal(t, []string{"Region", "Cancer_Rate"}, table.ColumnNames())
	assert.False(t, table.ID().IsEmpty())

	col, ok := table.Column("Cancer_Rate")
	require.True(t, ok)
	assert.Equal(t, TypeNumeric, col.Type())
	assert.Equal(t, 1, col.MissingCount())

	f, ok := col.Float(2)
	assert.True(t, ok)
	assert.Equal(t, 7.5, f)
	_, ok = col.Float(1)
	assert.False(t, ok)

	_, ok = table.Column("Unknown")
	assert.False(t, ok)
}

func TestBuilderRejectsInvalidShapes(t *testing.T) {
	_, err := NewBuilder("x", SourceUpload).
		AddNumeric("a", []float64{1, 2}).
		AddNumeric("b", []float64{1}).
		Build()
	assert.ErrorContains(t, err, "has 1 rows, expected 2")

	_, err = NewBuilder("x", SourceUpload).
		AddNumeric("a", []float64{1}).
		AddNumeric("a", []float64{2}).
		Build()
	assert.ErrorContains(t, err, "duplicate column name")

	_, err = NewBuilder("x", SourceUpload).AddNumeric("", []float64{1}).Build()
	assert.ErrorContains(t, err, "empty name")

	_, err = NewBuilder("x", SourceUpload).AddColumn("a", ColumnType("date"), nil).Build()
	assert.ErrorContains(t, err, "unknown type")
}

func TestNumberStoresNaNAsMissing(t *testing.T) {
	assert.True(t, Number(math.NaN()).IsMissing())
	assert.True(t, Number(math.Inf(1)).IsMissing())
	assert.True(t, Text("").IsMissing())
	assert.Equal(t, "0.1", Number(0.1).String())
}

func TestTableIsNotAffectedByBuilderInput(t *testing.T) {
	values := []Value{Number(1), Number(2)}
	table, err := NewBuilder("x", SourceDemo).AddColumn("a", TypeNumeric, values).Build()
	require.NoError(t, err)

	values[0] = Number(99)
	col, _ := table.Column("a")
	f, _ := col.Float(0)
	assert.Equal(t, 1.0, f)
}

func TestWriteCSVAndFingerprint(t *testing.T) {
	table := buildSample(t)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	assert.Equal(t, "Region,Cancer_Rate\nNorth,5\nNorth,\nSouth,7.5\n", buf.String())

	other := buildSample(t)
	assert.NotEqual(t, table.ID(), other.ID())
	assert.Equal(t, table.Fingerprint(), other.Fingerprint())
}

func TestHeadAndPreview(t *testing.T) {
	table := buildSample(t)

	head := table.Head(2)
	assert.Equal(t, 2, head.RowCount())
	assert.Equal(t, table.ColumnNames(), head.ColumnNames())
	assert.Equal(t, 3, table.Head(10).RowCount())
	assert.Equal(t, 0, table.Head(-1).RowCount())

	preview := PreviewOf(table, 2)
	assert.Equal(t, [][]string{{"North", "5"}, {"North", ""}}, preview.Rows)
}

func TestInfo(t *testing.T) {
	info := buildSample(t).Info()

	assert.Equal(t, SourceUpload, info.Source)
	assert.Equal(t, 3, info.RowCount)
	assert.InDelta(t, 1.0/6.0, info.MissingRate, 1e-12)
	require.Len(t, info.Fields, 2)
	assert.Equal(t, TypeCategorical, info.Fields[0].Type)
	assert.Equal(t, 1, info.Fields[1].MissingCount)
}
