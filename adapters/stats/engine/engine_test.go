package engine

import (
	"math"
	"testing"

	"cancerscope/domain/stats"
	"cancerscope/internal/errors"
	"cancerscope/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Basic(t *testing.T) {
	table := testkit.TableFromCSV(t, `
Rate
10
20
30`)

	summaries, err := NewStatsEngine().Summarize(table, []string{"Rate"})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "Rate", s.Column)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 0, s.Missing)
	assert.InDelta(t, 20.0, s.Mean, 1e-12)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 30.0, s.Max)
	assert.InDelta(t, 15.0, s.Q25, 1e-12)
	assert.InDelta(t, 20.0, s.Median, 1e-12)
	assert.InDelta(t, 25.0, s.Q75, 1e-12)
	require.NotNil(t, s.StdDev)
	assert.InDelta(t, 10.0, *s.StdDev, 1e-12)
}

func TestSummarize_SkipsMissingAndDefaultsToAllNumeric(t *testing.T) {
	table := testkit.TableFromCSV(t, `
County,A,B
x,1,7
y,NA,7
z,3,
w,4,`)

	summaries, err := NewStatsEngine().Summarize(table, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "A", summaries[0].Column)
	assert.Equal(t, 3, summaries[0].Count)
	assert.Equal(t, 1, summaries[0].Missing)
	assert.InDelta(t, 8.0/3.0, summaries[0].Mean, 1e-12)

	assert.Equal(t, "B", summaries[1].Column)
	assert.Equal(t, 2, summaries[1].Count)
	require.NotNil(t, summaries[1].StdDev)
	assert.Equal(t, 0.0, *summaries[1].StdDev)
}

func TestSummarize_AllNumericSkipsEmptyColumns(t *testing.T) {
	table := testkit.TableFromCSV(t, `
Name,Empty,Rate
a,NA,1
b,,3`)

	summaries, err := NewStatsEngine().Summarize(table, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Rate", summaries[0].Column)

	onlyEmpty := testkit.TableFromCSV(t, `
Name,Empty
a,NA
b,`)
	_, err = NewStatsEngine().Summarize(onlyEmpty, nil)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyColumn), "%v", err)
}

func TestSummarize_SingleValueHasNoStdDev(t *testing.T) {
	table := testkit.TableFromCSV(t, `
A
5`)
	summaries, err := NewStatsEngine().Summarize(table, nil)
	require.NoError(t, err)
	assert.Nil(t, summaries[0].StdDev)
	assert.Equal(t, 5.0, summaries[0].Q25)
	assert.Equal(t, 5.0, summaries[0].Q75)
}

func TestSummarize_Errors(t *testing.T) {
	table := testkit.TableFromCSV(t, `
Name,Empty,Rate
a,NA,1
b,,2`)
	e := NewStatsEngine()

	_, err := e.Summarize(table, []string{"Empty"})
	assert.True(t, errors.HasCode(err, errors.CodeEmptyColumn), "%v", err)

	_, err = e.Summarize(table, []string{"Nope"})
	assert.True(t, errors.HasCode(err, errors.CodeUnknownColumn))

	_, err = e.Summarize(table, []string{"Name"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestCorrelate_MatrixProperties(t *testing.T) {
	table := testkit.TableFromCSV(t, `
X,Y,Z,C
1,2,4,5
2,4,3,5
3,6.5,2,5
4,8,1,5`)

	m, err := NewStatsEngine().Correlate(table, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z", "C"}, m.Columns)

	for i := range m.Columns {
		for j := range m.Columns {
			assert.Equal(t, m.Cells[i][j], m.Cells[j][i], "cell %d,%d", i, j)
		}
	}
	for i, name := range []string{"X", "Y", "Z"} {
		r, ok := m.Cells[i][i].Value()
		require.True(t, ok, name)
		assert.Equal(t, 1.0, r)
	}

	xz, _ := m.At("X", "Z")
	r, ok := xz.Value()
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)
	assert.GreaterOrEqual(t, r, -1.0)

	xy, _ := m.At("X", "Y")
	r, ok = xy.Value()
	require.True(t, ok)
	assert.Greater(t, r, 0.99)
	assert.LessOrEqual(t, r, 1.0)
	require.NotNil(t, xy.PValue)
	assert.GreaterOrEqual(t, *xy.PValue, 0.0)
	assert.Less(t, *xy.PValue, 0.05)
	assert.Equal(t, 4, xy.N)

	xc, _ := m.At("X", "C")
	assert.False(t, xc.Defined())
	assert.Equal(t, reasonConstant, xc.Reason)
	cc, _ := m.At("C", "C")
	assert.False(t, cc.Defined())
}

func TestCorrelate_PairwiseDeletion(t *testing.T) {
	table := testkit.TableFromCSV(t, `
X,Y
1,1
2,NA
NA,3
4,4`)

	cell, err := NewStatsEngine().Correlation(table, "X", "Y")
	require.NoError(t, err)
	assert.Equal(t, 2, cell.N)
	r, ok := cell.Value()
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
	assert.Nil(t, cell.PValue)
}

func TestCorrelate_TooFewPairs(t *testing.T) {
	table := testkit.TableFromCSV(t, `
X,Y
1,NA
NA,3
4,4`)

	cell, err := NewStatsEngine().Correlation(table, "X", "Y")
	require.NoError(t, err)
	assert.False(t, cell.Defined())
	assert.Equal(t, 1, cell.N)
	assert.Equal(t, stats.StrengthUndefined, CellStrength(cell))
}

func TestCorrelate_RejectsTextColumn(t *testing.T) {
	table := testkit.TableFromCSV(t, `
Name,X
a,1
b,2
c,3`)
	_, err := NewStatsEngine().Correlate(table, []string{"X", "Name"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestFitTrend_ExactLine(t *testing.T) {
	table := testkit.TableFromCSV(t, `
X,Y
1,2
2,4
3,6`)

	fit, err := NewStatsEngine().FitTrend(table, "X", "Y")
	require.NoError(t, err)
	require.True(t, fit.Defined)
	assert.InDelta(t, 2.0, fit.Slope, 1e-12)
	assert.InDelta(t, 0.0, fit.Intercept, 1e-12)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-12)
	assert.Equal(t, 3, fit.N)
	assert.Equal(t, 1.0, fit.Start.X)
	assert.InDelta(t, 2.0, fit.Start.Y, 1e-12)
	assert.Equal(t, 3.0, fit.End.X)
	assert.InDelta(t, 6.0, fit.End.Y, 1e-12)
}

func TestFitTrend_ConstantX(t *testing.T) {
	table := testkit.TableFromCSV(t, `
X,Y
2,1
2,5
2,9`)

	fit, err := NewStatsEngine().FitTrend(table, "X", "Y")
	require.NoError(t, err)
	assert.False(t, fit.Defined)
	assert.NotEmpty(t, fit.Reason)
}

func TestFitTrend_InsufficientData(t *testing.T) {
	table := testkit.TableFromCSV(t, `
X,Y
1,NA
2,5
NA,9`)

	_, err := NewStatsEngine().FitTrend(table, "X", "Y")
	assert.True(t, errors.HasCode(err, errors.CodeInsufficientData))
}

func TestInterpretStrength(t *testing.T) {
	cases := map[float64]stats.Strength{
		0.75:  stats.StrengthStrong,
		-0.75: stats.StrengthStrong,
		0.70:  stats.StrengthModerate,
		-0.5:  stats.StrengthModerate,
		0.40:  stats.StrengthWeak,
		0.39:  stats.StrengthWeak,
		0:     stats.StrengthWeak,
	}
	for r, want := range cases {
		assert.Equal(t, want, InterpretStrength(r), "r=%v", r)
	}
	assert.Equal(t, stats.StrengthUndefined, InterpretStrength(math.NaN()))
}

func TestHistogram(t *testing.T) {
	table := testkit.TableFromCSV(t, `
V
1
2
3
4
5
6
7
8
9
10
NA`)

	h, err := NewStatsEngine().Histogram(table, "V", 3)
	require.NoError(t, err)
	assert.Equal(t, 10, h.N)
	assert.InDeltaSlice(t, []float64{1, 4, 7, 10}, h.Edges, 1e-12)
	assert.Equal(t, []float64{3, 3, 4}, h.Counts)
}

func TestHistogram_BinLimit(t *testing.T) {
	table := testkit.DemoTable(t, 42, 20)
	e := NewStatsEngine()

	_, err := e.Histogram(table, "Cancer_Rate", MaxHistogramBins+1)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput), "%v", err)

	_, err = e.Histogram(table, "Cancer_Rate", 1<<30)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput), "%v", err)

	h, err := e.Histogram(table, "Cancer_Rate", MaxHistogramBins)
	require.NoError(t, err)
	assert.Len(t, h.Counts, MaxHistogramBins)
}

func TestHistogram_ConstantColumn(t *testing.T) {
	table := testkit.TableFromCSV(t, `
V
5
5`)

	h, err := NewStatsEngine().Histogram(table, "V", 0)
	require.NoError(t, err)
	assert.Len(t, h.Edges, DefaultHistogramBins+1)
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 2.0, total)
}

func TestDemoDataRelationships(t *testing.T) {
	table := testkit.DemoTable(t, 42, 100)
	e := NewStatsEngine()

	income, err := e.Correlation(table, "Median_Income", "Cancer_Rate")
	require.NoError(t, err)
	r, ok := income.Value()
	require.True(t, ok)
	assert.Less(t, r, 0.0)

	poverty, err := e.Correlation(table, "Poverty_Rate", "Cancer_Rate")
	require.NoError(t, err)
	r, ok = poverty.Value()
	require.True(t, ok)
	assert.Greater(t, r, 0.0)

	fit, err := e.FitTrend(table, "Median_Income", "Cancer_Rate")
	require.NoError(t, err)
	assert.True(t, fit.Defined)
	assert.Less(t, fit.Slope, 0.0)
	assert.Equal(t, 100, fit.N)

	assert.Equal(t, []string{
		"Median_Income", "Poverty_Rate", "Education_Level",
		"Cancer_Rate", "Lung_Cancer_Rate", "Breast_Cancer_Rate",
	}, e.NumericColumns(table))
}
