package app

import (
	"testing"

	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal/errors"
	"cancerscope/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysis(t *testing.T) *AnalysisService {
	t.Helper()
	s, err := NewAnalysisService(64, quietLogger)
	require.NoError(t, err)
	return s
}

func TestAnalysisService_MemoisesByTable(t *testing.T) {
	s := newAnalysis(t)
	table := testkit.DemoTable(t, 42, 50)

	first, err := s.Summarize(table, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CacheLen())

	second, err := s.Summarize(table, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.CacheLen())

	other := testkit.DemoTable(t, 42, 50)
	_, err = s.Summarize(other, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CacheLen(), "a new table has a new identity")

	_, err = s.Summarize(table, []string{"Cancer_Rate"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.CacheLen())
}

func TestAnalysisService_ColumnNamesWithCommasDoNotShareEntries(t *testing.T) {
	s := newAnalysis(t)
	table, err := dataset.NewBuilder("commas.csv", dataset.SourceUpload).
		AddNumeric("a", []float64{1, 2, 3}).
		AddNumeric("b", []float64{10, 20, 30}).
		AddNumeric("a,b", []float64{100, 200, 300}).
		Build()
	require.NoError(t, err)

	joined, err := s.Summarize(table, []string{"a,b"})
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "a,b", joined[0].Column)

	split, err := s.Summarize(table, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, split, 2)
	assert.Equal(t, "a", split[0].Column)
	assert.Equal(t, "b", split[1].Column)
	assert.Equal(t, 2, s.CacheLen())
}

func TestAnalysisService_ErrorsAreNotCached(t *testing.T) {
	s := newAnalysis(t)
	table := testkit.TableFromCSV(t, "A,B\n1,NA\n2,NA")

	_, err := s.Summarize(table, []string{"B"})
	assert.True(t, errors.HasCode(err, errors.CodeEmptyColumn))
	assert.Equal(t, 0, s.CacheLen())
}

func TestAnalysisService_TopPairs(t *testing.T) {
	s := newAnalysis(t)
	table := testkit.TableFromCSV(t, `
X,Y,Z,C
1,2,9,5
2,4,1,5
3,5,7,5
4,8,2,5`)

	pairs, err := s.TopPairs(table, nil, 0)
	require.NoError(t, err)
	require.Len(t, pairs, 3, "pairs with the constant column are undefined")
	assert.Equal(t, "X", pairs[0].X)
	assert.Equal(t, "Y", pairs[0].Y)
	assert.Equal(t, stats.StrengthStrong, pairs[0].Strength)
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, abs(pairs[i-1].Coefficient), abs(pairs[i].Coefficient))
	}

	limited, err := s.TopPairs(table, nil, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestAnalysisService_Trend(t *testing.T) {
	s := newAnalysis(t)
	table := testkit.TableFromCSV(t, "X,Y\n1,2\n2,4\n3,6")

	trend, err := s.Trend(table, "X", "Y")
	require.NoError(t, err)
	assert.True(t, trend.Fit.Defined)
	assert.InDelta(t, 2.0, trend.Fit.Slope, 1e-12)
	assert.Equal(t, stats.StrengthStrong, trend.Strength)
}

func TestAnalysisService_Regions(t *testing.T) {
	s := newAnalysis(t)
	table := testkit.TableFromCSV(t, `
Region,Cancer_Rate
A,10
B,10
C,5
A,10`)

	report, err := s.Regions(table, RegionQuery{RankBy: "Cancer_Rate"})
	require.NoError(t, err)
	require.NotNil(t, report.Ranking)
	assert.Equal(t, stats.Descending, report.Ranking.Direction)

	var order []string
	for _, e := range report.Ranking.Entries {
		order = append(order, e.Region)
	}
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, "A", report.Extremes.Top.Region)
	assert.Equal(t, "C", report.Extremes.Bottom.Region)

	_, err = s.Regions(table, RegionQuery{RankBy: "Lung_Cancer_Rate"})
	assert.True(t, errors.HasCode(err, errors.CodeUnknownMetric))

	noRegion := testkit.TableFromCSV(t, "X\n1")
	_, err = s.Regions(noRegion, RegionQuery{})
	assert.True(t, errors.HasCode(err, errors.CodeUnknownColumn))
}
