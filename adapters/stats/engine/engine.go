package engine

import (
	"fmt"
	"math"
	"sort"

	"cancerscope/adapters/datareadiness"
	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal/errors"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins is used when a histogram request gives no bin count
const DefaultHistogramBins = 10

// MaxHistogramBins bounds the bin count a caller may request
const MaxHistogramBins = 1000

// StatsEngine computes descriptive statistics, correlations and trend fits
// over the numeric columns of a table. Every method is a pure function of its
// inputs, so results may be cached by table identity.
type StatsEngine struct {
	classifier *datareadiness.ColumnClassifier
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine() *StatsEngine {
	return &StatsEngine{
		classifier: datareadiness.NewColumnClassifier(),
	}
}

// NumericColumns returns the numeric column names of t in table order
func (e *StatsEngine) NumericColumns(t *dataset.Table) []string {
	return e.classifier.Classify(t).Numeric
}

// resolveNumeric validates requested column names. An empty request selects
// every numeric column.
func (e *StatsEngine) resolveNumeric(t *dataset.Table, requested []string) ([]string, error) {
	classification := e.classifier.Classify(t)
	if len(requested) == 0 {
		return classification.Numeric, nil
	}
	for _, name := range requested {
		if _, ok := t.Column(name); !ok {
			return nil, errors.UnknownColumn(name)
		}
		if !classification.IsNumeric(name) {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q is not numeric", name))
		}
	}
	return requested, nil
}

// numericValues returns the non-missing values of a numeric column
func numericValues(col *dataset.Column) []float64 {
	out := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Summarize computes descriptive statistics for each requested column in
// request order. A named column with no non-missing values fails with
// EMPTY_COLUMN. When no columns are named, empty numeric columns are skipped
// and only a table with no summarizable column fails.
func (e *StatsEngine) Summarize(t *dataset.Table, columns []string) ([]stats.ColumnSummary, error) {
	names, err := e.resolveNumeric(t, columns)
	if err != nil {
		return nil, err
	}
	implicit := len(columns) == 0

	summaries := make([]stats.ColumnSummary, 0, len(names))
	var firstEmpty error
	for _, name := range names {
		col, _ := t.Column(name)
		summary, err := summarizeColumn(col)
		if err != nil {
			if implicit && errors.HasCode(err, errors.CodeEmptyColumn) {
				if firstEmpty == nil {
					firstEmpty = err
				}
				continue
			}
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if len(summaries) == 0 && firstEmpty != nil {
		return nil, firstEmpty
	}
	return summaries, nil
}

func summarizeColumn(col *dataset.Column) (stats.ColumnSummary, error) {
	values := numericValues(col)
	if len(values) == 0 {
		return stats.ColumnSummary{}, errors.EmptyColumn(col.Name())
	}

	mean, err := mstats.Mean(values)
	if err != nil {
		return stats.ColumnSummary{}, errors.Wrapf(err, "mean of %q", col.Name())
	}
	minV, _ := mstats.Min(values)
	maxV, _ := mstats.Max(values)
	median, _ := mstats.Median(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	summary := stats.ColumnSummary{
		Column:  col.Name(),
		Count:   len(values),
		Missing: col.Len() - len(values),
		Mean:    mean,
		Min:     minV,
		Q25:     linearQuantile(sorted, 0.25),
		Median:  median,
		Q75:     linearQuantile(sorted, 0.75),
		Max:     maxV,
	}
	if len(values) >= 2 {
		sd, err := mstats.StandardDeviationSample(values)
		if err == nil && !math.IsNaN(sd) {
			summary.StdDev = &sd
		}
	}
	return summary, nil
}

// linearQuantile interpolates between the order statistics around q*(n-1).
// sorted must be ascending and non-empty.
func linearQuantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Histogram bins the non-missing values of column into equal-width bins
// spanning the observed range.
func (e *StatsEngine) Histogram(t *dataset.Table, column string, bins int) (stats.Histogram, error) {
	if _, err := e.resolveNumeric(t, []string{column}); err != nil {
		return stats.Histogram{}, err
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	if bins > MaxHistogramBins {
		return stats.Histogram{}, errors.InvalidInput(fmt.Sprintf("bin count %d exceeds limit %d", bins, MaxHistogramBins))
	}

	col, _ := t.Column(column)
	values := numericValues(col)
	if len(values) == 0 {
		return stats.Histogram{}, errors.EmptyColumn(column)
	}
	sort.Float64s(values)

	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	// the top divider must exceed the largest value
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := gstat.Histogram(nil, dividers, values, nil)
	return stats.Histogram{
		Column: column,
		Edges:  edges,
		Counts: counts,
		N:      len(values),
	}, nil
}
