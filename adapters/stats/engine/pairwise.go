package engine

import (
	"math"

	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal/errors"

	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	reasonTooFewPairs = "fewer than 2 paired observations"
	reasonConstant    = "zero variance"
)

// pairedValues keeps only rows where both cells are present
func pairedValues(x, y *dataset.Column) ([]float64, []float64) {
	xs := make([]float64, 0, x.Len())
	ys := make([]float64, 0, x.Len())
	for i := 0; i < x.Len(); i++ {
		xv, okX := x.Float(i)
		yv, okY := y.Float(i)
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

func isConstant(values []float64) bool {
	return floats.Min(values) == floats.Max(values)
}

// Correlate computes the Pearson correlation matrix of the requested numeric
// columns, pairwise over rows where both values are present. The matrix is
// symmetric and its diagonal is 1 for every column with variance.
func (e *StatsEngine) Correlate(t *dataset.Table, columns []string) (stats.CorrelationMatrix, error) {
	names, err := e.resolveNumeric(t, columns)
	if err != nil {
		return stats.CorrelationMatrix{}, err
	}

	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
	}

	cells := make([][]stats.CorrelationCell, len(names))
	for i := range cells {
		cells[i] = make([]stats.CorrelationCell, len(names))
	}
	for i := range cols {
		cells[i][i] = selfCorrelation(cols[i])
		for j := i + 1; j < len(cols); j++ {
			cell := pearson(cols[i], cols[j])
			cells[i][j] = cell
			cells[j][i] = cell
		}
	}
	return stats.CorrelationMatrix{Columns: names, Cells: cells}, nil
}

// Correlation computes the Pearson coefficient of a single pair
func (e *StatsEngine) Correlation(t *dataset.Table, x, y string) (stats.CorrelationCell, error) {
	if _, err := e.resolveNumeric(t, []string{x, y}); err != nil {
		return stats.CorrelationCell{}, err
	}
	xc, _ := t.Column(x)
	if x == y {
		return selfCorrelation(xc), nil
	}
	yc, _ := t.Column(y)
	return pearson(xc, yc), nil
}

func selfCorrelation(col *dataset.Column) stats.CorrelationCell {
	values := numericValues(col)
	cell := stats.CorrelationCell{N: len(values)}
	switch {
	case len(values) < 2:
		cell.Reason = reasonTooFewPairs
	case isConstant(values):
		cell.Reason = reasonConstant
	default:
		one := 1.0
		cell.Coefficient = &one
	}
	return cell
}

func pearson(x, y *dataset.Column) stats.CorrelationCell {
	xs, ys := pairedValues(x, y)
	cell := stats.CorrelationCell{N: len(xs)}
	if len(xs) < 2 {
		cell.Reason = reasonTooFewPairs
		return cell
	}
	if isConstant(xs) || isConstant(ys) {
		cell.Reason = reasonConstant
		return cell
	}

	r := gstat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		cell.Reason = reasonConstant
		return cell
	}
	r = math.Max(-1, math.Min(1, r))
	cell.Coefficient = &r
	if len(xs) > 2 {
		p := correlationPValue(r, len(xs))
		cell.PValue = &p
	}
	return cell
}

// correlationPValue is the two-sided p-value of r under H0: rho = 0
func correlationPValue(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	tStatistic := r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// FitTrend fits y = intercept + slope*x by ordinary least squares over rows
// where both values are present. Fewer than two pairs fails with
// INSUFFICIENT_DATA; a constant x yields an undefined result rather than an error.
func (e *StatsEngine) FitTrend(t *dataset.Table, x, y string) (stats.RegressionResult, error) {
	if _, err := e.resolveNumeric(t, []string{x, y}); err != nil {
		return stats.RegressionResult{}, err
	}
	xc, _ := t.Column(x)
	yc, _ := t.Column(y)
	xs, ys := pairedValues(xc, yc)

	result := stats.RegressionResult{XColumn: x, YColumn: y, N: len(xs)}
	if len(xs) < 2 {
		return result, errors.InsufficientData(x, y, len(xs), 2)
	}
	if isConstant(xs) {
		result.Reason = "x has " + reasonConstant
		return result, nil
	}

	intercept, slope := gstat.LinearRegression(xs, ys, nil, false)
	result.Defined = true
	result.Slope = slope
	result.Intercept = intercept
	if !isConstant(ys) {
		result.RSquared = gstat.RSquared(xs, ys, nil, intercept, slope)
	}

	lo, hi := floats.Min(xs), floats.Max(xs)
	result.Start = stats.Point{X: lo, Y: result.Predict(lo)}
	result.End = stats.Point{X: hi, Y: result.Predict(hi)}
	return result, nil
}

// InterpretStrength classifies |r|: above 0.7 strong, above 0.4 moderate,
// otherwise weak. NaN is undefined.
func InterpretStrength(r float64) stats.Strength {
	if math.IsNaN(r) {
		return stats.StrengthUndefined
	}
	abs := math.Abs(r)
	switch {
	case abs > 0.7:
		return stats.StrengthStrong
	case abs > 0.4:
		return stats.StrengthModerate
	default:
		return stats.StrengthWeak
	}
}

// CellStrength interprets a matrix cell, undefined cells included
func CellStrength(cell stats.CorrelationCell) stats.Strength {
	r, _ := cell.Value()
	return InterpretStrength(r)
}
