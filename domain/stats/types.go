package stats

import "math"

// ColumnSummary holds the descriptive statistics of one numeric column.
// Percentiles use linear interpolation between order statistics.
type ColumnSummary struct {
	Column  string   `json:"column"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Mean    float64  `json:"mean"`
	StdDev  *float64 `json:"std_dev"` // sample standard deviation; nil when Count < 2
	Min     float64  `json:"min"`
	Q25     float64  `json:"q25"`
	Median  float64  `json:"median"`
	Q75     float64  `json:"q75"`
	Max     float64  `json:"max"`
}

// CorrelationCell is one Pearson coefficient. Coefficient is nil when the pair
// is undefined: fewer than two paired observations or a constant side.
type CorrelationCell struct {
	Coefficient *float64 `json:"coefficient"`
	PValue      *float64 `json:"p_value,omitempty"`
	N           int      `json:"n"`
	Reason      string   `json:"reason,omitempty"`
}

// Defined reports whether the coefficient was computed
func (c CorrelationCell) Defined() bool {
	return c.Coefficient != nil
}

// Value returns the coefficient, or NaN with false when undefined
func (c CorrelationCell) Value() (float64, bool) {
	if c.Coefficient == nil {
		return math.NaN(), false
	}
	return *c.Coefficient, true
}

// CorrelationMatrix is a symmetric grid over Columns. Cells[i][j] pairs
// Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []string            `json:"columns"`
	Cells   [][]CorrelationCell `json:"cells"`
}

// At returns the cell for the (a, b) pair
func (m CorrelationMatrix) At(a, b string) (CorrelationCell, bool) {
	i, j := indexOf(m.Columns, a), indexOf(m.Columns, b)
	if i < 0 || j < 0 {
		return CorrelationCell{}, false
	}
	return m.Cells[i][j], true
}

// Grid returns the coefficients as a 2-D grid; undefined cells are nil
func (m CorrelationMatrix) Grid() [][]*float64 {
	grid := make([][]*float64, len(m.Cells))
	for i, row := range m.Cells {
		grid[i] = make([]*float64, len(row))
		for j, cell := range row {
			grid[i][j] = cell.Coefficient
		}
	}
	return grid
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Point is an (x, y) coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegressionResult is an ordinary least squares fit of YColumn on XColumn.
// When Defined is false only N and Reason are meaningful.
type RegressionResult struct {
	XColumn   string  `json:"x_column"`
	YColumn   string  `json:"y_column"`
	Defined   bool    `json:"defined"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Start     Point   `json:"start"`
	End       Point   `json:"end"`
	N         int     `json:"n"`
	Reason    string  `json:"reason,omitempty"`
}

// Predict evaluates the fitted line at x
func (r RegressionResult) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}

// Strength is the categorical reading of a correlation coefficient
type Strength string

const (
	StrengthStrong    Strength = "strong"
	StrengthModerate  Strength = "moderate"
	StrengthWeak      Strength = "weak"
	StrengthUndefined Strength = "undefined"
)

// Histogram holds bin edges (len(Counts)+1) and per-bin counts
type Histogram struct {
	Column string    `json:"column"`
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
	N      int       `json:"n"`
}
