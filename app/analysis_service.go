package app

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"cancerscope/adapters/datareadiness"
	"cancerscope/adapters/stats/engine"
	"cancerscope/adapters/stats/regional"
	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal"
	"cancerscope/internal/errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the memo cache when no size is configured
const DefaultCacheSize = 256

// RegionQuery selects a regional aggregation and an optional ranking
type RegionQuery struct {
	RegionColumn string
	Metrics      []string
	RankBy       string
	Direction    stats.Direction
}

// RegionalReport bundles a regional summary with its ranking and extremes
type RegionalReport struct {
	Summary  stats.RegionalSummary `json:"summary"`
	Ranking  *stats.Ranking        `json:"ranking,omitempty"`
	Extremes *stats.Extremes       `json:"extremes,omitempty"`
}

// CorrelationPair is one off-diagonal cell with its reading
type CorrelationPair struct {
	X           string         `json:"x"`
	Y           string         `json:"y"`
	Coefficient float64        `json:"coefficient"`
	PValue      *float64       `json:"p_value,omitempty"`
	N           int            `json:"n"`
	Strength    stats.Strength `json:"strength"`
}

// TrendReport is a fit plus the correlation of the same pair
type TrendReport struct {
	Fit         stats.RegressionResult `json:"fit"`
	Correlation stats.CorrelationCell  `json:"correlation"`
	Strength    stats.Strength         `json:"strength"`
}

// AnalysisService runs engine and aggregator computations and memoises them
// by (table, operation, parameters). Tables never change after they are
// built, so entries never go stale.
type AnalysisService struct {
	engine     *engine.StatsEngine
	aggregator *regional.Aggregator
	classifier *datareadiness.ColumnClassifier
	cache      *lru.Cache[string, any]
	logger     *internal.Logger
}

// NewAnalysisService creates the service with an LRU memo of cacheSize entries
func NewAnalysisService(cacheSize int, logger *internal.Logger) (*AnalysisService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, any](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create analysis cache")
	}
	return &AnalysisService{
		engine:     engine.NewStatsEngine(),
		aggregator: regional.NewAggregator(),
		classifier: datareadiness.NewColumnClassifier(),
		cache:      cache,
		logger:     logger,
	}, nil
}

// memoKey encodes params as a JSON array so column names containing
// separators cannot collide with a different parameter list.
func memoKey(t *dataset.Table, op string, params ...string) string {
	encoded, _ := json.Marshal(params)
	return fmt.Sprintf("%s|%s|%s", t.ID(), op, encoded)
}

// memo returns the cached result for key or computes and stores it. Errors
// are not cached.
func memo[T any](s *AnalysisService, key string, compute func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			s.logger.Trace("[AnalysisService] cache hit %s", key)
			return typed, nil
		}
	}
	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	s.cache.Add(key, result)
	return result, nil
}

// CacheLen reports the number of memoised results
func (s *AnalysisService) CacheLen() int {
	return s.cache.Len()
}

// Columns classifies the columns of t
func (s *AnalysisService) Columns(t *dataset.Table) datareadiness.Classification {
	c, _ := memo(s, memoKey(t, "columns"), func() (datareadiness.Classification, error) {
		return s.classifier.Classify(t), nil
	})
	return c
}

// Summarize returns descriptive statistics for columns (all numeric when empty)
func (s *AnalysisService) Summarize(t *dataset.Table, columns []string) ([]stats.ColumnSummary, error) {
	return memo(s, memoKey(t, "summary", columns...), func() ([]stats.ColumnSummary, error) {
		return s.engine.Summarize(t, columns)
	})
}

// Correlate returns the correlation matrix of columns (all numeric when empty)
func (s *AnalysisService) Correlate(t *dataset.Table, columns []string) (stats.CorrelationMatrix, error) {
	return memo(s, memoKey(t, "correlate", columns...), func() (stats.CorrelationMatrix, error) {
		return s.engine.Correlate(t, columns)
	})
}

// TopPairs returns the defined off-diagonal pairs of the matrix ordered by
// |r| descending, then by names. limit <= 0 returns all pairs.
func (s *AnalysisService) TopPairs(t *dataset.Table, columns []string, limit int) ([]CorrelationPair, error) {
	m, err := s.Correlate(t, columns)
	if err != nil {
		return nil, err
	}
	var pairs []CorrelationPair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			cell := m.Cells[i][j]
			r, ok := cell.Value()
			if !ok {
				continue
			}
			pairs = append(pairs, CorrelationPair{
				X: m.Columns[i], Y: m.Columns[j],
				Coefficient: r, PValue: cell.PValue, N: cell.N,
				Strength: engine.InterpretStrength(r),
			})
		}
	}
	sortPairs(pairs)
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs, nil
}

// Trend fits y on x and reports the pair's correlation and strength
func (s *AnalysisService) Trend(t *dataset.Table, x, y string) (TrendReport, error) {
	return memo(s, memoKey(t, "trend", x, y), func() (TrendReport, error) {
		fit, err := s.engine.FitTrend(t, x, y)
		if err != nil {
			return TrendReport{}, err
		}
		cell, err := s.engine.Correlation(t, x, y)
		if err != nil {
			return TrendReport{}, err
		}
		return TrendReport{Fit: fit, Correlation: cell, Strength: engine.CellStrength(cell)}, nil
	})
}

// Histogram bins column into bins equal-width bins
func (s *AnalysisService) Histogram(t *dataset.Table, column string, bins int) (stats.Histogram, error) {
	return memo(s, memoKey(t, "histogram", column, fmt.Sprint(bins)), func() (stats.Histogram, error) {
		return s.engine.Histogram(t, column, bins)
	})
}

// Regions groups t by region and, when RankBy is set, ranks the regions
func (s *AnalysisService) Regions(t *dataset.Table, q RegionQuery) (RegionalReport, error) {
	if q.RegionColumn == "" {
		q.RegionColumn = regional.DefaultRegionColumn
	}
	if q.Direction == "" {
		q.Direction = stats.Descending
	}
	key := memoKey(t, "regions", append([]string{q.RegionColumn, q.RankBy, string(q.Direction)}, q.Metrics...)...)
	return memo(s, key, func() (RegionalReport, error) {
		column := q.RegionColumn
		if _, ok := t.Column(column); !ok {
			found, ok := regional.FindRegionColumn(t, column)
			if !ok {
				return RegionalReport{}, errors.UnknownColumn(column)
			}
			column = found
		}
		summary, err := s.aggregator.GroupByRegion(t, column, q.Metrics)
		if err != nil {
			return RegionalReport{}, err
		}
		report := RegionalReport{Summary: summary}
		if q.RankBy == "" {
			return report, nil
		}
		ranking, err := regional.RankRegions(summary, q.RankBy, q.Direction)
		if err != nil {
			return RegionalReport{}, err
		}
		extremes := regional.ExtremesOf(ranking)
		report.Ranking = &ranking
		report.Extremes = &extremes
		return report, nil
	})
}

func sortPairs(pairs []CorrelationPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := math.Abs(pairs[i].Coefficient), math.Abs(pairs[j].Coefficient)
		if a != b {
			return a > b
		}
		if pairs[i].X != pairs[j].X {
			return pairs[i].X < pairs[j].X
		}
		return pairs[i].Y < pairs[j].Y
	})
}
