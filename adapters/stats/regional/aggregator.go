package regional

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cancerscope/adapters/datareadiness"
	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal/errors"

	mstats "github.com/montanaflynn/stats"
)

// DefaultRegionColumn is the column name that enables regional analysis
const DefaultRegionColumn = "Region"

// commonRegionColumns are checked case-insensitively when the preferred
// column is absent
var commonRegionColumns = []string{"region", "census_region", "area", "division"}

// Aggregator groups table rows by a region label and averages metrics
type Aggregator struct {
	classifier *datareadiness.ColumnClassifier
}

// NewAggregator creates a regional aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{classifier: datareadiness.NewColumnClassifier()}
}

// FindRegionColumn returns preferred when present, otherwise the first column
// whose name matches preferred or a common region name ignoring case.
// The candidate must be non-numeric and have at least one label.
func FindRegionColumn(t *dataset.Table, preferred string) (string, bool) {
	if preferred == "" {
		preferred = DefaultRegionColumn
	}
	if col, ok := t.Column(preferred); ok && isValidRegionColumn(col) {
		return preferred, true
	}
	candidates := append([]string{strings.ToLower(preferred)}, commonRegionColumns...)
	for _, want := range candidates {
		for _, col := range t.Columns() {
			if strings.ToLower(col.Name()) == want && isValidRegionColumn(col) {
				return col.Name(), true
			}
		}
	}
	return "", false
}

func isValidRegionColumn(col *dataset.Column) bool {
	if col.Type() == dataset.TypeNumeric {
		return false
	}
	return col.MissingCount() < col.Len()
}

// regionLabel renders a region cell; missing cells have no label
func regionLabel(v dataset.Value) (string, bool) {
	if v.IsMissing() {
		return "", false
	}
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return v.String(), true
}

// GroupByRegion averages each metric column per distinct region label.
// Missing metric values are ignored; a region whose values are all missing
// for a metric gets an undefined mean for that metric only. Rows without a
// region label are dropped. An empty metric list selects every numeric
// column except the region column.
func (a *Aggregator) GroupByRegion(t *dataset.Table, regionColumn string, metrics []string) (stats.RegionalSummary, error) {
	regionCol, ok := t.Column(regionColumn)
	if !ok {
		return stats.RegionalSummary{}, errors.UnknownColumn(regionColumn)
	}

	classification := a.classifier.Classify(t)
	if len(metrics) == 0 {
		var all []string
		for _, name := range classification.Numeric {
			if name != regionColumn {
				all = append(all, name)
			}
		}
		metrics = all
	}
	metricCols := make([]*dataset.Column, len(metrics))
	for i, name := range metrics {
		col, ok := t.Column(name)
		if !ok {
			return stats.RegionalSummary{}, errors.UnknownColumn(name)
		}
		if !classification.IsNumeric(name) {
			return stats.RegionalSummary{}, errors.InvalidInput(fmt.Sprintf("metric %q is not numeric", name))
		}
		metricCols[i] = col
	}

	type group struct {
		rows   int
		values [][]float64
	}
	groups := make(map[string]*group)
	for r := 0; r < t.RowCount(); r++ {
		label, ok := regionLabel(regionCol.Value(r))
		if !ok {
			continue
		}
		g, exists := groups[label]
		if !exists {
			g = &group{values: make([][]float64, len(metrics))}
			groups[label] = g
		}
		g.rows++
		for m, col := range metricCols {
			if v, ok := col.Float(r); ok {
				g.values[m] = append(g.values[m], v)
			}
		}
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	summary := stats.RegionalSummary{
		RegionColumn: regionColumn,
		Metrics:      append([]string(nil), metrics...),
		Regions:      make([]stats.RegionRecord, 0, len(labels)),
	}
	for _, label := range labels {
		g := groups[label]
		record := stats.RegionRecord{
			Region: label,
			Rows:   g.rows,
			Means:  make(map[string]stats.MetricMean, len(metrics)),
		}
		for m, name := range metrics {
			mm := stats.MetricMean{Count: len(g.values[m])}
			if mm.Count > 0 {
				if mean, err := mstats.Mean(g.values[m]); err == nil {
					mm.Mean = &mean
				}
			}
			record.Means[name] = mm
		}
		summary.Regions = append(summary.Regions, record)
	}
	return summary, nil
}

// RankRegions orders the regions of summary by metric. Ties break on region
// label ascending and regions with an undefined mean are placed last.
func RankRegions(summary stats.RegionalSummary, metric string, direction stats.Direction) (stats.Ranking, error) {
	if !summary.HasMetric(metric) {
		return stats.Ranking{}, errors.UnknownMetric(metric)
	}
	if direction != stats.Ascending && direction != stats.Descending {
		return stats.Ranking{}, errors.InvalidInput(fmt.Sprintf("unknown ranking direction %q", direction))
	}

	entries := make([]stats.RankEntry, len(summary.Regions))
	for i, record := range summary.Regions {
		entries[i] = stats.RankEntry{
			Region: record.Region,
			Value:  record.Means[metric].Mean,
			Rows:   record.Rows,
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.Value == nil) != (b.Value == nil) {
			return b.Value == nil
		}
		if a.Value != nil && *a.Value != *b.Value {
			if direction == stats.Descending {
				return *a.Value > *b.Value
			}
			return *a.Value < *b.Value
		}
		return a.Region < b.Region
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return stats.Ranking{Metric: metric, Direction: direction, Entries: entries}, nil
}

// ExtremesOf returns the first and last ranked entries with a defined value.
// With a single such entry only Top is set; with none both are nil.
func ExtremesOf(ranking stats.Ranking) stats.Extremes {
	var defined []stats.RankEntry
	for _, e := range ranking.Entries {
		if e.Value != nil {
			defined = append(defined, e)
		}
	}
	var ex stats.Extremes
	if len(defined) >= 1 {
		top := defined[0]
		ex.Top = &top
	}
	if len(defined) >= 2 {
		bottom := defined[len(defined)-1]
		ex.Bottom = &bottom
	}
	return ex
}
