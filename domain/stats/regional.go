package stats

import "strings"

// MetricMean is the mean of one metric over a region's rows. Mean is nil when
// every row of the region is missing that metric.
type MetricMean struct {
	Mean  *float64 `json:"mean"`
	Count int      `json:"count"`
}

// RegionRecord holds one region's per-metric means
type RegionRecord struct {
	Region string                `json:"region"`
	Rows   int                   `json:"rows"`
	Means  map[string]MetricMean `json:"means"`
}

// RegionalSummary maps each region present in the data to its record.
// Regions are sorted by label.
type RegionalSummary struct {
	RegionColumn string         `json:"region_column"`
	Metrics      []string       `json:"metrics"`
	Regions      []RegionRecord `json:"regions"`
}

// HasMetric reports whether metric was aggregated
func (s RegionalSummary) HasMetric(metric string) bool {
	return indexOf(s.Metrics, metric) >= 0
}

// Region returns the record for label
func (s RegionalSummary) Region(label string) (RegionRecord, bool) {
	for _, r := range s.Regions {
		if r.Region == label {
			return r, true
		}
	}
	return RegionRecord{}, false
}

// Direction is the sort order of a ranking
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection accepts asc/ascending/desc/descending in any case
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	}
	return "", false
}

// RankEntry is one region's position in a ranking. Value is nil for regions
// whose mean is undefined; those entries sort last.
type RankEntry struct {
	Rank   int      `json:"rank"`
	Region string   `json:"region"`
	Value  *float64 `json:"value"`
	Rows   int      `json:"rows"`
}

// Ranking orders regions by a metric; ties break on region label ascending
type Ranking struct {
	Metric    string      `json:"metric"`
	Direction Direction   `json:"direction"`
	Entries   []RankEntry `json:"entries"`
}

// Extremes are the first and last ranked regions with a defined value.
// Either side is nil when there are not enough entries.
type Extremes struct {
	Top    *RankEntry `json:"top"`
	Bottom *RankEntry `json:"bottom"`
}
