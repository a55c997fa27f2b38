package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cancerscope/adapters/stats/regional"
	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal"

	"golang.org/x/sync/errgroup"
)

// ReportOptions tunes the generated report. Zero values pick defaults from
// the table.
type ReportOptions struct {
	RegionColumn string
	RankBy       string
	TrendX       string
	TrendY       string
	TopPairs     int
}

// ReportSection is one independently computed part of a report. A failed
// computation fills Error and leaves the other sections intact.
type ReportSection struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Error    string `json:"error,omitempty"`
}

// Report is a markdown analysis report over one table
type Report struct {
	Title       string          `json:"title"`
	TableID     string          `json:"table_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Notice      *Notice         `json:"notice,omitempty"`
	Sections    []ReportSection `json:"sections"`
}

// Markdown renders the whole report
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.Notice != nil {
		fmt.Fprintf(&b, "> %s\n\n", r.Notice.Message)
	}
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		if s.Error != "" {
			fmt.Fprintf(&b, "_Not available: %s_\n\n", s.Error)
			continue
		}
		b.WriteString(strings.TrimRight(s.Markdown, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

// ReportService assembles analysis reports
type ReportService struct {
	analysis *AnalysisService
	logger   *internal.Logger
}

// NewReportService creates a report service
func NewReportService(analysis *AnalysisService, logger *internal.Logger) *ReportService {
	return &ReportService{analysis: analysis, logger: logger}
}

type sectionFunc func(t *dataset.Table, opts ReportOptions) (string, error)

// Build computes every section concurrently. Section failures are recorded
// inline; only cancellation of ctx fails the whole report.
func (s *ReportService) Build(ctx context.Context, t *dataset.Table, opts ReportOptions) (*Report, error) {
	if opts.TopPairs <= 0 {
		opts.TopPairs = 5
	}
	plan := []struct {
		title string
		fn    sectionFunc
	}{
		{"Dataset Overview", s.overviewSection},
		{"Summary Statistics", s.summarySection},
		{"Correlation Highlights", s.correlationSection},
		{"Relationship Explorer", s.trendSection},
		{"Regional Insights", s.regionalSection},
	}

	sections := make([]ReportSection, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range plan {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			md, err := p.fn(t, opts)
			sections[i] = ReportSection{Title: p.title, Markdown: md}
			if err != nil {
				sections[i].Error = err.Error()
				s.logger.Debug("[ReportService] section %q: %v", p.title, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{
		Title:       "County Cancer Incidence Analysis: " + t.Name(),
		TableID:     t.ID().String(),
		GeneratedAt: time.Now().UTC(),
		Sections:    sections,
	}, nil
}

func (s *ReportService) overviewSection(t *dataset.Table, _ ReportOptions) (string, error) {
	cols := s.analysis.Columns(t)
	info := t.Info()
	var b strings.Builder
	fmt.Fprintf(&b, "- Source: %s (%s)\n", t.Name(), t.Source())
	fmt.Fprintf(&b, "- Rows: %d, columns: %d\n", info.RowCount, info.ColumnCount)
	fmt.Fprintf(&b, "- Missing cells: %.1f%%\n", info.MissingRate*100)
	fmt.Fprintf(&b, "- Numeric columns: %s\n", joinOrNone(cols.Numeric))
	fmt.Fprintf(&b, "- Other columns: %s\n", joinOrNone(cols.Other))
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", info.Fingerprint)
	return b.String(), nil
}

func (s *ReportService) summarySection(t *dataset.Table, _ ReportOptions) (string, error) {
	summaries, err := s.analysis.Summarize(t, nil)
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "No numeric columns.", nil
	}
	var b strings.Builder
	b.WriteString("| Column | Count | Mean | Std | Min | 25% | 50% | 75% | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, c := range summaries {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			c.Column, c.Count, num(c.Mean), numPtr(c.StdDev), num(c.Min),
			num(c.Q25), num(c.Median), num(c.Q75), num(c.Max))
	}
	return b.String(), nil
}

func (s *ReportService) correlationSection(t *dataset.Table, opts ReportOptions) (string, error) {
	pairs, err := s.analysis.TopPairs(t, nil, opts.TopPairs)
	if err != nil {
		return "", err
	}
	if len(pairs) == 0 {
		return "No defined correlations.", nil
	}
	var b strings.Builder
	b.WriteString("| X | Y | r | p | N | Strength |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, p := range pairs {
		fmt.Fprintf(&b, "| %s | %s | %.3f | %s | %d | %s |\n", p.X, p.Y, p.Coefficient, pValue(p.PValue), p.N, p.Strength)
	}
	return b.String(), nil
}

func (s *ReportService) trendSection(t *dataset.Table, opts ReportOptions) (string, error) {
	x, y := opts.TrendX, opts.TrendY
	if x == "" || y == "" {
		var err error
		x, y, err = s.defaultTrendPair(t)
		if err != nil {
			return "", err
		}
	}
	trend, err := s.analysis.Trend(t, x, y)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s vs %s** (%d paired observations)\n\n", y, x, trend.Fit.N)
	if r, ok := trend.Correlation.Value(); ok {
		fmt.Fprintf(&b, "- Correlation coefficient: %.3f (%s %s correlation)\n", r, trend.Strength, direction(r))
	} else {
		fmt.Fprintf(&b, "- Correlation coefficient: undefined (%s)\n", trend.Correlation.Reason)
	}
	if trend.Fit.Defined {
		fmt.Fprintf(&b, "- Trend: %s = %s + %s × %s (R² = %.3f)\n",
			y, num(trend.Fit.Intercept), num(trend.Fit.Slope), x, trend.Fit.RSquared)
	} else {
		fmt.Fprintf(&b, "- Trend: undefined (%s)\n", trend.Fit.Reason)
	}
	return b.String(), nil
}

// defaultTrendPair prefers income against cancer rate, then the strongest pair
func (s *ReportService) defaultTrendPair(t *dataset.Table) (string, string, error) {
	cols := s.analysis.Columns(t)
	if cols.IsNumeric("Median_Income") && cols.IsNumeric("Cancer_Rate") {
		return "Median_Income", "Cancer_Rate", nil
	}
	pairs, err := s.analysis.TopPairs(t, nil, 1)
	if err != nil {
		return "", "", err
	}
	if len(pairs) == 0 {
		return "", "", fmt.Errorf("no numeric column pair with a defined correlation")
	}
	return pairs[0].X, pairs[0].Y, nil
}

func (s *ReportService) regionalSection(t *dataset.Table, opts ReportOptions) (string, error) {
	column := opts.RegionColumn
	if column == "" {
		found, ok := regional.FindRegionColumn(t, regional.DefaultRegionColumn)
		if !ok {
			return "", fmt.Errorf("no %q column; upload a dataset with a region column for regional analysis", regional.DefaultRegionColumn)
		}
		column = found
	}
	rankBy := opts.RankBy
	if rankBy == "" {
		rankBy = "Cancer_Rate"
		if !s.analysis.Columns(t).IsNumeric(rankBy) {
			rankBy = ""
		}
	}

	report, err := s.analysis.Regions(t, RegionQuery{RegionColumn: column, RankBy: rankBy, Direction: stats.Descending})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("| Region | Rows |")
	for _, m := range report.Summary.Metrics {
		fmt.Fprintf(&b, " %s |", m)
	}
	b.WriteString("\n|---|---|")
	b.WriteString(strings.Repeat("---|", len(report.Summary.Metrics)))
	b.WriteString("\n")
	for _, r := range report.Summary.Regions {
		fmt.Fprintf(&b, "| %s | %d |", r.Region, r.Rows)
		for _, m := range report.Summary.Metrics {
			fmt.Fprintf(&b, " %s |", numPtr(r.Means[m].Mean))
		}
		b.WriteString("\n")
	}
	if report.Extremes != nil {
		b.WriteString("\n")
		if top := report.Extremes.Top; top != nil {
			fmt.Fprintf(&b, "- Highest %s: %s region with %s\n", rankBy, top.Region, numPtr(top.Value))
		}
		if bottom := report.Extremes.Bottom; bottom != nil {
			fmt.Fprintf(&b, "- Lowest %s: %s region with %s\n", rankBy, bottom.Region, numPtr(bottom.Value))
		}
	}
	return b.String(), nil
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func numPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return num(*v)
}

func pValue(p *float64) string {
	switch {
	case p == nil:
		return "n/a"
	case *p < 0.001:
		return "<0.001"
	default:
		return fmt.Sprintf("%.3f", *p)
	}
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
