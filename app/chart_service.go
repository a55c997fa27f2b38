package app

import (
	"context"
	"fmt"

	"cancerscope/domain/chart"
	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal/errors"
	"cancerscope/ports"
)

// ChartService turns analysis results into chart specs and hands them to a
// renderer. It draws nothing itself.
type ChartService struct {
	analysis *AnalysisService
	renderer ports.ChartRenderer
}

// NewChartService creates a chart service
func NewChartService(analysis *AnalysisService, renderer ports.ChartRenderer) *ChartService {
	return &ChartService{analysis: analysis, renderer: renderer}
}

// Render draws spec with the configured renderer
func (s *ChartService) Render(ctx context.Context, spec chart.Spec, format chart.Format) ([]byte, error) {
	return s.renderer.Render(ctx, spec, format)
}

// HeatmapSpec describes the correlation matrix of columns
func (s *ChartService) HeatmapSpec(t *dataset.Table, columns []string) (chart.Spec, error) {
	m, err := s.analysis.Correlate(t, columns)
	if err != nil {
		return chart.Spec{}, err
	}
	return chart.Spec{
		Kind:   chart.KindHeatmap,
		Title:  "Correlation Matrix",
		Labels: m.Columns,
		Grid:   m.Grid(),
	}, nil
}

// ScatterSpec plots y against x with the fitted trend line. When groupBy
// names a column, points carry its labels for colouring.
func (s *ChartService) ScatterSpec(t *dataset.Table, x, y, groupBy string) (chart.Spec, error) {
	trend, err := s.analysis.Trend(t, x, y)
	if err != nil {
		return chart.Spec{}, err
	}
	xc, _ := t.Column(x)
	yc, _ := t.Column(y)

	var group *dataset.Column
	if groupBy != "" {
		g, ok := t.Column(groupBy)
		if !ok {
			return chart.Spec{}, errors.UnknownColumn(groupBy)
		}
		group = g
	}

	spec := chart.Spec{
		Kind:   chart.KindScatter,
		Title:  fmt.Sprintf("%s vs %s", y, x),
		XLabel: x,
		YLabel: y,
	}
	for i := 0; i < t.RowCount(); i++ {
		xv, okX := xc.Float(i)
		yv, okY := yc.Float(i)
		if !okX || !okY {
			continue
		}
		spec.Points = append(spec.Points, stats.Point{X: xv, Y: yv})
		if group != nil {
			spec.Groups = append(spec.Groups, group.Value(i).String())
		}
	}
	if trend.Fit.Defined {
		spec.Line = []stats.Point{trend.Fit.Start, trend.Fit.End}
	}
	return spec, nil
}

// RegionBarSpec shows the mean of metric per region
func (s *ChartService) RegionBarSpec(t *dataset.Table, regionColumn, metric string) (chart.Spec, error) {
	report, err := s.analysis.Regions(t, RegionQuery{RegionColumn: regionColumn, Metrics: []string{metric}})
	if err != nil {
		return chart.Spec{}, err
	}
	spec := chart.Spec{
		Kind:   chart.KindBar,
		Title:  fmt.Sprintf("Average %s by Region", metric),
		XLabel: report.Summary.RegionColumn,
		YLabel: metric,
	}
	for _, r := range report.Summary.Regions {
		spec.Bars = append(spec.Bars, chart.Bar{Label: r.Region, Value: r.Means[metric].Mean})
	}
	return spec, nil
}

// HistogramSpec shows the distribution of column
func (s *ChartService) HistogramSpec(t *dataset.Table, column string, bins int) (chart.Spec, error) {
	h, err := s.analysis.Histogram(t, column, bins)
	if err != nil {
		return chart.Spec{}, err
	}
	return chart.Spec{
		Kind:   chart.KindHistogram,
		Title:  "Distribution of " + column,
		XLabel: column,
		YLabel: "Count",
		Edges:  h.Edges,
		Counts: h.Counts,
	}, nil
}
