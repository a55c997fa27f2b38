// Package render draws chart specs with gonum/plot.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"sort"

	"cancerscope/domain/chart"
	"cancerscope/internal"
	"cancerscope/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RendererConfig sets the canvas size in inches
type RendererConfig struct {
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
}

// DefaultRendererConfig returns a 10x6 inch canvas
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{WidthInches: 10, HeightInches: 6}
}

// PlotRenderer implements ports.ChartRenderer
type PlotRenderer struct {
	width  vg.Length
	height vg.Length
	logger *internal.Logger
}

// NewPlotRenderer creates a renderer; non-positive sizes fall back to defaults
func NewPlotRenderer(config RendererConfig, logger *internal.Logger) *PlotRenderer {
	def := DefaultRendererConfig()
	if config.WidthInches <= 0 {
		config.WidthInches = def.WidthInches
	}
	if config.HeightInches <= 0 {
		config.HeightInches = def.HeightInches
	}
	return &PlotRenderer{
		width:  vg.Length(config.WidthInches) * vg.Inch,
		height: vg.Length(config.HeightInches) * vg.Inch,
		logger: logger,
	}
}

// Render draws spec in the requested format. JSON returns the spec itself.
func (r *PlotRenderer) Render(ctx context.Context, spec chart.Spec, format chart.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format == chart.FormatJSON {
		return json.Marshal(spec)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	var err error
	switch spec.Kind {
	case chart.KindHeatmap:
		err = addHeatmap(p, spec)
	case chart.KindScatter:
		err = addScatter(p, spec)
	case chart.KindBar:
		err = addBars(p, spec)
	case chart.KindHistogram:
		err = addHistogram(p, spec)
	default:
		err = errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", spec.Kind))
	}
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(r.width, r.height, string(format))
	if err != nil {
		return nil, errors.Wrapf(err, "render %s chart as %s", spec.Kind, format)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrapf(err, "write %s chart", spec.Kind)
	}
	r.logger.Debug("[PlotRenderer] %s chart %q rendered as %s (%d bytes)", spec.Kind, spec.Title, format, buf.Len())
	return buf.Bytes(), nil
}

// correlationGrid adapts a square coefficient grid to plotter.GridXYZ.
// Undefined cells read as NaN.
type correlationGrid [][]*float64

func (g correlationGrid) Dims() (c, r int) { return len(g), len(g) }
func (g correlationGrid) X(c int) float64  { return float64(c) }
func (g correlationGrid) Y(r int) float64  { return float64(r) }

func (g correlationGrid) Z(c, r int) float64 {
	if v := g[r][c]; v != nil {
		return *v
	}
	return math.NaN()
}

func addHeatmap(p *plot.Plot, spec chart.Spec) error {
	if len(spec.Labels) < 2 || len(spec.Grid) != len(spec.Labels) {
		return errors.InvalidInput("heatmap needs a square grid over at least two columns")
	}
	hm := plotter.NewHeatMap(correlationGrid(spec.Grid), palette.Heat(16, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 220}
	p.Add(hm)

	var xys plotter.XYs
	var labels []string
	for i, row := range spec.Grid {
		for j, v := range row {
			if v == nil {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(i)})
			labels = append(labels, fmt.Sprintf("%.2f", *v))
		}
	}
	if len(xys) > 0 {
		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return errors.Wrap(err, "heatmap labels")
		}
		p.Add(annotations)
	}
	p.NominalX(spec.Labels...)
	p.NominalY(spec.Labels...)
	return nil
}

func addScatter(p *plot.Plot, spec chart.Spec) error {
	if len(spec.Points) == 0 {
		return errors.InvalidInput("scatter chart has no points")
	}

	groups := map[string]plotter.XYs{}
	for i, pt := range spec.Points {
		g := ""
		if i < len(spec.Groups) {
			g = spec.Groups[i]
		}
		groups[g] = append(groups[g], plotter.XY{X: pt.X, Y: pt.Y})
	}
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	for i, g := range names {
		s, err := plotter.NewScatter(groups[g])
		if err != nil {
			return errors.Wrap(err, "scatter points")
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		if g != "" {
			p.Legend.Add(g, s)
		}
	}

	if len(spec.Line) == 2 {
		line, err := plotter.NewLine(plotter.XYs{
			{X: spec.Line[0].X, Y: spec.Line[0].Y},
			{X: spec.Line[1].X, Y: spec.Line[1].Y},
		})
		if err != nil {
			return errors.Wrap(err, "trend line")
		}
		line.Color = color.RGBA{R: 220, A: 255}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("trend", line)
	}
	p.Add(plotter.NewGrid())
	return nil
}

func addBars(p *plot.Plot, spec chart.Spec) error {
	if len(spec.Bars) == 0 {
		return errors.InvalidInput("bar chart has no bars")
	}
	values := make(plotter.Values, len(spec.Bars))
	labels := make([]string, len(spec.Bars))
	for i, b := range spec.Bars {
		labels[i] = b.Label
		if b.Value != nil {
			values[i] = *b.Value
		}
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

func addHistogram(p *plot.Plot, spec chart.Spec) error {
	if len(spec.Counts) == 0 || len(spec.Edges) != len(spec.Counts)+1 {
		return errors.InvalidInput("histogram needs len(counts)+1 edges")
	}
	h := &plotter.Histogram{
		FillColor: plotutil.Color(2),
		LineStyle: plotter.DefaultLineStyle,
		Width:     spec.Edges[1] - spec.Edges[0],
	}
	for i, c := range spec.Counts {
		h.Bins = append(h.Bins, plotter.HistogramBin{Min: spec.Edges[i], Max: spec.Edges[i+1], Weight: c})
	}
	p.Add(h)
	return nil
}
