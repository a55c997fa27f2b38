// Package chart describes charts as plain data. Specs are built by the
// application layer from analysis results and drawn by a renderer.
package chart

import "cancerscope/domain/stats"

// Kind identifies a chart layout
type Kind string

const (
	KindHeatmap   Kind = "heatmap"
	KindScatter   Kind = "scatter"
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
)

// Format is an output image format
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
)

// ParseFormat maps a format name to a Format, defaulting to PNG
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "", "png":
		return FormatPNG, true
	case "svg":
		return FormatSVG, true
	case "json":
		return FormatJSON, true
	}
	return "", false
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	default:
		return "image/png"
	}
}

// Bar is one labelled bar; Value is nil when undefined
type Bar struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// Spec is everything a renderer needs to draw one chart. Only the fields of
// the spec's Kind are populated.
type Spec struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	// heatmap: Labels name both axes, Grid[i][j] pairs Labels[i] with Labels[j]
	Labels []string     `json:"labels,omitempty"`
	Grid   [][]*float64 `json:"grid,omitempty"`

	// scatter: optional per-point Groups and a two-point trend Line
	Points []stats.Point `json:"points,omitempty"`
	Groups []string      `json:"groups,omitempty"`
	Line   []stats.Point `json:"line,omitempty"`

	// bar
	Bars []Bar `json:"bars,omitempty"`

	// histogram
	Edges  []float64 `json:"edges,omitempty"`
	Counts []float64 `json:"counts,omitempty"`
}
