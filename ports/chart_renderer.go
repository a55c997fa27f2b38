package ports

import (
	"context"

	"cancerscope/domain/chart"
)

// ChartRenderer draws a prepared chart spec. Renderers hold no state between
// calls; everything they draw comes from the spec.
type ChartRenderer interface {
	Render(ctx context.Context, spec chart.Spec, format chart.Format) ([]byte, error)
}
