package app

import (
	"context"
	"testing"

	"cancerscope/domain/chart"
	"cancerscope/internal/errors"
	"cancerscope/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChartService_Specs(t *testing.T) {
	table := testkit.DemoTable(t, 42, 100)
	s := NewChartService(newAnalysis(t), new(MockChartRenderer))

	heat, err := s.HeatmapSpec(table, nil)
	require.NoError(t, err)
	assert.Equal(t, chart.KindHeatmap, heat.Kind)
	assert.Len(t, heat.Labels, 6)
	assert.Len(t, heat.Grid, 6)

	scatter, err := s.ScatterSpec(table, "Median_Income", "Cancer_Rate", "Region")
	require.NoError(t, err)
	assert.Len(t, scatter.Points, 100)
	assert.Len(t, scatter.Groups, 100)
	require.Len(t, scatter.Line, 2)
	assert.Less(t, scatter.Line[0].X, scatter.Line[1].X)

	bars, err := s.RegionBarSpec(table, "Region", "Cancer_Rate")
	require.NoError(t, err)
	assert.Equal(t, "Average Cancer_Rate by Region", bars.Title)
	assert.NotEmpty(t, bars.Bars)

	hist, err := s.HistogramSpec(table, "Poverty_Rate", 8)
	require.NoError(t, err)
	assert.Len(t, hist.Edges, 9)
	total := 0.0
	for _, c := range hist.Counts {
		total += c
	}
	assert.Equal(t, 100.0, total)
}

func TestChartService_ScatterErrors(t *testing.T) {
	table := testkit.TableFromCSV(t, "X,Y,Name\n1,NA,a\nNA,2,b")
	s := NewChartService(newAnalysis(t), new(MockChartRenderer))

	_, err := s.ScatterSpec(table, "X", "Y", "")
	assert.True(t, errors.HasCode(err, errors.CodeInsufficientData))

	good := testkit.TableFromCSV(t, "X,Y\n1,2\n2,3")
	_, err = s.ScatterSpec(good, "X", "Y", "Group")
	assert.True(t, errors.HasCode(err, errors.CodeUnknownColumn))
}

func TestChartService_RenderDelegates(t *testing.T) {
	renderer := new(MockChartRenderer)
	spec := chart.Spec{Kind: chart.KindBar, Title: "x"}
	renderer.On("Render", mock.Anything, spec, chart.FormatPNG).Return([]byte("png"), nil)

	s := NewChartService(newAnalysis(t), renderer)
	out, err := s.Render(context.Background(), spec, chart.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), out)
	renderer.AssertExpectations(t)
}
