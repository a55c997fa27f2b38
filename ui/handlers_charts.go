package ui

import (
	"net/http"

	"cancerscope/domain/chart"
	"cancerscope/domain/dataset"
	"cancerscope/internal/errors"

	"github.com/gin-gonic/gin"
)

// renderChart builds a spec from the current table and writes it in the
// requested format (?format=png|svg|json, png by default)
func (s *Server) renderChart(c *gin.Context, build func(t *dataset.Table) (chart.Spec, error)) {
	format, ok := chart.ParseFormat(c.Query("format"))
	if !ok {
		s.respondError(c, errors.InvalidInput("format must be png, svg or json"))
		return
	}
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	spec, err := build(t)
	if err != nil {
		s.respondError(c, err)
		return
	}
	body, err := s.charts.Render(c.Request.Context(), spec, format)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (s *Server) handleHeatmapChart(c *gin.Context) {
	columns := listParam(c, "columns")
	s.renderChart(c, func(t *dataset.Table) (chart.Spec, error) {
		return s.charts.HeatmapSpec(t, columns)
	})
}

func (s *Server) handleScatterChart(c *gin.Context) {
	x, err := requireParam(c, "x")
	if err != nil {
		s.respondError(c, err)
		return
	}
	y, err := requireParam(c, "y")
	if err != nil {
		s.respondError(c, err)
		return
	}
	groupBy := c.Query("group_by")
	s.renderChart(c, func(t *dataset.Table) (chart.Spec, error) {
		return s.charts.ScatterSpec(t, x, y, groupBy)
	})
}

func (s *Server) handleRegionChart(c *gin.Context) {
	metric, err := requireParam(c, "metric")
	if err != nil {
		s.respondError(c, err)
		return
	}
	regionColumn := c.DefaultQuery("region_column", s.options.RegionColumn)
	s.renderChart(c, func(t *dataset.Table) (chart.Spec, error) {
		return s.charts.RegionBarSpec(t, regionColumn, metric)
	})
}

func (s *Server) handleHistogramChart(c *gin.Context) {
	column, err := requireParam(c, "column")
	if err != nil {
		s.respondError(c, err)
		return
	}
	bins, err := intParam(c, "bins", s.options.HistogramBins)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderChart(c, func(t *dataset.Table) (chart.Spec, error) {
		return s.charts.HistogramSpec(t, column, bins)
	})
}
