package ui

import (
	"net/http"

	"cancerscope/app"
	"cancerscope/domain/stats"
	"cancerscope/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSummary(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	summaries, err := s.analysis.Summarize(t, listParam(c, "columns"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	m, err := s.analysis.Correlate(t, listParam(c, "columns"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleTopPairs(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	limit, err := intParam(c, "limit", s.options.TopPairs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	pairs, err := s.analysis.TopPairs(t, listParam(c, "columns"), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pairs": pairs})
}

func (s *Server) handleTrend(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
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
	trend, err := s.analysis.Trend(t, x, y)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (s *Server) handleRegions(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	q := app.RegionQuery{
		RegionColumn: c.DefaultQuery("region_column", s.options.RegionColumn),
		Metrics:      listParam(c, "metrics"),
		RankBy:       c.Query("rank_by"),
	}
	if raw := c.Query("direction"); raw != "" {
		d, ok := stats.ParseDirection(raw)
		if !ok {
			s.respondError(c, errors.InvalidInput("direction must be ascending or descending"))
			return
		}
		q.Direction = d
	}
	report, err := s.analysis.Regions(t, q)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHistogram(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
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
	h, err := s.analysis.Histogram(t, column, bins)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}
