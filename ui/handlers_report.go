package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"cancerscope/app"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func (s *Server) buildReport(c *gin.Context) (*app.Report, bool) {
	t, ok := s.currentTable(c)
	if !ok {
		return nil, false
	}
	opts := app.ReportOptions{
		RegionColumn: c.DefaultQuery("region_column", s.options.RegionColumn),
		RankBy:       c.Query("rank_by"),
		TrendX:       c.Query("x"),
		TrendY:       c.Query("y"),
		TopPairs:     s.options.TopPairs,
	}
	report, err := s.reports.Build(c.Request.Context(), t, opts)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	report.Notice = s.session.Notice()
	return report, true
}

func (s *Server) handleReportMarkdown(c *gin.Context) {
	report, ok := s.buildReport(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown()))
}

func (s *Server) handleReportHTML(c *gin.Context) {
	report, ok := s.buildReport(c)
	if !ok {
		return
	}
	data := gin.H{
		"Title":  report.Title,
		"Notice": report.Notice,
		"Body":   template.HTML(markdownToHTML(report.Markdown())),
	}
	s.renderTemplate(c, "report.html", data)
}

// markdownToHTML renders report markdown with tables enabled
func markdownToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return markdown.ToHTML([]byte(md), p, r)
}

// renderTemplate executes a template into a buffer first so a failure never
// sends a half-written page
func (s *Server) renderTemplate(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[UI] template %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed", "code": "INTERNAL_ERROR"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
