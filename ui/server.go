package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"cancerscope/app"
	"cancerscope/internal"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Options holds the request-level settings of the HTTP surface
type Options struct {
	GinMode        string
	MaxUploadBytes int64
	RegionColumn   string
	HistogramBins  int
	TopPairs       int
	FallbackToDemo bool
	DemoSeed       int64
	DemoRows       int
}

// Server represents the web server for the cancer incidence dashboard
type Server struct {
	router    *gin.Engine
	templates *template.Template

	session  *app.Session
	analysis *app.AnalysisService
	charts   *app.ChartService
	reports  *app.ReportService
	options  Options
	logger   *internal.Logger
}

// NewServer creates a server with its routes registered
func NewServer(session *app.Session, analysis *app.AnalysisService, charts *app.ChartService, reports *app.ReportService, options Options, logger *internal.Logger) (*Server, error) {
	if options.GinMode != "" {
		gin.SetMode(options.GinMode)
	}
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 32 << 20
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		templates: tmpl,
		session:   session,
		analysis:  analysis,
		charts:    charts,
		reports:   reports,
		options:   options,
		logger:    logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/dataset", s.handleUpload)
		api.POST("/dataset/demo", s.handleDemo)
		api.GET("/dataset", s.handleDataset)
		api.GET("/columns", s.handleColumns)

		api.GET("/summary", s.handleSummary)
		api.GET("/correlation", s.handleCorrelation)
		api.GET("/correlation/top", s.handleTopPairs)
		api.GET("/trend", s.handleTrend)
		api.GET("/regions", s.handleRegions)
		api.GET("/histogram", s.handleHistogram)

		api.GET("/charts/heatmap", s.handleHeatmapChart)
		api.GET("/charts/scatter", s.handleScatterChart)
		api.GET("/charts/regions", s.handleRegionChart)
		api.GET("/charts/histogram", s.handleHistogramChart)
	}

	s.router.GET("/", s.handleReportHTML)
	s.router.GET("/report", s.handleReportHTML)
	s.router.GET("/report.md", s.handleReportMarkdown)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("[Server] Starting cancerscope on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
