package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cancerscope/adapters/excel"
	"cancerscope/adapters/render"
	"cancerscope/app"
	"cancerscope/internal"
	"cancerscope/internal/config"
	"cancerscope/internal/errors"
	"cancerscope/internal/testkit"
	"cancerscope/ui"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Reader   *excel.DataReader
	Demo     testkit.CountySource
	Renderer *render.PlotRenderer

	// Services
	Session  *app.Session
	Analysis *app.AnalysisService
	Charts   *app.ChartService
	Reports  *app.ReportService
}

// New creates the dependency container from cfg
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	}

	readerConfig := excel.DefaultReaderConfig()
	readerConfig.SheetName = cfg.Data.Sheet
	readerConfig.MaxRows = cfg.Data.MaxRows

	c := &Container{
		Config: cfg,
		Logger: logger,
		Reader: excel.NewDataReader(readerConfig, logger),
		Renderer: render.NewPlotRenderer(render.RendererConfig{
			WidthInches:  cfg.Charts.WidthInches,
			HeightInches: cfg.Charts.HeightInches,
		}, logger),
	}
	c.Session = app.NewSession(c.Reader, c.Demo, app.DemoConfig{Seed: cfg.Demo.Seed, Rows: cfg.Demo.Rows}, logger)

	analysis, err := app.NewAnalysisService(cfg.Analysis.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	c.Analysis = analysis
	c.Charts = app.NewChartService(analysis, c.Renderer)
	c.Reports = app.NewReportService(analysis, logger)
	return c, nil
}

// FallbackPolicy returns the configured ingestion policy
func (c *Container) FallbackPolicy() app.FallbackPolicy {
	if c.Config.Data.FallbackToDemo {
		return app.FallbackToDemo
	}
	return app.FailOnError
}

// LoadFile ingests path into the session under policy. A file that cannot
// be opened is treated like one that cannot be parsed.
func (c *Container) LoadFile(ctx context.Context, path string, formatTag string, policy app.FallbackPolicy) (app.IngestResult, error) {
	if formatTag == "" {
		formatTag = path
	}
	f, err := os.Open(path)
	if err != nil {
		openErr := errors.ParseError("failed to open "+filepath.Base(path), err)
		if policy != app.FallbackToDemo {
			return app.IngestResult{}, openErr
		}
		c.Logger.Warn("[Container] %v, using demo data", openErr)
		return c.Session.FallBack(openErr)
	}
	defer f.Close()
	return c.Session.Ingest(ctx, f, formatTag, filepath.Base(path), policy)
}

// LoadConfiguredData ingests data.file when configured. With no file the
// session keeps serving demo data.
func (c *Container) LoadConfiguredData(ctx context.Context) (*app.IngestResult, error) {
	if c.Config.Data.File == "" {
		c.Logger.Info("[Container] No data file configured, using demo data")
		return nil, nil
	}
	c.Logger.Info("[Container] Using data file: %s", c.Config.Data.File)
	result, err := c.LoadFile(ctx, c.Config.Data.File, "", c.FallbackPolicy())
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ServerOptions maps configuration onto the HTTP layer
func (c *Container) ServerOptions() ui.Options {
	return ui.Options{
		GinMode:        c.Config.Server.GinMode,
		MaxUploadBytes: int64(c.Config.Server.MaxUploadMB) << 20,
		RegionColumn:   c.Config.Data.RegionColumn,
		HistogramBins:  c.Config.Analysis.HistogramBins,
		TopPairs:       c.Config.Analysis.TopPairs,
		FallbackToDemo: c.Config.Data.FallbackToDemo,
		DemoSeed:       c.Config.Demo.Seed,
		DemoRows:       c.Config.Demo.Rows,
	}
}

// NewServer builds the HTTP server over the container's services
func (c *Container) NewServer() (*ui.Server, error) {
	return ui.NewServer(c.Session, c.Analysis, c.Charts, c.Reports, c.ServerOptions(), c.Logger)
}
