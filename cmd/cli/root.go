package main

import (
	"context"
	"fmt"
	"os"

	"cancerscope/app"
	"cancerscope/domain/dataset"
	"cancerscope/internal"
	"cancerscope/internal/config"
	"cancerscope/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	file       string
	format     string
	sheet      string
	seed       int64
	rows       int
	output     string
	logLevel   string

	container *container.Container
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "cancerscope",
		Short:         "Explore county socio-economic and cancer incidence data",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `cancerscope loads a county dataset (CSV, TSV or XLSX), or generates a
deterministic demo dataset, and reports summary statistics, correlations,
trend fits and regional rankings.

Example: cancerscope regions --file counties.xlsx --rank-by Cancer_Rate`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "config file (default ./cancerscope.yaml when present)")
	f.StringVar(&opts.file, "file", "", "data file to analyse (CSV, TSV or XLSX); demo data when empty")
	f.StringVar(&opts.format, "format", "", "format tag overriding the file extension: csv|tsv|xlsx")
	f.StringVar(&opts.sheet, "sheet", "", "workbook sheet name (first sheet when empty)")
	f.Int64Var(&opts.seed, "seed", 0, "demo seed (config demo.seed when unset)")
	f.IntVar(&opts.rows, "rows", 0, "demo row count (config demo.rows when unset)")
	f.StringVarP(&opts.output, "output", "o", outputTable, "output format: table|json|yaml")
	f.StringVar(&opts.logLevel, "log-level", "", "ERROR|WARN|INFO|DEBUG|TRACE (config log.level when unset)")

	rootCmd.AddCommand(
		newPreviewCmd(opts),
		newSummaryCmd(opts),
		newCorrelateCmd(opts),
		newTrendCmd(opts),
		newRegionsCmd(opts),
		newHistogramCmd(opts),
		newChartCmd(opts),
		newDemoCmd(opts),
		newReportCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// init loads .env and configuration, applies flag overrides and builds the container
func (o *globalOptions) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := validOutput(o.output); err != nil {
		return err
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Data.File = o.file
	}
	if flags.Changed("sheet") {
		cfg.Data.Sheet = o.sheet
	}
	if flags.Changed("seed") {
		cfg.Demo.Seed = o.seed
	}
	if flags.Changed("rows") {
		cfg.Demo.Rows = o.rows
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	// CLI logs go to stderr so stdout stays parseable
	logger := internal.NewLoggerTo(internal.ParseLogLevel(cfg.Log.Level), cmd.ErrOrStderr())
	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}
	o.container = c
	return nil
}

// table returns the table a command operates on: the configured file, or
// the demo table. A fallback notice is printed to stderr.
func (o *globalOptions) table(ctx context.Context, cmd *cobra.Command) (*dataset.Table, error) {
	c := o.container
	if c.Config.Data.File == "" {
		return c.Session.LoadDemo(c.Config.Demo.Seed, c.Config.Demo.Rows)
	}
	result, err := c.LoadFile(ctx, c.Config.Data.File, o.format, c.FallbackPolicy())
	if err != nil {
		return nil, err
	}
	if result.Notice != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", result.Notice.Level, result.Notice.Message)
	}
	return result.Table, nil
}

// notice returns the session notice for report headers
func (o *globalOptions) notice() *app.Notice {
	return o.container.Session.Notice()
}
