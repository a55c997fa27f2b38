package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cancerscope/adapters/frame"
	"cancerscope/app"
	"cancerscope/domain/chart"
	"cancerscope/domain/dataset"
	"cancerscope/domain/stats"
	"cancerscope/internal/config"
	"cancerscope/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newPreviewCmd(opts *globalOptions) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the first rows of the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, dataset.PreviewOf(t, n), func() dataframe.DataFrame {
				return frame.Preview(t, n)
			})
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 10, "number of rows")
	return cmd
}

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	var columns string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Descriptive statistics of numeric columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			summaries, err := opts.container.Analysis.Summarize(t, splitList(columns))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, summaries, func() dataframe.DataFrame {
				rows := make([][]string, len(summaries))
				for i, s := range summaries {
					rows[i] = []string{s.Column, strconv.Itoa(s.Count), strconv.Itoa(s.Missing),
						fmtFloat(s.Mean), fmtPtr(s.StdDev), fmtFloat(s.Min), fmtFloat(s.Q25),
						fmtFloat(s.Median), fmtFloat(s.Q75), fmtFloat(s.Max)}
				}
				return records([]string{"column", "count", "missing", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated columns (all numeric when empty)")
	return cmd
}

func newCorrelateCmd(opts *globalOptions) *cobra.Command {
	var columns string
	var top int
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Pearson correlation matrix, or the strongest pairs with --top",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if top > 0 {
				pairs, err := opts.container.Analysis.TopPairs(t, splitList(columns), top)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), opts.output, pairs, func() dataframe.DataFrame {
					rows := make([][]string, len(pairs))
					for i, p := range pairs {
						rows[i] = []string{p.X, p.Y, fmtFloat(p.Coefficient), fmtPtr(p.PValue), strconv.Itoa(p.N), string(p.Strength)}
					}
					return records([]string{"x", "y", "r", "p", "n", "strength"}, rows)
				})
			}

			m, err := opts.container.Analysis.Correlate(t, splitList(columns))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, m, func() dataframe.DataFrame {
				header := append([]string{"column"}, m.Columns...)
				rows := make([][]string, len(m.Columns))
				for i, name := range m.Columns {
					row := []string{name}
					for _, cell := range m.Cells[i] {
						row = append(row, fmtPtr(cell.Coefficient))
					}
					rows[i] = row
				}
				return records(header, rows)
			})
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated columns (all numeric when empty)")
	cmd.Flags().IntVar(&top, "top", 0, "list the N strongest pairs instead of the matrix")
	return cmd
}

func newTrendCmd(opts *globalOptions) *cobra.Command {
	var x, y string
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Fit a least-squares line of --y on --x",
		Long: `Fit a least-squares line of --y on --x and report the pair's correlation.

Example: cancerscope trend --x Median_Income --y Cancer_Rate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			report, err := opts.container.Analysis.Trend(t, x, y)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, report, func() dataframe.DataFrame {
				fit := report.Fit
				rows := [][]string{
					{"x", fit.XColumn},
					{"y", fit.YColumn},
					{"n", strconv.Itoa(fit.N)},
				}
				if fit.Defined {
					rows = append(rows,
						[]string{"slope", fmtFloat(fit.Slope)},
						[]string{"intercept", fmtFloat(fit.Intercept)},
						[]string{"r_squared", fmtFloat(fit.RSquared)})
				} else {
					rows = append(rows, []string{"undefined", fit.Reason})
				}
				rows = append(rows,
					[]string{"r", fmtPtr(report.Correlation.Coefficient)},
					[]string{"p_value", fmtPtr(report.Correlation.PValue)},
					[]string{"strength", string(report.Strength)})
				return records([]string{"field", "value"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&x, "x", "Median_Income", "predictor column")
	cmd.Flags().StringVar(&y, "y", "Cancer_Rate", "response column")
	return cmd
}

func newRegionsCmd(opts *globalOptions) *cobra.Command {
	var regionColumn, metrics, rankBy, direction string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Mean of each metric per region, optionally ranked",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			dir, ok := stats.ParseDirection(direction)
			if !ok {
				return errors.InvalidInput("direction must be ascending or descending")
			}
			if regionColumn == "" {
				regionColumn = opts.container.Config.Data.RegionColumn
			}
			report, err := opts.container.Analysis.Regions(t, app.RegionQuery{
				RegionColumn: regionColumn,
				Metrics:      splitList(metrics),
				RankBy:       rankBy,
				Direction:    dir,
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, report, func() dataframe.DataFrame {
				if report.Ranking != nil {
					rows := make([][]string, len(report.Ranking.Entries))
					for i, e := range report.Ranking.Entries {
						rows[i] = []string{strconv.Itoa(e.Rank), e.Region, fmtPtr(e.Value), strconv.Itoa(e.Rows)}
					}
					return records([]string{"rank", "region", report.Ranking.Metric, "rows"}, rows)
				}
				s := report.Summary
				header := append([]string{s.RegionColumn, "rows"}, s.Metrics...)
				rows := make([][]string, len(s.Regions))
				for i, r := range s.Regions {
					row := []string{r.Region, strconv.Itoa(r.Rows)}
					for _, m := range s.Metrics {
						row = append(row, fmtPtr(r.Means[m].Mean))
					}
					rows[i] = row
				}
				return records(header, rows)
			})
		},
	}
	cmd.Flags().StringVar(&regionColumn, "region-column", "", "region column (config data.region_column when empty)")
	cmd.Flags().StringVar(&metrics, "metrics", "", "comma-separated metrics (all numeric when empty)")
	cmd.Flags().StringVar(&rankBy, "rank-by", "", "metric to rank regions by")
	cmd.Flags().StringVar(&direction, "direction", "descending", "ranking direction: ascending|descending")
	return cmd
}

func newHistogramCmd(opts *globalOptions) *cobra.Command {
	var column string
	var bins int
	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Equal-width bin counts of one column",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if bins <= 0 {
				bins = opts.container.Config.Analysis.HistogramBins
			}
			h, err := opts.container.Analysis.Histogram(t, column, bins)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, h, func() dataframe.DataFrame {
				rows := make([][]string, len(h.Counts))
				for i, c := range h.Counts {
					rows[i] = []string{fmtFloat(h.Edges[i]), fmtFloat(h.Edges[i+1]), strconv.Itoa(int(c))}
				}
				return records([]string{"from", "to", "count"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&column, "column", "Cancer_Rate", "column to bin")
	cmd.Flags().IntVar(&bins, "bins", 0, "number of bins (config analysis.histogram_bins when unset)")
	return cmd
}

func newChartCmd(opts *globalOptions) *cobra.Command {
	var out, format, x, y, groupBy, metric, column, columns string
	cmd := &cobra.Command{
		Use:       "chart [heatmap|scatter|regions|histogram]",
		Short:     "Render a chart to a PNG, SVG or JSON file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"heatmap", "scatter", "regions", "histogram"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			f, ok := chart.ParseFormat(format)
			if !ok {
				return errors.InvalidInput("format must be png, svg or json")
			}
			charts := opts.container.Charts
			var spec chart.Spec
			switch args[0] {
			case "heatmap":
				spec, err = charts.HeatmapSpec(t, splitList(columns))
			case "scatter":
				spec, err = charts.ScatterSpec(t, x, y, groupBy)
			case "regions":
				spec, err = charts.RegionBarSpec(t, opts.container.Config.Data.RegionColumn, metric)
			case "histogram":
				spec, err = charts.HistogramSpec(t, column, opts.container.Config.Analysis.HistogramBins)
			default:
				return errors.InvalidInput(fmt.Sprintf("unknown chart %q", args[0]))
			}
			if err != nil {
				return err
			}
			body, err := charts.Render(cmd.Context(), spec, f)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + "." + string(f)
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(body))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&out, "out", "", "output path (default <kind>.<format>)")
	flags.StringVar(&format, "image", "png", "image format: png|svg|json")
	flags.StringVar(&x, "x", "Median_Income", "scatter x column")
	flags.StringVar(&y, "y", "Cancer_Rate", "scatter y column")
	flags.StringVar(&groupBy, "group-by", "", "scatter colour column")
	flags.StringVar(&metric, "metric", "Cancer_Rate", "regions metric")
	flags.StringVar(&column, "column", "Cancer_Rate", "histogram column")
	flags.StringVar(&columns, "columns", "", "heatmap columns (all numeric when empty)")
	return cmd
}

func newDemoCmd(opts *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the deterministic demo dataset as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.container.Config
			t, err := opts.container.Session.LoadDemo(cfg.Demo.Seed, cfg.Demo.Rows)
			if err != nil {
				return err
			}
			if out == "" {
				return t.WriteCSV(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			return t.WriteCSV(f)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (stdout when empty)")
	return cmd
}

func newReportCmd(opts *globalOptions) *cobra.Command {
	var rankBy, x, y string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the full markdown analysis report",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.table(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			cfg := opts.container.Config
			report, err := opts.container.Reports.Build(cmd.Context(), t, app.ReportOptions{
				RegionColumn: cfg.Data.RegionColumn,
				RankBy:       rankBy,
				TrendX:       x,
				TrendY:       y,
				TopPairs:     cfg.Analysis.TopPairs,
			})
			if err != nil {
				return err
			}
			report.Notice = opts.notice()
			if opts.output == outputTable {
				_, err = fmt.Fprint(cmd.OutOrStdout(), report.Markdown())
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, report, nil)
		},
	}
	cmd.Flags().StringVar(&rankBy, "rank-by", "", "metric for the regional ranking")
	cmd.Flags().StringVar(&x, "x", "", "relationship explorer predictor")
	cmd.Flags().StringVar(&y, "y", "", "relationship explorer response")
	return cmd
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.container
			if _, err := c.LoadConfiguredData(cmd.Context()); err != nil {
				return err
			}
			server, err := c.NewServer()
			if err != nil {
				return err
			}
			return server.Start(":" + c.Config.Server.Port)
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "cancerscope.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}, &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == outputJSON {
				return render(cmd.OutOrStdout(), outputJSON, opts.container.Config, nil)
			}
			b, err := yaml.Marshal(opts.container.Config)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	})
	return cmd
}
