package app

import (
	"context"
	"testing"

	"cancerscope/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_DemoReport(t *testing.T) {
	table := testkit.DemoTable(t, 42, 100)
	report, err := NewReportService(newAnalysis(t), quietLogger).Build(context.Background(), table, ReportOptions{})
	require.NoError(t, err)

	require.Len(t, report.Sections, 5)
	for _, s := range report.Sections {
		assert.Empty(t, s.Error, s.Title)
		assert.NotEmpty(t, s.Markdown, s.Title)
	}

	md := report.Markdown()
	assert.Contains(t, md, "# County Cancer Incidence Analysis: demo")
	assert.Contains(t, md, "## Summary Statistics")
	assert.Contains(t, md, "| Median_Income |")
	assert.Contains(t, md, "**Cancer_Rate vs Median_Income**")
	assert.Contains(t, md, "Highest Cancer_Rate:")
	assert.Contains(t, md, "Lowest Cancer_Rate:")
}

func TestReportService_SectionFailuresAreIsolated(t *testing.T) {
	table := testkit.TableFromCSV(t, `
County,Income,Rate
a,1,2
b,2,4
c,3,7`)

	report, err := NewReportService(newAnalysis(t), quietLogger).Build(context.Background(), table, ReportOptions{})
	require.NoError(t, err)

	byTitle := map[string]ReportSection{}
	for _, s := range report.Sections {
		byTitle[s.Title] = s
	}
	assert.NotEmpty(t, byTitle["Regional Insights"].Error)
	assert.Empty(t, byTitle["Summary Statistics"].Error)
	assert.Empty(t, byTitle["Relationship Explorer"].Error)
	assert.Contains(t, byTitle["Relationship Explorer"].Markdown, "Rate vs Income")
	assert.Contains(t, report.Markdown(), "_Not available:")
}

func TestReportService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReportService(newAnalysis(t), quietLogger).Build(ctx, testkit.DemoTable(t, 1, 10), ReportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
