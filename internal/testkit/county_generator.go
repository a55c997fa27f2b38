package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"cancerscope/domain/dataset"
	"cancerscope/internal/errors"
)

// DemoRegions are the census regions assigned to synthetic counties
var DemoRegions = []string{"Northeast", "Midwest", "South", "West"}

// CountyGeneratorConfig configures the synthetic county dataset
type CountyGeneratorConfig struct {
	Seed int64 `json:"seed"`
	Rows int   `json:"rows"`
}

// DefaultCountyConfig returns the demo defaults
func DefaultCountyConfig() CountyGeneratorConfig {
	return CountyGeneratorConfig{
		Seed: 42,
		Rows: 100,
	}
}

// CountyDataGenerator produces a county table where cancer rates fall with
// income and rise with poverty, plus noise.
type CountyDataGenerator struct {
	config CountyGeneratorConfig
	rng    *rand.Rand
}

// NewCountyDataGenerator creates a generator. Rows <= 0 uses the default row count.
func NewCountyDataGenerator(config CountyGeneratorConfig) *CountyDataGenerator {
	if config.Rows <= 0 {
		config.Rows = DefaultCountyConfig().Rows
	}
	return &CountyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// maxRows bounds generation so a bad request cannot exhaust memory
const maxRows = 1_000_000

// Generate builds the table. The draw order is fixed, so the same seed and
// row count always produce identical bytes.
func (g *CountyDataGenerator) Generate() (*dataset.Table, error) {
	n := g.config.Rows
	if n > maxRows {
		return nil, errors.InvalidInput(fmt.Sprintf("demo row count %d exceeds limit %d", n, maxRows))
	}

	income := g.normals(n, 45000, 15000)
	poverty := g.normals(n, 15, 5)
	education := g.normals(n, 25, 10)
	cancerNoise := g.normals(n, 0, 10)
	lungNoise := g.normals(n, 0, 5)
	breastNoise := g.normals(n, 0, 8)

	counties := make([]string, n)
	regions := make([]string, n)
	for i := 0; i < n; i++ {
		counties[i] = fmt.Sprintf("County_%d", i+1)
		regions[i] = DemoRegions[g.rng.Intn(len(DemoRegions))]
	}

	cancer := make([]float64, n)
	lung := make([]float64, n)
	breast := make([]float64, n)
	for i := 0; i < n; i++ {
		cancer[i] = math.Max(50, 150-0.001*income[i]+2*poverty[i]+cancerNoise[i])
		lung[i] = math.Max(0, 50-0.0003*income[i]+1.5*poverty[i]+lungNoise[i])
		breast[i] = math.Max(0, 40-0.0002*income[i]+0.5*poverty[i]+breastNoise[i])
	}

	return dataset.NewBuilder("demo", dataset.SourceDemo).
		AddText("County", dataset.TypeText, counties).
		AddText("Region", dataset.TypeCategorical, regions).
		AddNumeric("Median_Income", income).
		AddNumeric("Poverty_Rate", poverty).
		AddNumeric("Education_Level", education).
		AddNumeric("Cancer_Rate", cancer).
		AddNumeric("Lung_Cancer_Rate", lung).
		AddNumeric("Breast_Cancer_Rate", breast).
		Build()
}

func (g *CountyDataGenerator) normals(n int, mean, stddev float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + stddev*g.rng.NormFloat64()
	}
	return out
}

// CountySource adapts the generator to callers that pick seed and size per call
type CountySource struct{}

// GenerateDemo builds a county table for seed and rows
func (CountySource) GenerateDemo(seed int64, rows int) (*dataset.Table, error) {
	return NewCountyDataGenerator(CountyGeneratorConfig{Seed: seed, Rows: rows}).Generate()
}
