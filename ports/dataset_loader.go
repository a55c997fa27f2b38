package ports

import (
	"context"
	"io"

	"cancerscope/domain/dataset"
)

// DatasetLoaderPort parses an uploaded byte stream into a table. It never
// substitutes other data on failure.
type DatasetLoaderPort interface {
	Load(ctx context.Context, r io.Reader, formatTag, name string) (*dataset.Table, error)
}

// DemoSourcePort produces the seeded synthetic county table
type DemoSourcePort interface {
	GenerateDemo(seed int64, rows int) (*dataset.Table, error)
}
