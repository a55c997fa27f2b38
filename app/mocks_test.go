package app

import (
	"context"
	"io"

	"cancerscope/domain/chart"
	"cancerscope/domain/dataset"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing
type MockDatasetLoader struct {
	mock.Mock
}

func (m *MockDatasetLoader) Load(ctx context.Context, r io.Reader, formatTag, name string) (*dataset.Table, error) {
	args := m.Called(ctx, r, formatTag, name)
	return args.Get(0).(*dataset.Table), args.Error(1)
}

type MockDemoSource struct {
	mock.Mock
}

func (m *MockDemoSource) GenerateDemo(seed int64, rows int) (*dataset.Table, error) {
	args := m.Called(seed, rows)
	return args.Get(0).(*dataset.Table), args.Error(1)
}

type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) Render(ctx context.Context, spec chart.Spec, format chart.Format) ([]byte, error) {
	args := m.Called(ctx, spec, format)
	return args.Get(0).([]byte), args.Error(1)
}
