package container

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"cancerscope/internal"
	"cancerscope/internal/config"
	"cancerscope/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T, mutate func(*config.Config)) *Container {
	t.Helper()
	cfg := config.Default()
	cfg.Server.GinMode = "test"
	if mutate != nil {
		mutate(cfg)
	}
	c, err := New(cfg, internal.NewLoggerTo(internal.LogLevelError, io.Discard))
	require.NoError(t, err)
	return c
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestLoadConfiguredDataWithoutFile(t *testing.T) {
	c := newContainer(t, nil)
	result, err := c.LoadConfiguredData(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)

	table, err := c.Session.Current()
	require.NoError(t, err)
	assert.Equal(t, "demo", table.Name())
	assert.Equal(t, 100, table.RowCount())
}

func TestLoadConfiguredDataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.csv")
	require.NoError(t, os.WriteFile(path, []byte("County,Region,Cancer_Rate\nA,West,10\nB,East,12\n"), 0o644))
	c := newContainer(t, func(cfg *config.Config) { cfg.Data.File = path })

	result, err := c.LoadConfiguredData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.FellBack)
	assert.Equal(t, "counties.csv", result.Table.Name())
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.csv")

	c := newContainer(t, func(cfg *config.Config) { cfg.Data.File = missing })
	result, err := c.LoadConfiguredData(context.Background())
	require.NoError(t, err)
	assert.True(t, result.FellBack)
	assert.Equal(t, errors.CodeParseError, result.Notice.Code)

	strict := newContainer(t, func(cfg *config.Config) {
		cfg.Data.File = missing
		cfg.Data.FallbackToDemo = false
	})
	_, err = strict.LoadConfiguredData(context.Background())
	assert.True(t, errors.HasCode(err, errors.CodeParseError))
}

func TestServerOptions(t *testing.T) {
	c := newContainer(t, nil)
	opts := c.ServerOptions()
	assert.Equal(t, int64(32<<20), opts.MaxUploadBytes)
	assert.Equal(t, "Region", opts.RegionColumn)
	assert.True(t, opts.FallbackToDemo)

	s, err := c.NewServer()
	require.NoError(t, err)
	assert.NotNil(t, s.Handler())
}
