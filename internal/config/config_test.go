package config

import (
	"os"
	"path/filepath"
	"testing"

	"cancerscope/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "GIN_MODE", "LOG_LEVEL", "DATA_FILE"} {
		t.Setenv(key, "")
	}
	// run from an empty directory so no ./cancerscope.yaml is picked up
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CANCERSCOPE_DEMO_SEED", "7")
	t.Setenv("CANCERSCOPE_ANALYSIS_CACHE_SIZE", "16")
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_FILE", "counties.xlsx")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.Demo.Seed)
	assert.Equal(t, 16, c.Analysis.CacheSize)
	assert.Equal(t, "9090", c.Server.Port)
	assert.Equal(t, "counties.xlsx", c.Data.File)
}

func TestLoadPrefixedWinsOverLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CANCERSCOPE_SERVER_PORT", "7070")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7070", c.Server.Port)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  rows: 250\ndata:\n  region_column: Area\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, c.Demo.Rows)
	assert.Equal(t, "Area", c.Data.RegionColumn)
	assert.Equal(t, int64(42), c.Demo.Seed)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, WriteDefault(path))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CANCERSCOPE_DEMO_ROWS", "-1")
	_, err := Load("")
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))

	t.Setenv("CANCERSCOPE_DEMO_ROWS", "")
	t.Setenv("GIN_MODE", "loud")
	_, err = Load("")
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}
