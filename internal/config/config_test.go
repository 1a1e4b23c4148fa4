package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsMissingDatabaseURL(t *testing.T) {
	cfg := Default()
	cfg.Database.URL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsExcessiveConns(t *testing.T) {
	cfg := Default()
	cfg.Database.MaxConns = 500
	assert.Error(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CMX_DATABASE_URL", "postgres://db:5432/test")
	t.Setenv("CMX_LOGGING_LEVEL", "debug")
	t.Setenv("CMX_OUTPUT_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://db:5432/test", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, "reports", cfg.Inputs.ReportsDir)
}

func TestLoadHonorsDatabaseURLFallback(t *testing.T) {
	t.Setenv("CMX_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "postgres://fallback:5432/test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://fallback:5432/test", cfg.Database.URL)
}
