package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JACKFIELD_CONFIG_DIR", dir)
	t.Setenv("JACKFIELD_LOG_LEVEL", "debug")
	t.Setenv("JACKFIELD_EXPORT_DPI", "600")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), env.ConfigPath())

	cfg := model.DefaultAppConfig()
	env.Apply(&cfg)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 600.0, cfg.ExportDPI)
}

func TestLoadEnvUnsetKeepsConfig(t *testing.T) {
	for _, key := range []string{"JACKFIELD_CONFIG_DIR", "JACKFIELD_LOG_LEVEL", "JACKFIELD_LOG_FILE", "JACKFIELD_EXPORT_DPI"} {
		t.Setenv(key, "") // restored after the test
		require.NoError(t, os.Unsetenv(key))
	}

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigPath(), env.ConfigPath())

	cfg := model.DefaultAppConfig()
	env.Apply(&cfg)
	assert.Equal(t, model.DefaultAppConfig(), cfg)
}

func TestLoadEnvBadNumber(t *testing.T) {
	t.Setenv("JACKFIELD_EXPORT_DPI", "lots")
	_, err := LoadEnv()
	assert.Error(t, err)
}
