package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func loadWithEnv(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg := NewConfig()
	return cfg, cfg.Load()
}

func TestLoadWithoutEnvFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := loadWithEnv(t, map[string]string{"GITHUB_TOKEN": "tok"})
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.GitHubToken)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	contents := "GITHUB_TOKEN=file-tok\nGHSTATS_WORKERS=7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600))
	chdir(t, dir)

	cfg, err := loadWithEnv(t, nil)
	require.NoError(t, err)
	assert.Equal(t, "file-tok", cfg.GitHubToken)
	assert.Equal(t, 7, cfg.Workers)
}

func TestLoadRequiresToken(t *testing.T) {
	_, err := loadWithEnv(t, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{"GITHUB_TOKEN": "tok"})
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.GitHubToken)
	assert.Equal(t, 3, cfg.EventPages)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 1000, cfg.SearchMaxTotal)
	assert.Equal(t, 2, cfg.SearchDelaySecs)
	assert.Empty(t, cfg.DatabaseDSN)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{
		"GITHUB_TOKEN":       "tok",
		"GHSTATS_WORKERS":    "8",
		"GHSTATS_RATE_LIMIT": "2",
		"GHSTATS_PAGE_SIZE":  "50",
		"GHSTATS_DB_DSN":     "postgres://localhost/ghstats",
	})
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 2, cfg.RateLimit)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "postgres://localhost/ghstats", cfg.DatabaseDSN)
}
