package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	chdir(t, dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	writeConfig(t, "catalog:\n  sources: [dev, staging]\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"dev", "staging"}, cfg.Catalog.Sources)
	assert.Equal(t, ItemFormatJSON, cfg.Catalog.ItemFormat)
	assert.Equal(t, 4, cfg.Catalog.MaxWorkers)
	assert.Equal(t, 300, cfg.Catalog.RefreshInterval)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "catalog_indexer", cfg.Redis.ConsumerGroup)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	writeConfig(t, "catalog:\n  base_url: http://catalog.local\n")
	t.Setenv("CATALOG_BASE_URL", "http://override.local")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://override.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestLoadRejectsUnknownItemFormat(t *testing.T) {
	writeConfig(t, "catalog:\n  item_format: xml\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_format")
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml file not found")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, Name: "catalog", User: "u", Password: "p"}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=catalog sslmode=disable", d.DSN())
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
