package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, 30*time.Second, cfg.Warehouse.QueryTimeout)
	require.Equal(t, 4, cfg.Warehouse.MetadataConcurrency)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9100
  log_level: debug
warehouse:
  project_id: proj
  dataset: plant_data
  user_table: users
  permission_table: permissions
  query_timeout: 10s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "proj", cfg.Warehouse.ProjectID)
	require.Equal(t, 10*time.Second, cfg.Warehouse.QueryTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidateReportsMissingWarehouseSettings(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "warehouse.project_id")
	require.Contains(t, err.Error(), "warehouse.permission_table")
}

func TestConfigureLoggingEmptyLevel(t *testing.T) {
	require.NoError(t, ConfigureLogging(""))
	require.NoError(t, ConfigureLogging("warn"))
}
