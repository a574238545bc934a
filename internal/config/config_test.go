package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", true)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, ":9090", cfg.Server.GRPCAddr)
	assert.True(t, cfg.Server.GRPCEnabled)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "vf_session", cfg.Session.CookieName)
	assert.Equal(t, 960, cfg.Chart.Width)
	assert.Equal(t, 480, cfg.Chart.Height)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VF_SERVER_HTTP_ADDR", ":18080")
	t.Setenv("VF_SERVER_GRPC_ENABLED", "false")
	t.Setenv("VF_SESSION_TTL", "30m")
	t.Setenv("VF_LOG_LEVEL", "debug")

	cfg, err := Load("", true)
	require.NoError(t, err)

	assert.Equal(t, ":18080", cfg.Server.HTTPAddr)
	assert.False(t, cfg.Server.GRPCEnabled)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  env: prod
server:
  http_addr: ":7000"
log:
  encoding: json
  development: false
chart:
  width: 1200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, ":7000", cfg.Server.HTTPAddr)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, 1200, cfg.Chart.Width)
	assert.Equal(t, 480, cfg.Chart.Height, "unset keys keep their default")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	assert.Error(t, err)
}

func TestLoad_InvalidChartSize(t *testing.T) {
	t.Setenv("VF_CHART_WIDTH", "0")

	_, err := Load("", true)

	assert.ErrorContains(t, err, "chart size")
}
