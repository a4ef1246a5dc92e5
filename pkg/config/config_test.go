package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pedidos-api", cfg.App.Name)
	assert.Equal(t, ":3000", cfg.App.HTTPAddr)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, 1.0, cfg.Otel.Probability)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  http_addr: ":8080"
  log_level: debug
redis:
  addr: "localhost:6379"
`), 0o600))

	t.Setenv("PEDIDOS_APP__HTTP_ADDR", ":9090")
	t.Setenv("PEDIDOS_IDEMPOTENCY__TTL", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.App.HTTPAddr = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Otel.Probability = 2
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Idempotency.TTL = 0
	assert.Error(t, bad.Validate())
}
