package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Accel.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "textproc", cfg.Server.Name)
	assert.Positive(t, cfg.Batch.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvAccel, "")

	path := writeConfig(t, `
log:
  level: debug
  format: json
accel:
  enabled: false
server:
  tool_timeout: 5s
batch:
  concurrency: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Accel.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Server.ToolTimeout)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "textproc", cfg.Server.Name)
}

func TestLoadTOMLFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvAccel, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "info"

[accel]
enabled = false

[server]
name = "tp"
tool_timeout = 2000000000

[batch]
concurrency = 3
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Accel.Enabled)
	assert.Equal(t, "tp", cfg.Server.Name)
	assert.Equal(t, 2*time.Second, cfg.Server.ToolTimeout)
	assert.Equal(t, 3, cfg.Batch.Concurrency)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "accel:\n  enabled: true\n")
	t.Setenv(EnvAccel, "off")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Accel.Enabled)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvAccel, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvAccel, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Accel, cfg.Accel)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvLogLevel, "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  format: xml\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  level: verbos\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = Load(writeConfig(t, "batch:\n  concurrency: 0\n"))
	assert.Error(t, err)
}

func TestParseSwitch(t *testing.T) {
	assert.False(t, parseSwitch("off", true))
	assert.False(t, parseSwitch("0", true))
	assert.False(t, parseSwitch("FALSE", true))
	assert.True(t, parseSwitch("on", false))
	assert.True(t, parseSwitch("1", false))
	assert.True(t, parseSwitch("maybe", true))
	assert.False(t, parseSwitch("maybe", false))
}
