package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingReturnsNil(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = Load("  ")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadParses(t *testing.T) {
	path := writeConfig(t, `
maxIdleSeconds: 600
probeTimeoutMs: 250
runtimeDir: /tmp/rt
logLevel: debug
editors:
  cursor:
    binary: /opt/cursor/bin/cursor
hosts:
  devbox:
    home: /data/alice
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 600, cfg.MaxIdleSeconds)
	assert.Equal(t, "/opt/cursor/bin/cursor", cfg.EditorBinary("cursor"))
	assert.Empty(t, cfg.EditorBinary("vscode"))
	assert.Equal(t, "/data/alice", cfg.HostHome("devbox"))
	assert.Empty(t, cfg.HostHome("gpu"))
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "maxIdleSeconds: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{MaxIdleSeconds: 60, Hosts: map[string]*Host{"devbox": {Home: "/home/alice"}}}
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/alice", got.HostHome("devbox"))

	var nilCfg *Config
	assert.Error(t, nilCfg.Save(path))
	assert.Empty(t, nilCfg.EditorBinary("vscode"))
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/4242")
	t.Setenv("RCODE_LOG_LEVEL", "")
	home := t.TempDir()

	s, err := Resolve(home, Overrides{ConfigPath: filepath.Join(home, "missing.yaml")})
	require.NoError(t, err)
	assert.Nil(t, s.Config)
	assert.Equal(t, 4*time.Hour, s.MaxIdle)
	assert.Equal(t, time.Second, s.ProbeTimeout)
	assert.Equal(t, "/run/user/4242", s.RuntimeDir)
	assert.Equal(t, "vscode-ipc-*.sock", s.SocketPattern)
	assert.Equal(t, filepath.Join(home, ".rcode"), s.SessionLog)
	assert.Equal(t, filepath.Join(home, ".ssh", "config"), s.SSHConfig)
	assert.Empty(t, s.LogLevel)
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("RCODE_LOG_LEVEL", "error")
	path := writeConfig(t, "maxIdleSeconds: 600\nlogLevel: info\nsessionLog: /tmp/rcode.log\n")

	s, err := Resolve(t.TempDir(), Overrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, s.MaxIdle)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "/tmp/rcode.log", s.SessionLog)

	s, err = Resolve(t.TempDir(), Overrides{ConfigPath: path, MaxIdle: time.Minute, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.MaxIdle)
	assert.Equal(t, "debug", s.LogLevel)

	s, err = Resolve(t.TempDir(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "error", s.LogLevel)
}

func TestResolveRequiresHome(t *testing.T) {
	_, err := Resolve("", Overrides{})
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("RCODE_CONFIG", "")
	t.Setenv("RCODE_HOME", "/etc/rcode")
	assert.Equal(t, "/etc/rcode/config.yaml", DefaultConfigPath())

	t.Setenv("RCODE_CONFIG", "/tmp/c.yaml")
	assert.Equal(t, "/tmp/c.yaml", DefaultConfigPath())
}
