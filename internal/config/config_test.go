package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDaemonConfig(t *testing.T) {
	cfg := DefaultDaemonConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/etc/rc.conf", cfg.Paths.RCConf)
	assert.Equal(t, "timezone", cfg.Paths.Key)
	assert.Equal(t, "/etc/localtime", cfg.Paths.Localtime)
	assert.Equal(t, "/usr/share/zoneinfo", cfg.Paths.ZoneinfoDir)
	assert.Equal(t, "/run/timedate1.pid", cfg.Paths.PIDFile)
	assert.Equal(t, "system", cfg.Bus.Type)
	assert.Equal(t, "org.freedesktop.timedate1", cfg.Bus.Name)
	assert.Equal(t, "/org/freedesktop/timedate1", cfg.Bus.Path)
	assert.True(t, cfg.Readiness.PIDFile)
	assert.True(t, cfg.Readiness.SdNotify)
	assert.False(t, cfg.Reload.Watch)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDaemonConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadDaemonConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDaemonConfig(), cfg)
}

func TestLoadDaemonConfig_ParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timedated.toml")
	content := `
log_level = "debug"

[paths]
rc_conf = "/tmp/rc.conf"
pid_file = "/tmp/timedate1.pid"

[bus]
type = "session"

[readiness]
sd_notify = false

[reload]
watch = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadDaemonConfig(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "/tmp/rc.conf", cfg.Paths.RCConf)
	assert.Equal(t, "/tmp/timedate1.pid", cfg.Paths.PIDFile)
	// Unset keys keep their defaults
	assert.Equal(t, "timezone", cfg.Paths.Key)
	assert.Equal(t, "/etc/localtime", cfg.Paths.Localtime)
	assert.Equal(t, "session", cfg.Bus.Type)
	assert.Equal(t, "org.freedesktop.timedate1", cfg.Bus.Name)
	assert.True(t, cfg.Readiness.PIDFile)
	assert.False(t, cfg.Readiness.SdNotify)
	assert.True(t, cfg.Reload.Watch)
}

func TestLoadDaemonConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timedated.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \n"), 0644))

	_, err := LoadDaemonConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadDaemonConfig_ValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timedated.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bus]\ntype = \"tcp\"\n"), 0644))

	_, err := LoadDaemonConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *DaemonConfig)
		wantErr string
	}{
		{"bad log level", func(c *DaemonConfig) { c.LogLevel = "loud" }, "invalid log level"},
		{"bad bus type", func(c *DaemonConfig) { c.Bus.Type = "tcp" }, "invalid bus type"},
		{"single element bus name", func(c *DaemonConfig) { c.Bus.Name = "timedate1" }, "at least two elements"},
		{"unique bus name", func(c *DaemonConfig) { c.Bus.Name = ":1.42" }, "invalid bus name"},
		{"digit leading element", func(c *DaemonConfig) { c.Bus.Name = "org.1timedate" }, "invalid bus name"},
		{"bad object path", func(c *DaemonConfig) { c.Bus.Path = "org/freedesktop" }, "invalid object path"},
		{"empty key", func(c *DaemonConfig) { c.Paths.Key = "" }, "invalid key"},
		{"key with equals", func(c *DaemonConfig) { c.Paths.Key = "a=b" }, "invalid key"},
		{"relative rc_conf", func(c *DaemonConfig) { c.Paths.RCConf = "rc.conf" }, "rc_conf must be an absolute path"},
		{"relative pid file", func(c *DaemonConfig) { c.Paths.PIDFile = "run/x.pid" }, "pid_file must be an absolute path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDaemonConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveDaemonConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "timedated.toml")
	cfg := DefaultDaemonConfig()
	cfg.Reload.Watch = true
	cfg.Paths.RCConf = "/srv/rc.conf"

	require.NoError(t, SaveDaemonConfig(cfg, path))

	loaded, err := LoadDaemonConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
