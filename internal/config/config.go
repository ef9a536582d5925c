// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultConfigPath  = "/etc/timedated/timedated.toml"
	DefaultRCConf      = "/etc/rc.conf"
	DefaultKey         = "timezone"
	DefaultLocaltime   = "/etc/localtime"
	DefaultZoneinfoDir = "/usr/share/zoneinfo"
	DefaultPIDFile     = "/run/timedate1.pid"
	DefaultBusName     = "org.freedesktop.timedate1"
	DefaultObjectPath  = "/org/freedesktop/timedate1"
	DefaultLogLevel    = "info"
)

// BusType selects which message bus the daemon connects to.
type BusType string

const (
	BusSystem  BusType = "system"
	BusSession BusType = "session"
)

// ValidBusTypes returns all valid bus type values.
func ValidBusTypes() []BusType {
	return []BusType{BusSystem, BusSession}
}

// DaemonConfig is the configuration for timedated.
// Loaded from /etc/timedated/timedated.toml
type DaemonConfig struct {
	LogLevel  string          `toml:"log_level"` // debug, info, warn, error
	Paths     PathsConfig     `toml:"paths"`
	Bus       BusConfig       `toml:"bus"`
	Readiness ReadinessConfig `toml:"readiness"`
	Reload    ReloadConfig    `toml:"reload"`
}

// PathsConfig locates the files the daemon reads and writes.
type PathsConfig struct {
	RCConf      string `toml:"rc_conf"`      // Key-file holding the timezone
	Key         string `toml:"key"`          // Key looked up in rc_conf
	Localtime   string `toml:"localtime"`    // Active zone file
	ZoneinfoDir string `toml:"zoneinfo_dir"` // Zone database root
	PIDFile     string `toml:"pid_file"`     // Readiness marker
}

// BusConfig contains the service identity on the bus.
type BusConfig struct {
	Type string `toml:"type"` // "system" or "session"
	Name string `toml:"name"` // Well-known name to own
	Path string `toml:"path"` // Object path of the exported interface
}

// ReadinessConfig selects how readiness is reported to a supervisor.
type ReadinessConfig struct {
	PIDFile  bool `toml:"pid_file"`  // Write the pid to Paths.PIDFile
	SdNotify bool `toml:"sd_notify"` // Send READY=1 when NOTIFY_SOCKET is set
}

// ReloadConfig controls re-reading rc_conf while running.
type ReloadConfig struct {
	Watch bool `toml:"watch"`
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		LogLevel: DefaultLogLevel,
		Paths: PathsConfig{
			RCConf:      DefaultRCConf,
			Key:         DefaultKey,
			Localtime:   DefaultLocaltime,
			ZoneinfoDir: DefaultZoneinfoDir,
			PIDFile:     DefaultPIDFile,
		},
		Bus: BusConfig{
			Type: string(BusSystem),
			Name: DefaultBusName,
			Path: DefaultObjectPath,
		},
		Readiness: ReadinessConfig{
			PIDFile:  true,
			SdNotify: true,
		},
		Reload: ReloadConfig{
			Watch: false,
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path.
// If path is empty, DefaultConfigPath is used. A missing file yields the
// default configuration.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig writes the configuration to path.
func SaveDaemonConfig(config *DaemonConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	validBus := false
	for _, b := range ValidBusTypes() {
		if c.Bus.Type == string(b) {
			validBus = true
			break
		}
	}
	if !validBus {
		return fmt.Errorf("invalid bus type %q, must be one of: %v", c.Bus.Type, ValidBusTypes())
	}

	if err := validateBusName(c.Bus.Name); err != nil {
		return err
	}
	if !dbus.ObjectPath(c.Bus.Path).IsValid() {
		return fmt.Errorf("invalid object path %q", c.Bus.Path)
	}

	if c.Paths.Key == "" || strings.ContainsAny(c.Paths.Key, "=\n") {
		return fmt.Errorf("invalid key %q", c.Paths.Key)
	}

	paths := map[string]string{
		"rc_conf":      c.Paths.RCConf,
		"localtime":    c.Paths.Localtime,
		"zoneinfo_dir": c.Paths.ZoneinfoDir,
		"pid_file":     c.Paths.PIDFile,
	}
	for name, p := range paths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("%s must be an absolute path, got %q", name, p)
		}
	}

	return nil
}

// Level returns the configured slog level.
func (c *DaemonConfig) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
}

// validateBusName checks a well-known bus name: at least two dot-separated
// elements of [A-Za-z0-9_-], none starting with a digit, at most 255 bytes.
func validateBusName(name string) error {
	if name == "" || len(name) > 255 || strings.HasPrefix(name, ":") {
		return fmt.Errorf("invalid bus name %q", name)
	}
	elements := strings.Split(name, ".")
	if len(elements) < 2 {
		return fmt.Errorf("invalid bus name %q: needs at least two elements", name)
	}
	for _, el := range elements {
		if el == "" || (el[0] >= '0' && el[0] <= '9') {
			return fmt.Errorf("invalid bus name %q", name)
		}
		for _, r := range el {
			ok := r == '_' || r == '-' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !ok {
				return fmt.Errorf("invalid bus name %q", name)
			}
		}
	}
	return nil
}
