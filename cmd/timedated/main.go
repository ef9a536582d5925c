// Package main is the entry point for the timedated daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/timedated/internal/config"
	"github.com/jmylchreest/timedated/internal/daemon"
	"github.com/jmylchreest/timedated/internal/dbus"
	"github.com/jmylchreest/timedated/internal/keyfile"
	"github.com/jmylchreest/timedated/internal/timezone"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the daemon config file")
	session := flag.Bool("session", false, "Use the session bus instead of the system bus (testing)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("timedated version", version)
		os.Exit(0)
	}

	cfg, err := config.LoadDaemonConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *session {
		cfg.Bus.Type = string(config.BusSession)
	}

	// Set up structured logging
	level := cfg.Level()
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	os.Exit(run(cfg, logger))
}

// run starts the daemon and returns the process exit code.
func run(cfg *config.DaemonConfig, logger *slog.Logger) int {
	logger.Info("starting timedated", "version", version, "bus", cfg.Bus.Type, "name", cfg.Bus.Name)

	tz := readTimezone(cfg, logger)

	var reload func() (string, bool)
	var changes <-chan struct{}
	if cfg.Reload.Watch {
		watcher, err := daemon.NewConfigWatcher(cfg.Paths.RCConf, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		} else {
			defer func() { _ = watcher.Stop() }()
			changes = watcher.Changes()
			reload = func() (string, bool) {
				return keyfile.Read(cfg.Paths.RCConf, cfg.Paths.Key)
			}
		}
	}

	reg := daemon.NewRegistrar(daemon.Options{
		Name:      cfg.Bus.Name,
		Timezone:  tz,
		Reload:    reload,
		Readiness: readiness(cfg, logger),
		Logger:    logger,
	})

	dial := func() (daemon.Bus, error) {
		server, err := dbus.Connect(cfg.Bus.Type == string(config.BusSession), cfg.Bus.Path, logger)
		if err != nil {
			return nil, err
		}
		return server, nil
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := daemon.Run(ctx, dial, reg, changes)

	var fatal *daemon.FatalError
	if errors.As(err, &fatal) {
		// Already logged by the registrar.
		return 1
	}
	if err != nil {
		logger.Warn("errors during shutdown", "error", err)
	}
	logger.Info("timedated stopped")
	return 0
}

// readTimezone reads the configured timezone and cross-checks it against
// the active zone file. Both failures are warnings: the value is
// published best effort.
func readTimezone(cfg *config.DaemonConfig, logger *slog.Logger) string {
	tz, ok := keyfile.Read(cfg.Paths.RCConf, cfg.Paths.Key)
	if !ok {
		logger.Warn("unable to read timezone", "path", cfg.Paths.RCConf, "key", cfg.Paths.Key)
		return ""
	}

	if err := timezone.Check(cfg.Paths.Localtime, cfg.Paths.ZoneinfoDir, tz); err != nil {
		logger.Warn("timezone cross-check failed", "timezone", tz, "error", err)
	}
	return tz
}

func readiness(cfg *config.DaemonConfig, logger *slog.Logger) daemon.Readiness {
	var rs daemon.Readinesses
	if cfg.Readiness.PIDFile {
		rs = append(rs, daemon.NewPIDFile(cfg.Paths.PIDFile))
	}
	if cfg.Readiness.SdNotify {
		rs = append(rs, daemon.NewSystemdNotifier(logger))
	}
	return rs
}
