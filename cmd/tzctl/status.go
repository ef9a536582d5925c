package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/timedated/internal/adapter/output"
	"github.com/jmylchreest/timedated/internal/config"
	"github.com/jmylchreest/timedated/internal/dbus"
	"github.com/jmylchreest/timedated/internal/keyfile"
	"github.com/jmylchreest/timedated/internal/timezone"
)

var statusOpts struct {
	format string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the published and configured timezone",
	Long: `Show the Timezone property published by timedated next to the value in
the configuration file, the daemon's readiness marker, and the result of the
/etc/localtime cross-check.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", string(output.FormatPlain),
		fmt.Sprintf("Output format %v", output.ValidFormats()))
}

func runStatus(cmd *cobra.Command, args []string) error {
	format := output.FormatType(statusOpts.format)
	valid := false
	for _, f := range output.ValidFormats() {
		if f == format {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format %q, must be one of: %v", statusOpts.format, output.ValidFormats())
	}

	status := collectStatus(cfg, dialSource)
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), status)
}

// timezoneSource is the part of the bus client the status report needs.
type timezoneSource interface {
	Timezone() (string, error)
	Close() error
}

type sourceDialer func(cfg *config.DaemonConfig) (timezoneSource, error)

var dialSource sourceDialer = dialClient

func dialClient(cfg *config.DaemonConfig) (timezoneSource, error) {
	client, err := dbus.NewClient(cfg.Bus.Type == string(config.BusSession), cfg.Bus.Name, cfg.Bus.Path)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// collectStatus gathers everything the status report shows. Individual
// failures are recorded in the report rather than returned.
func collectStatus(cfg *config.DaemonConfig, dial sourceDialer) *output.Status {
	status := &output.Status{ConfigPath: cfg.Paths.RCConf}

	status.Configured, status.ConfigPresent = keyfile.Read(cfg.Paths.RCConf, cfg.Paths.Key)
	if status.ConfigPresent {
		if err := timezone.Check(cfg.Paths.Localtime, cfg.Paths.ZoneinfoDir, status.Configured); err != nil {
			status.LocaltimeError = err.Error()
		}
	}

	source, err := dial(cfg)
	if err != nil {
		status.BusError = err.Error()
	} else {
		defer func() { _ = source.Close() }()
		if tz, err := source.Timezone(); err != nil {
			status.BusError = err.Error()
		} else {
			status.Published = tz
		}
	}

	if info, err := os.Stat(cfg.Paths.PIDFile); err == nil {
		data, err := os.ReadFile(cfg.Paths.PIDFile)
		if err == nil {
			if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
				status.PID = pid
				modTime := info.ModTime()
				status.ReadySince = &modTime
			}
		}
	} else {
		logger.Debug("no readiness marker", "path", cfg.Paths.PIDFile, "error", err)
	}

	return status
}
