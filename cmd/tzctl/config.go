package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/timedated/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the timedated configuration file",
}

var configInitOpts struct {
	force bool // Overwrite an existing file
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default timedated configuration to the --config path
(default: ` + config.DefaultConfigPath + `).

An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitOpts.force, "force", false,
		"Overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := globalOpts.configPath
	if path == "" {
		path = config.DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if !configInitOpts.force {
			return fmt.Errorf("%s already exists; use --force to overwrite", path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := config.SaveDaemonConfig(config.DefaultDaemonConfig(), path); err != nil {
		return err
	}

	logger.Debug("config written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
