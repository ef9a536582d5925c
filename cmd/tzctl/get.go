package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/timedated/internal/keyfile"
)

// errNotSet makes tzctl exit non-zero without printing usage.
var errNotSet = errors.New("timezone not set")

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the configured timezone",
	Long: `Print the timezone stored in the configuration file.

Exits with status 1 when the key is missing or the file does not exist.`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	tz, ok := keyfile.Read(cfg.Paths.RCConf, cfg.Paths.Key)
	if !ok {
		logger.Debug("key not found", "path", cfg.Paths.RCConf, "key", cfg.Paths.Key)
		return fmt.Errorf("%w in %s", errNotSet, cfg.Paths.RCConf)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tz)
	return nil
}
