package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/timedated/internal/keyfile"
	"github.com/jmylchreest/timedated/internal/timezone"
)

var setOpts struct {
	force bool // Skip the zone database lookup
}

var setCmd = &cobra.Command{
	Use:   "set ZONE",
	Short: "Change the configured timezone",
	Long: `Change the timezone stored in the configuration file.

Only existing assignments are updated and every other line is kept as is;
if the file has no line for the key, nothing is written. The zone must exist
in the zone database unless --force is given.

The running daemon picks the change up only when [reload] watch is enabled;
otherwise restart timedated.

Examples:
  tzctl set Europe/Warsaw
  tzctl set --force Etc/Custom`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().BoolVar(&setOpts.force, "force", false,
		"Do not require the zone to exist in the zone database")
}

func runSet(cmd *cobra.Command, args []string) error {
	tz := args[0]

	if err := timezone.ValidateName(tz); err != nil {
		return err
	}
	if !setOpts.force {
		if err := timezone.Exists(cfg.Paths.ZoneinfoDir, tz); err != nil {
			return err
		}
	}

	if _, ok := keyfile.Read(cfg.Paths.RCConf, cfg.Paths.Key); !ok {
		return fmt.Errorf("%s has no %s= line; not changing it", cfg.Paths.RCConf, cfg.Paths.Key)
	}

	if err := keyfile.Write(cfg.Paths.RCConf, cfg.Paths.Key, tz); err != nil {
		return err
	}

	logger.Debug("timezone written", "path", cfg.Paths.RCConf, "timezone", tz)
	fmt.Fprintf(cmd.OutOrStdout(), "Timezone set to %s\n", tz)
	return nil
}
