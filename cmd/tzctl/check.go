package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/timedated/internal/keyfile"
	"github.com/jmylchreest/timedated/internal/timezone"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare /etc/localtime with the configured zone",
	Long: `Compare the active zone file with the zone database entry for the
configured timezone and report whether they agree.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	tz, ok := keyfile.Read(cfg.Paths.RCConf, cfg.Paths.Key)
	if !ok {
		return fmt.Errorf("%w in %s", errNotSet, cfg.Paths.RCConf)
	}

	if err := timezone.Check(cfg.Paths.Localtime, cfg.Paths.ZoneinfoDir, tz); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s matches %s\n", cfg.Paths.Localtime,
		timezone.ZonePath(cfg.Paths.ZoneinfoDir, tz))
	return nil
}
