package cli

import (
	"fmt"

	"github.com/hbomb79/Reel/internal"
	"github.com/labstack/gommon/bytes"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired artifacts from the download directory once, then exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := bootstrap()
		if err != nil {
			return err
		}

		reel, err := internal.New(*config)
		if err != nil {
			return err
		}

		report := reel.Janitor().Sweep()
		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, removed %d (%s freed), failed %d\n",
			report.Scanned, report.Removed, bytes.Format(report.Freed), report.Failed)

		return nil
	},
}
