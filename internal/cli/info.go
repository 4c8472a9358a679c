package cli

import (
	"encoding/json"

	"github.com/hbomb79/Reel/internal"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Extract and print the metadata for a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := bootstrap()
		if err != nil {
			return err
		}

		reel, err := internal.New(*config)
		if err != nil {
			return err
		}

		metadata, err := reel.Service().GetInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(metadata)
	},
}
