package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/Reel/internal"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the artifact janitor",
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return reel.Run(ctx)
	},
}
