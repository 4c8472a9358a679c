// Package cli implements the command-line interface for Reel.
package cli

import (
	"fmt"
	"os"

	"github.com/hbomb79/Reel/internal"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file (environment variables take precedence)")
	lo.Must0(rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml"))

	rootCmd.AddCommand(serveCmd, infoCmd, sweepCmd)
}

var rootCmd = &cobra.Command{
	Use:           "reel",
	Short:         "Video metadata extraction and download service",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Log lines go to stderr so that command output (e.g. the JSON printed
	// by 'info') can be piped.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

// Execute runs the root command, exiting the process with a non-zero status
// if the command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func bootstrap() (*internal.ReelConfig, error) {
	config, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	return &config, nil
}
