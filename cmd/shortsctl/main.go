package main

import (
	"os"
	"short-video-agent/cli"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "shortsctl",
		Short:        "Command line client for the short video agent",
		SilenceUsage: true,
	}

	cli.RegisterCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
