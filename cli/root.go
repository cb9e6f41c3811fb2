package cli

import (
	"github.com/spf13/cobra"
)

// RegisterCommands adds all shortsctl commands to the root command.
func RegisterCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewProbeCommand())
}
