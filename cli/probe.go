package cli

import (
	"fmt"
	"io"
	"short-video-agent/infrastructure/adapters"

	"github.com/spf13/cobra"
)

// NewProbeCommand creates the probe command
func NewProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Print media durations as seen by the merge policy",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProbe,
	}

	cmd.Flags().String("ffprobe", "ffprobe", "Path to the ffprobe binary")

	return cmd
}

func runProbe(cmd *cobra.Command, args []string) error {
	ffprobePath, _ := cmd.Flags().GetString("ffprobe")
	media := adapters.NewFFmpegMediaToolchain(adapters.NewZerologWrapperFor(io.Discard, "error"), nil, "", ffprobePath)

	for _, fileName := range args {
		duration, err := media.ProbeDuration(cmd.Context(), fileName)
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}
		if duration == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tunknown\n", fileName)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.3fs\n", fileName, duration)
	}
	return nil
}
