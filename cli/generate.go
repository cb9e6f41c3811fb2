package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"short-video-agent/domain"
	"strings"

	"github.com/donovanhide/eventsource"
	"github.com/spf13/cobra"
)

var errStreamEnded = errors.New("progress stream ended before a terminal event")

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Start a video run and follow its progress",
		RunE:  runGenerate,
	}

	cmd.Flags().StringP("topic", "t", "", "Topic of the video (required)")
	cmd.Flags().StringP("server", "s", "http://localhost:8080", "Agent server base URL")
	cmd.Flags().String("token", "", "Bearer token, defaults to $SHORTSCTL_TOKEN")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("SHORTSCTL_TOKEN")
	}

	final, err := FollowRun(cmd.Context(), server, token, topic, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "video: %s\n", final.Message)
	return nil
}

// FollowRun starts a run on the agent server and prints every progress event
// to w. It returns the completed event, or an error for a failed run.
func FollowRun(ctx context.Context, server string, token string, topic string, w io.Writer) (*domain.ProgressEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(map[string]string{"topic": topic})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(server, "/")+"/api/v1/agents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		return nil, fmt.Errorf("subscribe to progress stream: %w", err)
	}
	defer stream.Close()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-stream.Events:
			var event domain.ProgressEvent
			if err := json.Unmarshal([]byte(ev.Data()), &event); err != nil {
				return nil, fmt.Errorf("decode progress event: %w", err)
			}
			fmt.Fprintf(w, "%-32s %s\n", event.Step, event.Message)

			switch event.Step {
			case domain.StepCompleted:
				return &event, nil
			case domain.StepFailed:
				return nil, fmt.Errorf("run failed: %s", event.Message)
			}
		case err := <-stream.Errors:
			if err == io.EOF {
				return nil, errStreamEnded
			}
			return nil, err
		}
	}
}
