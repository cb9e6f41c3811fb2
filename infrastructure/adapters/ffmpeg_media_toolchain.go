package adapters

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"
	"strconv"
	"strings"
)

const maxDiagnosticBytes = 4096

var (
	errNoInputs    = errors.New("no input files")
	errEmptyOutput = errors.New("output file missing or empty")
)

type ffmpegMediaToolchain struct {
	logger      outbound.LoggerPort
	transcriber outbound.TranscriberPort
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpegMediaToolchain(logger outbound.LoggerPort, transcriber outbound.TranscriberPort, ffmpegPath string, ffprobePath string) outbound.MediaToolchainPort {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ffmpegMediaToolchain{
		logger:      logger,
		transcriber: transcriber,
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

func (f *ffmpegMediaToolchain) ExtractAudio(ctx context.Context, videoFileName string, outputFileName string) error {
	return f.ffmpeg(ctx, "extract_audio", outputFileName,
		"-i", videoFileName, "-vn", "-c:a", "libmp3lame", "-q:a", "2", outputFileName)
}

func (f *ffmpegMediaToolchain) ProbeDuration(ctx context.Context, fileName string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath, "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", fileName)

	out, err := cmd.Output()
	if err != nil {
		diagnostic := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			diagnostic = truncate(string(exitErr.Stderr))
		}
		f.logger.ErrorWithFields(err, "error getting media duration", map[string]interface{}{
			"file":   fileName,
			"output": diagnostic,
		})
		return 0, &domain.MediaProcessingError{Op: "probe_duration", Output: diagnostic, Err: err}
	}

	return parseDuration(string(out)), nil
}

func (f *ffmpegMediaToolchain) LoopAndBindAudio(ctx context.Context, videoFileName string, audioFileName string, targetDuration float64, outputFileName string) error {
	return f.ffmpeg(ctx, "loop_and_bind", outputFileName,
		"-stream_loop", "-1", "-i", videoFileName,
		"-i", audioFileName,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k",
		"-t", formatSeconds(targetDuration),
		outputFileName)
}

func (f *ffmpegMediaToolchain) MergeAudioVideo(ctx context.Context, videoFileName string, audioFileName string, outputFileName string) error {
	return f.ffmpeg(ctx, "merge", outputFileName,
		"-i", videoFileName,
		"-i", audioFileName,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "192k",
		"-shortest",
		outputFileName)
}

func (f *ffmpegMediaToolchain) AdjustAudioSpeed(ctx context.Context, audioFileName string, factor float64, outputFileName string) error {
	filter, err := atempoChain(factor)
	if err != nil {
		return &domain.MediaProcessingError{Op: "adjust_speed", Err: err}
	}
	return f.ffmpeg(ctx, "adjust_speed", outputFileName,
		"-i", audioFileName, "-filter:a", filter, outputFileName)
}

// Concatenate joins the inputs in the given order. Inputs are re-encoded so
// clips with different codecs or timebases can be joined.
func (f *ffmpegMediaToolchain) Concatenate(ctx context.Context, videoFileNames []string, outputFileName string) error {
	if len(videoFileNames) == 0 {
		return &domain.MediaProcessingError{Op: "concatenate", Err: errNoInputs}
	}

	args := make([]string, 0, len(videoFileNames)*2+12)
	var filter strings.Builder
	for i, name := range videoFileNames {
		args = append(args, "-i", name)
		fmt.Fprintf(&filter, "[%d:v][%d:a]", i, i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=1[v][a]", len(videoFileNames))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[v]", "-map", "[a]",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k",
		outputFileName)
	return f.ffmpeg(ctx, "concatenate", outputFileName, args...)
}

func (f *ffmpegMediaToolchain) BurnSubtitles(ctx context.Context, videoFileName string, subtitleFileName string, outputFileName string) error {
	return f.ffmpeg(ctx, "burn_subtitles", outputFileName,
		"-i", videoFileName,
		"-vf", "subtitles=filename="+escapeFilterValue(subtitleFileName),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "copy",
		outputFileName)
}

func (f *ffmpegMediaToolchain) TranscribeToSubtitles(ctx context.Context, audioFileName string, outputFileName string) error {
	srt, err := f.transcriber.Transcribe(ctx, audioFileName)
	if err != nil {
		return &domain.MediaProcessingError{Op: "transcribe", Err: err}
	}
	if err := os.WriteFile(outputFileName, []byte(srt), 0644); err != nil {
		return &domain.MediaProcessingError{Op: "transcribe", Err: err}
	}
	return nil
}

func (f *ffmpegMediaToolchain) ffmpeg(ctx context.Context, op string, outputFileName string, args ...string) error {
	fullArgs := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, args...)
	cmd := exec.CommandContext(ctx, f.ffmpegPath, fullArgs...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		diagnostic := truncate(string(out))
		f.logger.ErrorWithFields(err, "ffmpeg command failed", map[string]interface{}{
			"op":     op,
			"output": diagnostic,
		})
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return &domain.MediaProcessingError{Op: op, Output: diagnostic, Err: err}
	}

	info, err := os.Stat(outputFileName)
	if err != nil || info.Size() == 0 {
		return &domain.MediaProcessingError{Op: op, Output: outputFileName, Err: errEmptyOutput}
	}
	return nil
}

// parseDuration returns 0 when ffprobe reports N/A or anything that is not a
// finite, non-negative number.
func parseDuration(raw string) float64 {
	duration, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return 0
	}
	return duration
}

// atempoChain splits factor into atempo stages, each within 0.5 and 2.0.
func atempoChain(factor float64) (string, error) {
	if factor <= 0 {
		return "", fmt.Errorf("invalid speed factor %v", factor)
	}
	stages := make([]string, 0, 2)
	for factor > 2.0 {
		stages = append(stages, "atempo=2.0")
		factor /= 2.0
	}
	for factor < 0.5 {
		stages = append(stages, "atempo=0.5")
		factor /= 0.5
	}
	stages = append(stages, "atempo="+strconv.FormatFloat(factor, 'f', 6, 64))
	return strings.Join(stages, ","), nil
}

// ffmpeg unescapes a -vf value twice: once as a filter graph, then once more
// as the filter's option list.
var (
	filterOptionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	filterGraphEscaper  = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`,`, `\,`,
		`[`, `\[`,
		`]`, `\]`,
		`;`, `\;`,
	)
)

func escapeFilterValue(value string) string {
	return filterGraphEscaper.Replace(filterOptionEscaper.Replace(value))
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxDiagnosticBytes {
		return s
	}
	return s[len(s)-maxDiagnosticBytes:]
}
