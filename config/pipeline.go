package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	LoopVideoMergePolicy    = "loop-video"
	StretchAudioMergePolicy = "stretch-audio"
)

type PipelineConfig struct {
	WorkDir            string        `yaml:"work_dir"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	MaxJobWait         time.Duration `yaml:"max_job_wait"`
	SegmentConcurrency int           `yaml:"segment_concurrency"`
	RunConcurrency     int           `yaml:"run_concurrency"`
	AspectRatio        string        `yaml:"aspect_ratio"`
	VoiceID            string        `yaml:"voice_id"`
	MergePolicy        string        `yaml:"merge_policy"`
	FFmpegPath         string        `yaml:"ffmpeg_path"`
	FFprobePath        string        `yaml:"ffprobe_path"`
	ListenAddr         string        `yaml:"listen_addr"`
	LogLevel           string        `yaml:"log_level"`
}

func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		WorkDir:            os.TempDir(),
		PollInterval:       5 * time.Second,
		MaxJobWait:         10 * time.Minute,
		SegmentConcurrency: 2,
		RunConcurrency:     120,
		AspectRatio:        "9:16",
		MergePolicy:        LoopVideoMergePolicy,
		FFmpegPath:         "ffmpeg",
		FFprobePath:        "ffprobe",
		ListenAddr:         ":8080",
		LogLevel:           "info",
	}
}

// GetPipelineConfig starts from the defaults, applies the YAML file named by
// PIPELINE_CONFIG_FILE when set, then applies environment overrides.
func GetPipelineConfig() (*PipelineConfig, error) {
	conf := DefaultPipelineConfig()

	if fileName := os.Getenv("PIPELINE_CONFIG_FILE"); fileName != "" {
		if err := conf.loadFile(fileName); err != nil {
			return nil, err
		}
	}

	if err := conf.applyEnv(); err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *PipelineConfig) loadFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("failed to read pipeline config %s: %w", fileName, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse pipeline config %s: %w", fileName, err)
	}
	return nil
}

func (c *PipelineConfig) applyEnv() error {
	setString(&c.WorkDir, "WORK_DIR")
	setString(&c.AspectRatio, "ASPECT_RATIO")
	setString(&c.VoiceID, "VOICE_ID")
	setString(&c.MergePolicy, "MERGE_POLICY")
	setString(&c.FFmpegPath, "FFMPEG_PATH")
	setString(&c.FFprobePath, "FFPROBE_PATH")
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.LogLevel, "LOG_LEVEL")

	if err := setDuration(&c.PollInterval, "POLL_INTERVAL"); err != nil {
		return err
	}
	if err := setDuration(&c.MaxJobWait, "MAX_JOB_WAIT"); err != nil {
		return err
	}
	if err := setInt(&c.SegmentConcurrency, "SEGMENT_CONCURRENCY"); err != nil {
		return err
	}
	return setInt(&c.RunConcurrency, "RUN_CONCURRENCY")
}

func (c *PipelineConfig) Validate() error {
	if c.VoiceID == "" {
		return fmt.Errorf("VOICE_ID must be set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.MaxJobWait < c.PollInterval {
		return fmt.Errorf("max job wait %s is shorter than poll interval %s", c.MaxJobWait, c.PollInterval)
	}
	if c.SegmentConcurrency < 1 || c.RunConcurrency < 1 {
		return fmt.Errorf("concurrency settings must be at least 1")
	}
	if c.MergePolicy != LoopVideoMergePolicy && c.MergePolicy != StretchAudioMergePolicy {
		return fmt.Errorf("unknown merge policy %q", c.MergePolicy)
	}
	return nil
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	*target = d
	return nil
}

func setInt(target *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	*target = n
	return nil
}
