package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"
	"short-video-agent/infrastructure/adapters"
	"strings"
	"sync"
	"time"
)

func testLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapperFor(io.Discard, "debug")
}

func testConfig(workDir string) *config.PipelineConfig {
	conf := config.DefaultPipelineConfig()
	conf.WorkDir = workDir
	conf.PollInterval = time.Millisecond
	conf.MaxJobWait = time.Second
	conf.VoiceID = "voice-1"
	return conf
}

func testScript() *domain.Script {
	return &domain.Script{
		Hook:         "Did you know octopuses have three hearts?",
		Intro:        "Octopuses are strange animals.",
		Body:         "Two hearts pump blood to the gills, one to the body.",
		Conclusion:   "Nature is weird.",
		CallToAction: "Follow for more ocean facts.",
	}
}

// goDispatcher runs every task on its own goroutine.
type goDispatcher struct{}

func (goDispatcher) Submit(task func()) error {
	go task()
	return nil
}

type failingDispatcher struct{}

func (failingDispatcher) Submit(func()) error {
	return errors.New("pool closed")
}

type fakeScriptGenerator struct {
	script    *domain.Script
	scriptErr error
	// prompt maps narration to prompt; missing entries get a derived prompt
	prompt map[string]string
}

func (f *fakeScriptGenerator) GenerateScript(ctx context.Context, topic string) (*domain.Script, error) {
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}
	return f.script, nil
}

func (f *fakeScriptGenerator) GenerateVideoPrompt(ctx context.Context, narration string) (string, error) {
	if p, ok := f.prompt[narration]; ok {
		return p, nil
	}
	return "cinematic shot illustrating: " + narration, nil
}

type fakeJobs struct {
	mu        sync.Mutex
	submitted int
	polls     int
	// states are returned by successive polls; the last one repeats
	states   []domain.JobState
	failFor  string
	reason   string
	assetURL string
	pollErr  error
}

func (f *fakeJobs) SubmitVideoJob(ctx context.Context, req outbound.SubmitJobRequest) (*domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted++
	return &domain.GenerationJob{
		ID:    req.Prompt,
		Kind:  domain.VideoJobKind,
		State: domain.JobQueued,
	}, nil
}

func (f *fakeJobs) SubmitImageJob(ctx context.Context, req outbound.SubmitJobRequest) (*domain.GenerationJob, error) {
	return &domain.GenerationJob{ID: "image", Kind: domain.ImageJobKind, State: domain.JobQueued}, nil
}

func (f *fakeJobs) PollJob(ctx context.Context, job domain.GenerationJob) (*domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	f.polls++

	state := domain.JobCompleted
	if len(f.states) > 0 {
		idx := f.polls - 1
		if idx >= len(f.states) {
			idx = len(f.states) - 1
		}
		state = f.states[idx]
	}
	if f.failFor != "" && strings.Contains(job.ID, f.failFor) {
		state = domain.JobFailed
	}

	polled := job
	polled.State = state
	switch state {
	case domain.JobCompleted:
		polled.AssetURL = f.assetURL
		if polled.AssetURL == "" {
			polled.AssetURL = "https://cdn.example.com/" + job.ID + ".mp4"
		}
	case domain.JobFailed:
		polled.FailureReason = f.reason
	}
	return &polled, nil
}

func (f *fakeJobs) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

type fakeAudio struct {
	// delay slows narration synthesis for texts containing the key
	delay map[string]time.Duration
	err   error
}

func (f *fakeAudio) Generate(ctx context.Context, req outbound.GenerateAudioRequest) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	for key, d := range f.delay {
		if strings.Contains(req.Text, key) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return []byte("mp3:" + req.Text), nil
}

type fakeDownloader struct {
	err error
}

func (f *fakeDownloader) Download(ctx context.Context, url string, fileName string) error {
	if f.err != nil {
		return &domain.DownloadError{URL: url, Err: f.err}
	}
	return os.WriteFile(fileName, []byte(url), 0644)
}

type fakeMedia struct {
	mu            sync.Mutex
	videoDuration float64
	audioDuration float64
	calls         []string
	concatenated  []string
	speedFactor   float64
	failOp        string
}

func (f *fakeMedia) record(op string, outputFileName string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
	if op == f.failOp {
		return &domain.MediaProcessingError{Op: op, Err: errors.New("exit status 1"), Output: "invalid data"}
	}
	if outputFileName == "" {
		return nil
	}
	return os.WriteFile(outputFileName, []byte(op), 0644)
}

func (f *fakeMedia) called(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == op {
			return true
		}
	}
	return false
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, videoFileName string, outputFileName string) error {
	return f.record("extract_audio", outputFileName)
}

func (f *fakeMedia) ProbeDuration(ctx context.Context, fileName string) (float64, error) {
	if strings.HasSuffix(fileName, ".mp3") {
		return f.audioDuration, nil
	}
	return f.videoDuration, nil
}

func (f *fakeMedia) LoopAndBindAudio(ctx context.Context, videoFileName string, audioFileName string, targetDuration float64, outputFileName string) error {
	return f.record("loop_and_bind", outputFileName)
}

func (f *fakeMedia) MergeAudioVideo(ctx context.Context, videoFileName string, audioFileName string, outputFileName string) error {
	return f.record("merge", outputFileName)
}

func (f *fakeMedia) AdjustAudioSpeed(ctx context.Context, audioFileName string, factor float64, outputFileName string) error {
	f.mu.Lock()
	f.speedFactor = factor
	f.mu.Unlock()
	return f.record("adjust_speed", outputFileName)
}

func (f *fakeMedia) Concatenate(ctx context.Context, videoFileNames []string, outputFileName string) error {
	f.mu.Lock()
	f.concatenated = append([]string(nil), videoFileNames...)
	f.mu.Unlock()
	return f.record("concatenate", outputFileName)
}

func (f *fakeMedia) BurnSubtitles(ctx context.Context, videoFileName string, subtitleFileName string, outputFileName string) error {
	return f.record("burn_subtitles", outputFileName)
}

func (f *fakeMedia) TranscribeToSubtitles(ctx context.Context, audioFileName string, outputFileName string) error {
	return f.record("transcribe", outputFileName)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []outbound.PublishVideoRequest
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, req outbound.PublishVideoRequest) (*outbound.PublishVideoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, &domain.UploadError{Path: req.VideoFileName, Err: f.err}
	}
	if _, err := os.Stat(req.VideoFileName); err != nil {
		return nil, &domain.UploadError{Path: req.VideoFileName, Err: err}
	}
	f.published = append(f.published, req)
	return &outbound.PublishVideoResponse{
		URL:       fmt.Sprintf("https://bucket.s3.eu-west-1.amazonaws.com/test/videos/%s/%s/%s", req.OwnerID, req.RunID, req.Name),
		SizeBytes: 42,
	}, nil
}

type fakeRecordStore struct {
	mu      sync.Mutex
	records map[string]domain.VideoRecord
	err     error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[string]domain.VideoRecord)}
}

func (f *fakeRecordStore) Create(ctx context.Context, record domain.VideoRecord) (*domain.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, &domain.PersistenceError{Err: f.err}
	}
	f.records[record.ID] = record
	return &record, nil
}

func (f *fakeRecordStore) Get(ctx context.Context, id string) (*domain.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, &domain.PersistenceError{Err: errors.New("not found")}
	}
	return &record, nil
}

func (f *fakeRecordStore) all() []domain.VideoRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.VideoRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out
}

func collect(events <-chan domain.ProgressEvent, timeout time.Duration) ([]domain.ProgressEvent, bool) {
	out := make([]domain.ProgressEvent, 0)
	deadline := time.After(timeout)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return out, true
			}
			out = append(out, e)
		case <-deadline:
			return out, false
		}
	}
}

func dirEntries(dir string) []string {
	entries, _ := os.ReadDir(dir)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, filepath.Join(dir, e.Name()))
	}
	return names
}
