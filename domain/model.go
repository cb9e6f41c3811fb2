package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type SegmentName string

const (
	HookSegment         SegmentName = "hook"
	IntroSegment        SegmentName = "intro"
	BodySegment         SegmentName = "body"
	ConclusionSegment   SegmentName = "conclusion"
	CallToActionSegment SegmentName = "call_to_action"
)

// SegmentOrder is the concatenation order of a run.
var SegmentOrder = []SegmentName{
	HookSegment,
	IntroSegment,
	BodySegment,
	ConclusionSegment,
	CallToActionSegment,
}

// Script is the narration produced for a topic, one entry per segment.
type Script struct {
	Hook         string `json:"hook"`
	Intro        string `json:"intro"`
	Body         string `json:"body"`
	Conclusion   string `json:"conclusion"`
	CallToAction string `json:"call_to_action"`
}

func (s Script) Narration(name SegmentName) string {
	switch name {
	case HookSegment:
		return s.Hook
	case IntroSegment:
		return s.Intro
	case BodySegment:
		return s.Body
	case ConclusionSegment:
		return s.Conclusion
	case CallToActionSegment:
		return s.CallToAction
	}
	return ""
}

// Missing lists the segments whose narration is empty.
func (s Script) Missing() []SegmentName {
	return lo.Filter(SegmentOrder, func(name SegmentName, _ int) bool {
		return strings.TrimSpace(s.Narration(name)) == ""
	})
}

type PipelineRun struct {
	ID          string
	UserID      string
	Topic       string
	WorkDir     string
	Segments    []*Segment
	FinalPath   string
	VideoURL    string
	SizeBytes   int64
	Status      VideoStatus
	Err         error
	StartedAt   time.Time
	CompletedAt time.Time
}

// NewPipelineRun creates a run with its five segments in pending state.
func NewPipelineRun(userID string, topic string) *PipelineRun {
	now := time.Now().UTC()
	segments := make([]*Segment, 0, len(SegmentOrder))
	for _, name := range SegmentOrder {
		segments = append(segments, NewSegment(name))
	}
	return &PipelineRun{
		ID:        NewRunID(now),
		UserID:    userID,
		Topic:     topic,
		Segments:  segments,
		Status:    VideoStatusProcessing,
		StartedAt: now,
	}
}

// NewRunID derives a run identifier from the timestamp plus a random suffix so
// concurrent runs started in the same second never share a working directory.
func NewRunID(t time.Time) string {
	return fmt.Sprintf("%s-%s", t.UTC().Format("20060102T150405"), uuid.NewString())
}

type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

const (
	StepScript       = "script"
	StepConcatenate  = "concatenate"
	StepExtractAudio = "extract_audio"
	StepTranscribe   = "transcribe"
	StepSubtitles    = "subtitles"
	StepUpload       = "upload"
	StepPersist      = "persist"
	StepCompleted    = "completed"
	StepFailed       = "failed"
)

func SegmentStep(name SegmentName, state SegmentState) string {
	return string(name) + ":" + string(state)
}

func (e ProgressEvent) Terminal() bool {
	return e.Step == StepCompleted || e.Step == StepFailed
}
