package domain

import "fmt"

type SegmentState string

const (
	SegmentPending        SegmentState = "pending"
	SegmentScripted       SegmentState = "scripted"
	SegmentPrompted       SegmentState = "prompted"
	SegmentVideoRequested SegmentState = "video_requested"
	SegmentVideoReady     SegmentState = "video_ready"
	SegmentAudioReady     SegmentState = "audio_ready"
	SegmentMerged         SegmentState = "merged"
	SegmentFailed         SegmentState = "failed"
)

var segmentTransitions = map[SegmentState]SegmentState{
	SegmentPending:        SegmentScripted,
	SegmentScripted:       SegmentPrompted,
	SegmentPrompted:       SegmentVideoRequested,
	SegmentVideoRequested: SegmentVideoReady,
	SegmentVideoReady:     SegmentAudioReady,
	SegmentAudioReady:     SegmentMerged,
}

type Segment struct {
	Name           SegmentName
	State          SegmentState
	Narration      string
	VideoPrompt    string
	VideoJob       *GenerationJob
	VideoFile      string
	AudioFile      string
	MergedFile     string
	TargetDuration float64
	FailureReason  string
}

func NewSegment(name SegmentName) *Segment {
	return &Segment{
		Name:  name,
		State: SegmentPending,
	}
}

// Advance moves the segment to the next state. Skipping states or leaving a
// terminal state is rejected.
func (s *Segment) Advance(to SegmentState) error {
	next, ok := segmentTransitions[s.State]
	if !ok || next != to {
		return fmt.Errorf("segment %s: invalid transition %s -> %s", s.Name, s.State, to)
	}
	if to == SegmentMerged && (s.VideoFile == "" || s.AudioFile == "" || s.MergedFile == "") {
		return fmt.Errorf("segment %s: merged requires video, audio and merged assets", s.Name)
	}
	s.State = to
	return nil
}

func (s *Segment) Fail(reason string) {
	s.State = SegmentFailed
	s.FailureReason = reason
}
