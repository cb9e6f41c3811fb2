package domain

type JobKind string

const (
	VideoJobKind JobKind = "video"
	ImageJobKind JobKind = "image"
)

type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// GenerationJob is a handle to an asynchronous generation task on the
// upstream service. AssetURL is only set once completed, FailureReason only
// once failed.
type GenerationJob struct {
	ID            string
	Kind          JobKind
	State         JobState
	AssetURL      string
	FailureReason string
}
