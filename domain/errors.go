package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrEmptyTopic = errors.New("topic must not be empty")

type ScriptGenerationError struct {
	Stage string
	Err   error
}

func (e *ScriptGenerationError) Error() string {
	return fmt.Sprintf("script generation (%s): %v", e.Stage, e.Err)
}

func (e *ScriptGenerationError) Unwrap() error { return e.Err }

// GenerationFailedError carries the upstream failure reason unmodified.
type GenerationFailedError struct {
	JobID  string
	Reason string
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation job %s failed: %s", e.JobID, e.Reason)
}

type GenerationTimeoutError struct {
	JobID  string
	Waited time.Duration
}

func (e *GenerationTimeoutError) Error() string {
	return fmt.Sprintf("generation job %s did not complete within %s", e.JobID, e.Waited)
}

func (e *GenerationTimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// MediaProcessingError carries the media engine's diagnostic output.
type MediaProcessingError struct {
	Op     string
	Output string
	Err    error
}

func (e *MediaProcessingError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("media %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("media %s: %v: %s", e.Op, e.Err, e.Output)
}

func (e *MediaProcessingError) Unwrap() error { return e.Err }

type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist video record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StatusForError maps a run failure to the status reported for the video.
func StatusForError(err error) VideoStatus {
	var (
		downloadErr    *DownloadError
		uploadErr      *UploadError
		persistenceErr *PersistenceError
		timeoutErr     *GenerationTimeoutError
	)
	switch {
	case err == nil:
		return VideoStatusPublished
	case errors.As(err, &timeoutErr):
		return VideoStatusFailed
	case errors.Is(err, context.Canceled):
		return VideoStatusCancelled
	case errors.As(err, &downloadErr):
		return VideoStatusFailedDownload
	case errors.As(err, &uploadErr):
		return VideoStatusFailedUpload
	case errors.As(err, &persistenceErr):
		return VideoStatusFailedRegister
	}
	return VideoStatusFailed
}
