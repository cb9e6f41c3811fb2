package domain

import "time"

type VideoStatus string

const (
	VideoStatusProcessing     VideoStatus = "processing"
	VideoStatusPublished      VideoStatus = "published"
	VideoStatusFailed         VideoStatus = "failed"
	VideoStatusFailedDownload VideoStatus = "failed-download"
	VideoStatusFailedUpload   VideoStatus = "failed-upload"
	VideoStatusFailedRegister VideoStatus = "failed-register"
	VideoStatusCancelled      VideoStatus = "cancelled"
)

type VideoRecord struct {
	ID        string
	OwnerID   string
	Title     string
	URL       string
	SizeBytes int64
	RunID     string
	Status    VideoStatus
	Error     string
	CreatedAt time.Time
}
