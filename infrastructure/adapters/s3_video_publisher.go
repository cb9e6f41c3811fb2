package adapters

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const anonymousOwner = "anonymous"

type s3VideoPublisher struct {
	logger   outbound.LoggerPort
	s3Svc    s3iface.S3API
	s3Config *config.S3Config
}

func NewS3VideoPublisher(logger outbound.LoggerPort, s3Svc s3iface.S3API, s3Config *config.S3Config) outbound.VideoPublisherPort {
	return &s3VideoPublisher{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3VideoPublisher) Publish(ctx context.Context, req outbound.PublishVideoRequest) (*outbound.PublishVideoResponse, error) {
	file, err := os.Open(req.VideoFileName)
	if err != nil {
		s.logger.Error(err, "Failed to open video file")
		return nil, &domain.UploadError{Path: req.VideoFileName, Err: err}
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "Failed to close video file")
		}
	}(file)

	info, err := file.Stat()
	if err != nil {
		return nil, &domain.UploadError{Path: req.VideoFileName, Err: err}
	}

	name := req.Name
	if name == "" {
		name = filepath.Base(req.VideoFileName)
	}
	key := s.objectKey(req.OwnerID, req.RunID, name)

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.s3Svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return nil, &domain.UploadError{Path: req.VideoFileName, Err: err}
	}

	url := s.objectURL(key)
	s.logger.InfoWithFields("Video uploaded", map[string]interface{}{
		"url":          url,
		"size_bytes":   info.Size(),
		"content_type": contentType,
	})

	return &outbound.PublishVideoResponse{
		URL:       url,
		SizeBytes: info.Size(),
	}, nil
}

func (s *s3VideoPublisher) objectKey(ownerID string, runID string, name string) string {
	if ownerID == "" {
		ownerID = anonymousOwner
	}
	return path.Join(s.s3Config.KeyPrefix, "videos", ownerID, runID, name)
}

func (s *s3VideoPublisher) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, key)
}
