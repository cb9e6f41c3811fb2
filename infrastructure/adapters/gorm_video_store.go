package adapters

import (
	"context"
	"errors"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"
	"time"

	"gorm.io/gorm"
)

type videoRecordModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	OwnerID   string `gorm:"index;size:128;not null"`
	Title     string `gorm:"size:512"`
	URL       string `gorm:"type:text;not null"`
	SizeBytes int64
	RunID     string `gorm:"uniqueIndex;size:128;not null"`
	Status    string `gorm:"size:32;not null"`
	Error     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (videoRecordModel) TableName() string {
	return "video_records"
}

type gormVideoStore struct {
	logger outbound.LoggerPort
	db     *gorm.DB
}

// NewGormVideoStore migrates the video_records table before returning.
func NewGormVideoStore(logger outbound.LoggerPort, db *gorm.DB) (outbound.VideoRecordStorePort, error) {
	if err := db.AutoMigrate(&videoRecordModel{}); err != nil {
		return nil, err
	}
	return &gormVideoStore{
		logger: logger,
		db:     db,
	}, nil
}

func (g *gormVideoStore) Create(ctx context.Context, record domain.VideoRecord) (*domain.VideoRecord, error) {
	model := videoRecordModel{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Title:     record.Title,
		URL:       record.URL,
		SizeBytes: record.SizeBytes,
		RunID:     record.RunID,
		Status:    string(record.Status),
		Error:     record.Error,
		CreatedAt: record.CreatedAt,
	}
	if err := g.db.WithContext(ctx).Create(&model).Error; err != nil {
		g.logger.ErrorWithFields(err, "Failed to insert video record", map[string]interface{}{
			"id":     record.ID,
			"run_id": record.RunID,
		})
		return nil, &domain.PersistenceError{Err: err}
	}
	return toVideoRecord(model), nil
}

func (g *gormVideoStore) Get(ctx context.Context, id string) (*domain.VideoRecord, error) {
	var model videoRecordModel
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.PersistenceError{Err: ErrVideoNotFound}
	}
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}
	return toVideoRecord(model), nil
}

func toVideoRecord(model videoRecordModel) *domain.VideoRecord {
	return &domain.VideoRecord{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		Title:     model.Title,
		URL:       model.URL,
		SizeBytes: model.SizeBytes,
		RunID:     model.RunID,
		Status:    domain.VideoStatus(model.Status),
		Error:     model.Error,
		CreatedAt: model.CreatedAt.UTC(),
	}
}
