package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSqliteVideoStore(t *testing.T) outbound.VideoRecordStorePort {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := NewGormVideoStore(testLogger(), db)
	require.NoError(t, err)
	return store
}

func TestGormVideoStore_CreateAndGet(t *testing.T) {
	store := newSqliteVideoStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, domain.VideoRecord{
		ID:        "video-1",
		OwnerID:   "user-1",
		Title:     "octopus facts",
		URL:       "https://bucket.s3.eu-west-1.amazonaws.com/key",
		SizeBytes: 2048,
		RunID:     "run-1",
		Status:    domain.VideoStatusPublished,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	record, err := store.Get(ctx, "video-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", record.OwnerID)
	assert.Equal(t, int64(2048), record.SizeBytes)
	assert.Equal(t, domain.VideoStatusPublished, record.Status)
}

func TestGormVideoStore_RunIsUnique(t *testing.T) {
	store := newSqliteVideoStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, domain.VideoRecord{ID: "video-1", OwnerID: "u", URL: "a", RunID: "run-1", Status: domain.VideoStatusPublished})
	require.NoError(t, err)

	_, err = store.Create(ctx, domain.VideoRecord{ID: "video-2", OwnerID: "u", URL: "b", RunID: "run-1", Status: domain.VideoStatusPublished})
	var persistenceErr *domain.PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
}

func TestGormVideoStore_NotFound(t *testing.T) {
	store := newSqliteVideoStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
