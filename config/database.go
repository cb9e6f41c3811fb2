package config

import (
	"fmt"
	"os"
)

const (
	DynamoVideoStore = "dynamo"
	MysqlVideoStore  = "mysql"
)

type DatabaseConfig struct {
	VideoStore string
	DSN        string
}

// GetDatabaseConfig selects the backend for video records. DATABASE_DSN is
// only required for the mysql store.
func GetDatabaseConfig() (*DatabaseConfig, error) {
	store := os.Getenv("VIDEO_STORE")
	if store == "" {
		store = DynamoVideoStore
	}
	if store != DynamoVideoStore && store != MysqlVideoStore {
		return nil, fmt.Errorf("VIDEO_STORE must be one of %s, %s", DynamoVideoStore, MysqlVideoStore)
	}
	dsn := os.Getenv("DATABASE_DSN")
	if store == MysqlVideoStore && dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN must be set when VIDEO_STORE=%s", MysqlVideoStore)
	}

	return &DatabaseConfig{
		VideoStore: store,
		DSN:        dsn,
	}, nil
}
