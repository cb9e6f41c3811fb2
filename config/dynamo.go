package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	TableName string
	// Endpoint overrides the regional endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("DYNAMO_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME must be set when VIDEO_STORE=%s", DynamoVideoStore)
	}

	return &DynamoConfig{
		TableName: tableName,
		Endpoint:  os.Getenv("DYNAMO_ENDPOINT"),
	}, nil
}
