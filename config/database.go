package config

import (
	"context"
	"fmt"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"go.uber.org/zap"
)

var DB *bridge.Client

// ConnectDatabase creates the bridge client for the main database and
// makes sure its schema exists
func ConnectDatabase(ctx context.Context, c *Config, logger *zap.Logger) error {
	client := bridge.New(bridge.Options{
		Main:      bridge.Endpoint{URL: c.MainDBURL, Token: c.MainDBToken},
		Timeout:   c.SQLHTTPTimeout,
		ChunkSize: c.RestoreChunkSize,
		Logger:    logger,
	})

	if err := client.EnsureSchema(ctx, client.Main()); err != nil {
		return fmt.Errorf("failed to prepare main database: %w", err)
	}

	DB = client
	logger.Info("Database connection established successfully", zap.String("endpoint", c.MainDBURL))
	return nil
}

// GetDB returns the bridge client
func GetDB() *bridge.Client {
	return DB
}

// SetDB replaces the bridge client (used by tests)
func SetDB(client *bridge.Client) {
	DB = client
}
