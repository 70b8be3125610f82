package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const backupPrefix = "backups/"

// BackupArchiveService stores backup documents in object storage
type BackupArchiveService struct {
	storage S3Interface
	logger  *zap.Logger
	now     func() time.Time
}

// NewBackupArchiveService creates an archive service on top of storage
func NewBackupArchiveService(storage S3Interface, logger *zap.Logger) *BackupArchiveService {
	return &BackupArchiveService{storage: storage, logger: logger, now: time.Now}
}

// Archive takes a backup of storeID (every store when empty) and uploads it.
// It returns the object key.
func (s *BackupArchiveService) Archive(ctx context.Context, db *bridge.Client, storeID string) (string, error) {
	snap, err := db.Backup(ctx, storeID)
	if err != nil {
		return "", err
	}
	document, err := snap.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	scope := storeID
	if scope == "" {
		scope = "all"
	}
	key := fmt.Sprintf("%s%s/%d_%s.json", backupPrefix, scope, s.now().Unix(), uuid.NewString())
	if err := s.storage.PutObject(ctx, key, document, "application/json"); err != nil {
		return "", err
	}

	s.logger.Info("backup archived", zap.String("key", key), zap.Int("bytes", len(document)))
	return key, nil
}

// DownloadURL returns a presigned URL for an archived backup
func (s *BackupArchiveService) DownloadURL(ctx context.Context, key string) (string, error) {
	if err := checkBackupKey(key); err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, key)
}

// Fetch downloads an archived backup document
func (s *BackupArchiveService) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := checkBackupKey(key); err != nil {
		return nil, err
	}
	return s.storage.GetObject(ctx, key)
}

// Delete removes an archived backup
func (s *BackupArchiveService) Delete(ctx context.Context, key string) error {
	if err := checkBackupKey(key); err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		return err
	}
	s.logger.Info("backup archive deleted", zap.String("key", key))
	return nil
}

func checkBackupKey(key string) error {
	if !strings.HasPrefix(key, backupPrefix) || !strings.HasSuffix(key, ".json") || strings.Contains(key, "..") {
		return invalid("key", "must name a backup archive")
	}
	return nil
}
