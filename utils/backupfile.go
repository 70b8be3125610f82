package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxBackupSize is 10MB in bytes
	MaxBackupSize = 10 * 1024 * 1024
	// AllowedBackupFormat is JSON
	AllowedBackupFormat = ".json"
)

// FileUploadError represents a backup upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateBackupFile validates the uploaded backup format and size
func ValidateBackupFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxBackupSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxBackupSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != AllowedBackupFormat {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", AllowedBackupFormat),
		}
	}

	return nil
}

// ReadBackupFile validates and reads the whole uploaded backup document
func ReadBackupFile(fileHeader *multipart.FileHeader) (content []byte, err error) {
	if err := ValidateBackupFile(fileHeader); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close uploaded file: %w", closeErr)
		}
	}()

	// one extra byte detects a Size header that understates the body
	content, err = io.ReadAll(io.LimitReader(src, MaxBackupSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(content) > MaxBackupSize {
		return nil, &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxBackupSize/(1024*1024)),
		}
	}
	if len(content) == 0 {
		return nil, &FileUploadError{Code: "EMPTY_FILE", Message: "Backup file is empty"}
	}
	return content, nil
}

// BackupFilename returns the download name for a backup taken at t
func BackupFilename(storeID string, t time.Time) string {
	scope := storeID
	if scope == "" {
		scope = "completo"
	}
	return fmt.Sprintf("backup_%s_%s.json", scope, t.UTC().Format("2006-01-02"))
}
