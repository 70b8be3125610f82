package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/middleware"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetActiveRequest represents the request body for suspending a store
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ArchiveRequest represents the request body for archiving a backup
type ArchiveRequest struct {
	StoreID string `json:"storeId"`
}

// RestoreArchiveRequest represents the request body for restoring an archive
type RestoreArchiveRequest struct {
	Key     string `json:"key" binding:"required"`
	StoreID string `json:"storeId"`
}

// CreateStore handles POST /api/v1/admin/stores
func (ctl *Controller) CreateStore(c *gin.Context) {
	var req services.CreateStoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := ctl.Stores.Create(c.Request.Context(), req)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to create store")
		return
	}
	ctl.audit(c, "store created", zap.String("store_id", profile.ID))
	respond(c, http.StatusCreated, profile.Public())
}

// SetStoreActive handles PATCH /api/v1/admin/stores/:id/active
func (ctl *Controller) SetStoreActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := ctl.Stores.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to update store")
		return
	}
	ctl.audit(c, "store activation changed", zap.String("store_id", profile.ID), zap.Bool("active", profile.IsActive))
	respond(c, http.StatusOK, profile.Public())
}

// DeleteStore handles DELETE /api/v1/admin/stores/:id
func (ctl *Controller) DeleteStore(c *gin.Context) {
	if err := ctl.Stores.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ctl.handleServiceError(c, err, "Failed to delete store")
		return
	}
	ctl.audit(c, "store deleted", zap.String("store_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// Backup handles GET /api/v1/admin/backup?storeId= - downloads a backup
// document of one store, or of the whole main database without storeId
func (ctl *Controller) Backup(c *gin.Context) {
	storeID := c.Query("storeId")
	db, _, err := ctl.scopedDB(c.Request.Context(), storeID)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load store")
		return
	}

	snap, err := db.Backup(c.Request.Context(), storeID)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to take backup")
		return
	}
	document, err := snap.Marshal()
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to encode backup")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+utils.BackupFilename(storeID, time.Now())+`"`)
	c.Data(http.StatusOK, "application/json", document)
}

// Restore handles POST /api/v1/admin/restore - multipart upload of a
// backup document in the "file" field, with an optional storeId field
func (ctl *Controller) Restore(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A backup file is required in the 'file' field")
		return
	}

	document, err := utils.ReadBackupFile(fileHeader)
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
			return
		}
		ctl.handleServiceError(c, err, "Failed to read backup file")
		return
	}

	ctl.restore(c, document, c.PostForm("storeId"))
}

// ArchiveBackup handles POST /api/v1/admin/backups - stores a backup in
// the archive bucket
func (ctl *Controller) ArchiveBackup(c *gin.Context) {
	if !ctl.archiveEnabled(c) {
		return
	}
	var req ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	db, _, err := ctl.scopedDB(c.Request.Context(), req.StoreID)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load store")
		return
	}
	key, err := ctl.Archive.Archive(c.Request.Context(), db, req.StoreID)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to archive backup")
		return
	}
	ctl.audit(c, "backup archived", zap.String("key", key))
	respond(c, http.StatusCreated, gin.H{"key": key})
}

// BackupURL handles GET /api/v1/admin/backups/url?key= - presigned download URL
func (ctl *Controller) BackupURL(c *gin.Context) {
	if !ctl.archiveEnabled(c) {
		return
	}
	url, err := ctl.Archive.DownloadURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to sign backup URL")
		return
	}
	respond(c, http.StatusOK, gin.H{"url": url})
}

// DeleteArchive handles DELETE /api/v1/admin/backups - removes an archived backup
func (ctl *Controller) DeleteArchive(c *gin.Context) {
	if !ctl.archiveEnabled(c) {
		return
	}
	key := c.Query("key")
	if err := ctl.Archive.Delete(c.Request.Context(), key); err != nil {
		ctl.handleServiceError(c, err, "Failed to delete backup")
		return
	}
	ctl.audit(c, "backup archive deleted", zap.String("key", key))
	c.Status(http.StatusNoContent)
}

// RestoreArchive handles POST /api/v1/admin/backups/restore - restores an
// archived backup
func (ctl *Controller) RestoreArchive(c *gin.Context) {
	if !ctl.archiveEnabled(c) {
		return
	}
	var req RestoreArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	document, err := ctl.Archive.Fetch(c.Request.Context(), req.Key)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to fetch archived backup")
		return
	}
	ctl.restore(c, document, req.StoreID)
}

func (ctl *Controller) restore(c *gin.Context, document []byte, storeID string) {
	if _, err := bridge.ParseSnapshot(document); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BACKUP", "The file is not a valid backup document")
		return
	}

	db, profile, err := ctl.scopedDB(c.Request.Context(), storeID)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load store")
		return
	}

	if profile != nil {
		defer ctl.Stores.Invalidate(c.Request.Context(), *profile)
	}
	if err := db.Restore(c.Request.Context(), document, storeID); err != nil {
		var restoreErr *bridge.RestoreError
		if errors.As(err, &restoreErr) {
			ctl.Logger.Error("restore failed", zap.String("table", restoreErr.Table), zap.Int("batch", restoreErr.Batch), zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RESTORE_FAILED",
					"message": restoreErr.Error(),
					"table":   restoreErr.Table,
					"batch":   restoreErr.Batch,
				},
			})
			return
		}
		ctl.handleServiceError(c, err, "Failed to restore backup")
		return
	}

	ctl.audit(c, "backup restored", zap.String("store_id", storeID), zap.Int("bytes", len(document)))
	respond(c, http.StatusOK, gin.H{"restored": true})
}

// scopedDB returns the client holding storeID's rows, or the main database
// and no profile when storeID is empty.
func (ctl *Controller) scopedDB(ctx context.Context, storeID string) (*bridge.Client, *models.StoreProfile, error) {
	if storeID == "" {
		return ctl.DB.WithMain(), nil, nil
	}
	profile, err := ctl.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	return ctl.Stores.Bind(*profile).DB, profile, nil
}

func (ctl *Controller) archiveEnabled(c *gin.Context) bool {
	if ctl.Archive == nil {
		respondError(c, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "Backup archive storage is not configured")
		return false
	}
	return true
}

func (ctl *Controller) audit(c *gin.Context, msg string, fields ...zap.Field) {
	if adminID, err := middleware.GetAdminID(c); err == nil {
		fields = append(fields, zap.String("admin_id", adminID))
	}
	ctl.Logger.Info(msg, fields...)
}
