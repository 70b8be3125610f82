// Package controllers holds the HTTP handlers of the store API.
package controllers

import (
	"errors"
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/middleware"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controller carries the services the handlers call. Archive is nil when
// no backup bucket is configured.
type Controller struct {
	DB       *bridge.Client
	Stores   *services.StoreService
	Sessions *services.SessionService
	Staff    *services.StaffService
	Menu     *services.MenuService
	Orders   *services.OrderService
	Register *services.RegisterService
	Archive  *services.BackupArchiveService
	Logger   *zap.Logger
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// handleServiceError maps service and bridge errors onto the error envelope.
func (ctl *Controller) handleServiceError(c *gin.Context, err error, message string) {
	var (
		validation *services.ValidationError
		transport  *bridge.TransportError
		statement  *bridge.StatementError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validation.Error(),
				"field":   validation.Field,
			},
		})
	case errors.Is(err, services.ErrStoreNotFound):
		respondError(c, http.StatusNotFound, "STORE_NOT_FOUND", "Store not found")
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, "CONFLICT", "A record with the same name already exists")
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", "Order cannot move to that status")
	case errors.Is(err, services.ErrStoreClosed):
		respondError(c, http.StatusConflict, "STORE_CLOSED", "The store is not taking orders right now")
	case errors.Is(err, services.ErrDeliveryTaken):
		respondError(c, http.StatusConflict, "DELIVERY_TAKEN", "Another courier already took this delivery")
	case errors.Is(err, services.ErrNoOpenSession):
		respondError(c, http.StatusConflict, "NO_OPEN_SESSION", "The register is closed")
	case errors.Is(err, services.ErrSessionOpen):
		respondError(c, http.StatusConflict, "SESSION_ALREADY_OPEN", "The register is already open")
	case errors.Is(err, bridge.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid name or password")
	case errors.As(err, &transport):
		ctl.Logger.Warn(message, zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is unreachable")
	case errors.As(err, &statement):
		ctl.Logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
	default:
		ctl.Logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	}
}

// tenant returns the store resolved by middleware.ResolveStore, writing a
// 500 when the route was registered without it.
func tenant(c *gin.Context) (*services.Tenant, bool) {
	t, err := middleware.GetTenant(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Store not resolved")
		return nil, false
	}
	return t, true
}

// staff returns the session claims set by middleware.RequireStaff.
func staff(c *gin.Context) (*services.StaffClaims, bool) {
	claims, err := middleware.GetStaff(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return nil, false
	}
	return claims, true
}
