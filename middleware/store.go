package middleware

import (
	"errors"
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tenantKey = "tenant"

// ResolveStore loads the store named by the :slug path parameter and binds
// a database client to it for the rest of the request.
func ResolveStore(stores *services.StoreService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := stores.Resolve(c.Request.Context(), c.Param("slug"))
		if err != nil {
			var transport *bridge.TransportError
			switch {
			case errors.Is(err, services.ErrStoreNotFound):
				abortWithError(c, http.StatusNotFound, "STORE_NOT_FOUND", "Store not found")
			case errors.Is(err, services.ErrStoreSuspended):
				abortWithError(c, http.StatusForbidden, "STORE_SUSPENDED", "This store is temporarily unavailable")
			case errors.As(err, &transport):
				logger.Warn("store lookup failed", zap.String("slug", c.Param("slug")), zap.Error(err))
				abortWithError(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is unreachable")
			default:
				logger.Error("store lookup failed", zap.String("slug", c.Param("slug")), zap.Error(err))
				abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load store")
			}
			return
		}

		c.Set(tenantKey, tenant)
		c.Next()
	}
}

// GetTenant extracts the store resolved by ResolveStore
func GetTenant(c *gin.Context) (*services.Tenant, error) {
	value, exists := c.Get(tenantKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_STORE", Message: "Store not found in context"}
	}
	tenant, ok := value.(*services.Tenant)
	if !ok {
		return nil, &AuthError{Code: "INVALID_STORE", Message: "Store is not in the expected format"}
	}
	return tenant, nil
}
