package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/gin-gonic/gin"
)

const staffKey = "staff_claims"

// RequireStaff accepts only a staff session token issued for the store
// resolved by ResolveStore.
func RequireStaff(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Staff session token is required")
			return
		}

		claims, err := sessions.Parse(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Session expired or invalid")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify session")
			return
		}

		tenant, err := GetTenant(c)
		if err != nil || tenant.ID() != claims.StoreID {
			abortWithError(c, http.StatusForbidden, "WRONG_STORE", "Session belongs to another store")
			return
		}

		c.Set(staffKey, claims)
		c.Next()
	}
}

// RequireRole accepts only staff holding one of roles. It must run after RequireStaff.
func RequireRole(roles ...models.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetStaff(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "MISSING_CLAIMS", "Could not retrieve session claims")
			return
		}
		for _, role := range roles {
			if claims.Role == string(role) {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Your role cannot perform this action")
	}
}

// GetStaff extracts the session claims stored by RequireStaff
func GetStaff(c *gin.Context) (*services.StaffClaims, error) {
	value, exists := c.Get(staffKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Staff claims not found in context"}
	}
	claims, ok := value.(*services.StaffClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Staff claims are not in the expected format"}
	}
	return claims, nil
}
