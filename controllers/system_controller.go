package controllers

import (
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /api/v1/health
func (ctl *Controller) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Store API is running",
	})
}

// DatabaseStatus handles GET /api/v1/database/status - checks the main
// database and lists its tables
func (ctl *Controller) DatabaseStatus(c *gin.Context) {
	results, err := ctl.DB.WithMain().Batch(c.Request.Context(), bridge.TableStoreProfiles, bridge.Statement{
		SQL: "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	})
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to query tables")
		return
	}

	tables := []string{}
	for _, row := range results[0].Records() {
		if name, ok := row["name"].(string); ok {
			tables = append(tables, name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
