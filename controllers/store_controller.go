package controllers

import (
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/gin-gonic/gin"
)

// GetStore handles GET /api/v1/stores/:slug - public store profile
func (ctl *Controller) GetStore(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, t.Store.Public())
}

// GetMenu handles GET /api/v1/stores/:slug/menu - active products and categories
func (ctl *Controller) GetMenu(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	menu, err := ctl.Menu.Snapshot(c.Request.Context(), t)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load menu")
		return
	}
	if c.Query("all") == "true" {
		respond(c, http.StatusOK, menu)
		return
	}
	respond(c, http.StatusOK, menu.Active())
}

// UpdateSettings handles PUT /api/v1/stores/:slug/settings (managers only)
func (ctl *Controller) UpdateSettings(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	var settings models.StoreSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := ctl.Stores.UpdateSettings(c.Request.Context(), t.ID(), settings)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to update settings")
		return
	}
	respond(c, http.StatusOK, profile.Public())
}
