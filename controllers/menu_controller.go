package controllers

import (
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/gin-gonic/gin"
)

// CreateCategoryRequest represents the request body for a new category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpsertProduct handles PUT /api/v1/stores/:slug/products
func (ctl *Controller) UpsertProduct(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	var req models.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctl.Menu.UpsertProduct(c.Request.Context(), t, req)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to save product")
		return
	}
	respond(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/stores/:slug/products/:id
func (ctl *Controller) DeleteProduct(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	if err := ctl.Menu.DeleteProduct(c.Request.Context(), t, c.Param("id")); err != nil {
		ctl.handleServiceError(c, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCategory handles POST /api/v1/stores/:slug/categories
func (ctl *Controller) CreateCategory(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := ctl.Menu.CreateCategory(c.Request.Context(), t, req.Name)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to create category")
		return
	}
	respond(c, http.StatusCreated, category)
}

// DeleteCategory handles DELETE /api/v1/stores/:slug/categories/:name
func (ctl *Controller) DeleteCategory(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	if err := ctl.Menu.DeleteCategory(c.Request.Context(), t, c.Param("name")); err != nil {
		ctl.handleServiceError(c, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}
