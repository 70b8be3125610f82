package controllers

import (
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/gin-gonic/gin"
)

// CreateWaitstaffRequest represents the request body for a new staff member
type CreateWaitstaffRequest struct {
	Name     string           `json:"name" binding:"required"`
	Password string           `json:"password" binding:"required"`
	Role     models.StaffRole `json:"role" binding:"required"`
}

// ListWaitstaff handles GET /api/v1/stores/:slug/waitstaff
func (ctl *Controller) ListWaitstaff(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	members, err := ctl.Staff.List(c.Request.Context(), t)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load staff")
		return
	}
	respond(c, http.StatusOK, members)
}

// CreateWaitstaff handles POST /api/v1/stores/:slug/waitstaff
func (ctl *Controller) CreateWaitstaff(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	var req CreateWaitstaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := ctl.Staff.Create(c.Request.Context(), t, req.Name, req.Password, req.Role)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to create staff member")
		return
	}
	respond(c, http.StatusCreated, member)
}

// DeleteWaitstaff handles DELETE /api/v1/stores/:slug/waitstaff/:id.
// Managers cannot delete themselves.
func (ctl *Controller) DeleteWaitstaff(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == claims.Subject {
		respondError(c, http.StatusBadRequest, "CANNOT_DELETE_SELF", "You cannot delete your own account")
		return
	}
	if err := ctl.Staff.Delete(c.Request.Context(), t, id); err != nil {
		ctl.handleServiceError(c, err, "Failed to delete staff member")
		return
	}
	c.Status(http.StatusNoContent)
}
