package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the request body for staff login
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/stores/:slug/login - staff sign-in
func (ctl *Controller) Login(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctl.Staff.Login(c.Request.Context(), t, req.Name, req.Password)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to sign in")
		return
	}
	respond(c, http.StatusOK, session)
}

// Logout handles POST /api/v1/stores/:slug/logout - revokes the session
func (ctl *Controller) Logout(c *gin.Context) {
	claims, ok := staff(c)
	if !ok {
		return
	}
	if err := ctl.Sessions.Revoke(c.Request.Context(), claims); err != nil {
		ctl.handleServiceError(c, err, "Failed to sign out")
		return
	}
	c.Status(http.StatusNoContent)
}
