package controllers

import (
	"errors"
	"net/http"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/gin-gonic/gin"
)

// OpenRegisterRequest represents the request body for opening the register
type OpenRegisterRequest struct {
	InitialAmount float64 `json:"initialAmount"`
}

// CloseRegisterRequest represents the request body for closing the register
type CloseRegisterRequest struct {
	ClosedAmount *float64 `json:"closedAmount" binding:"required"`
}

// MovementRequest represents the request body for a withdrawal or deposit
type MovementRequest struct {
	Type        models.MovementType `json:"type" binding:"required"`
	Amount      float64             `json:"amount" binding:"required"`
	Description string              `json:"description"`
}

// GetRegister handles GET /api/v1/stores/:slug/register. A closed register
// is reported as open=false rather than an error.
func (ctl *Controller) GetRegister(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	summary, err := ctl.Register.Summary(c.Request.Context(), t)
	if errors.Is(err, services.ErrNoOpenSession) {
		respond(c, http.StatusOK, gin.H{"open": false})
		return
	}
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load register")
		return
	}
	respond(c, http.StatusOK, gin.H{"open": true, "summary": summary})
}

// OpenRegister handles POST /api/v1/stores/:slug/register/open
func (ctl *Controller) OpenRegister(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}

	var req OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctl.Register.Open(c.Request.Context(), t, cashier(claims), req.InitialAmount)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to open register")
		return
	}
	respond(c, http.StatusCreated, session)
}

// AddMovement handles POST /api/v1/stores/:slug/register/movements
func (ctl *Controller) AddMovement(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}

	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	movement, err := ctl.Register.AddMovement(c.Request.Context(), t, cashier(claims), req.Type, req.Amount, req.Description)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to record movement")
		return
	}
	respond(c, http.StatusCreated, movement)
}

// CloseRegister handles POST /api/v1/stores/:slug/register/close
func (ctl *Controller) CloseRegister(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}

	var req CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctl.Register.Close(c.Request.Context(), t, cashier(claims), *req.ClosedAmount)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to close register")
		return
	}
	respond(c, http.StatusOK, session)
}

func cashier(claims *services.StaffClaims) services.Cashier {
	return services.Cashier{ID: claims.Subject, Name: claims.Name}
}
