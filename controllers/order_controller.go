package controllers

import (
	"net/http"
	"strconv"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateStatusRequest represents the request body for moving an order
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// AssignCourierRequest represents the request body for assigning a courier
type AssignCourierRequest struct {
	CourierID string `json:"courierId" binding:"required"`
}

// ListOrders handles GET /api/v1/stores/:slug/orders - newest orders first
func (ctl *Controller) ListOrders(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	orders, err := ctl.Orders.Recent(c.Request.Context(), t, status, limit)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load orders")
		return
	}
	respond(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/stores/:slug/orders/:id
func (ctl *Controller) GetOrder(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := ctl.Orders.Get(c.Request.Context(), t, id)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load order")
		return
	}
	respond(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/stores/:slug/orders
func (ctl *Controller) CreateOrder(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}

	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.WaitstaffName == "" {
		req.WaitstaffName = claims.Name
	}

	order, err := ctl.Orders.Create(c.Request.Context(), t, req)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to create order")
		return
	}
	respond(c, http.StatusCreated, order)
}

// PlaceCustomerOrder handles POST /api/v1/stores/:slug/menu/orders - orders
// from the public menu, no session required
func (ctl *Controller) PlaceCustomerOrder(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctl.Orders.PlaceCustomerOrder(c.Request.Context(), t, req)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to place order")
		return
	}
	ctl.Logger.Info("customer order placed", zap.String("store_id", t.ID()), zap.Int64("order_id", order.ID))
	respond(c, http.StatusCreated, order)
}

// UpdateOrderStatus handles PATCH /api/v1/stores/:slug/orders/:id/status.
// Couriers may only move their own deliveries out and to delivered;
// attendants need the store's permission to finish orders.
func (ctl *Controller) UpdateOrderStatus(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !req.Status.Valid() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
		return
	}

	switch models.StaffRole(claims.Role) {
	case models.RoleCourier:
		if req.Status != models.StatusOutForDelivery && req.Status != models.StatusDelivered {
			respondError(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Couriers can only move deliveries out or mark them delivered")
			return
		}
		current, err := ctl.Orders.Get(c.Request.Context(), t, id)
		if err != nil {
			ctl.handleServiceError(c, err, "Failed to load order")
			return
		}
		if current.DeliveryDriverID != claims.Subject {
			respondError(c, http.StatusForbidden, "NOT_ASSIGNED", "This delivery is not assigned to you")
			return
		}
	case models.RoleAttendant:
		if req.Status == models.StatusDelivered && !t.Store.Settings.CanWaitstaffFinishOrder {
			respondError(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Attendants cannot finish orders in this store")
			return
		}
	}

	order, err := ctl.Orders.UpdateStatus(c.Request.Context(), t, id, req.Status)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to update order")
		return
	}
	respond(c, http.StatusOK, order)
}

// AssignCourier handles PATCH /api/v1/stores/:slug/orders/:id/courier
func (ctl *Controller) AssignCourier(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctl.Orders.AssignCourier(c.Request.Context(), t, id, req.CourierID)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to assign courier")
		return
	}
	respond(c, http.StatusOK, order)
}

// ListDeliveries handles GET /api/v1/stores/:slug/deliveries - delivery
// orders that are ready or on the way
func (ctl *Controller) ListDeliveries(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}

	orders, err := ctl.Orders.Deliveries(c.Request.Context(), t)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to load deliveries")
		return
	}
	respond(c, http.StatusOK, orders)
}

// AcceptDelivery handles POST /api/v1/stores/:slug/deliveries/:id/accept -
// the signed-in courier takes the order
func (ctl *Controller) AcceptDelivery(c *gin.Context) {
	t, ok := tenant(c)
	if !ok {
		return
	}
	claims, ok := staff(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := ctl.Orders.AcceptDelivery(c.Request.Context(), t, id, claims.Subject)
	if err != nil {
		ctl.handleServiceError(c, err, "Failed to accept delivery")
		return
	}
	respond(c, http.StatusOK, order)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Order id must be a positive integer")
		return 0, false
	}
	return id, true
}
