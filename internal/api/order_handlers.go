package api

import (
	"net/http"

	"marketplace-service/internal/models"
	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

type cancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

type returnRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Reason    string `json:"reason" binding:"required"`
}

type orderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	TrackingID string `json:"tracking_id,omitempty"`
	Carrier    string `json:"carrier,omitempty"`
}

// placeOrder creates an order from the submitted items
func (h *Handler) placeOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, order)
}

// listOrders returns the caller's orders
func (h *Handler) listOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := parsePageQuery(c)

	orders, total, err := h.orderService.ListUserOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, orders, newPagination(page, limit, total))
}

// getOrder retrieves one order the caller owns
func (h *Handler) getOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, userID, getPrincipal(c).Role == models.RoleAdmin)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, order)
}

// cancelOrder cancels an order that has not started fulfillment
func (h *Handler) cancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req cancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.orderService.Cancel(c.Request.Context(), orderID, userID, getPrincipal(c).Role == models.RoleAdmin, req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, order)
}

// requestReturn opens a return for a delivered item
func (h *Handler) requestReturn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	productID, err := parseObjectIDHex(req.ProductID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product_id")
		return
	}

	if err := h.orderService.RequestReturn(c.Request.Context(), orderID, userID, productID, req.Quantity, req.Reason); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"requested": true})
}

// listVendorOrders returns orders containing the caller's items
func (h *Handler) listVendorOrders(c *gin.Context) {
	page, limit := parsePageQuery(c)
	ownerID, _ := ownerIdentity(getPrincipal(c))

	orders, total, err := h.orderService.ListVendorOrders(c.Request.Context(), ownerID, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, orders, newPagination(page, limit, total))
}

// updateVendorOrderStatus advances the caller's sub-order
func (h *Handler) updateVendorOrderStatus(c *gin.Context) {
	orderID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ownerID, _ := ownerIdentity(getPrincipal(c))

	if err := h.orderService.UpdateVendorStatus(c.Request.Context(), orderID, ownerID, req.Status, req.TrackingID, req.Carrier); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// listAllOrders returns every order, optionally filtered by status (admin)
func (h *Handler) listAllOrders(c *gin.Context) {
	page, limit := parsePageQuery(c)

	orders, total, err := h.orderService.ListAllOrders(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, orders, newPagination(page, limit, total))
}

// updateOrderStatus advances the order-level status (admin)
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}
