package api

import (
	"net/http"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type replaceCartRequest struct {
	Items []service.ReplaceItem `json:"items"`
}

// getCart returns the caller's cart
func (h *Handler) getCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, cart)
}

// addCartItem adds a product to the cart, clamped to available stock
func (h *Handler) addCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	productID, err := parseObjectIDHex(req.ProductID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product_id")
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, result)
}

// updateCartItem sets the quantity of a cart line
func (h *Handler) updateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseObjectIDParam(c, "productId")
	if !ok {
		return
	}

	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, result)
}

// removeCartItem drops a cart line
func (h *Handler) removeCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseObjectIDParam(c, "productId")
	if !ok {
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, 0)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, result)
}

// replaceCart syncs a client-local cart to the server, clamping every line
func (h *Handler) replaceCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req replaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.cartService.ReplaceCart(c.Request.Context(), userID, req.Items)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, result)
}

// clearCart empties the caller's cart
func (h *Handler) clearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"cleared": true})
}
