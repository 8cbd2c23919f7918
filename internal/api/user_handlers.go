package api

import (
	"net/http"

	"marketplace-service/internal/models"
	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

type suspendRequest struct {
	Suspended bool `json:"suspended"`
}

// getProfile returns the authenticated principal
func (h *Handler) getProfile(c *gin.Context) {
	principal := getPrincipal(c)
	respondOK(c, gin.H{"user": principal.User, "seller": principal.Seller, "role": principal.Role})
}

// updateProfile applies profile changes
func (h *Handler) updateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, user)
}

// setAddresses replaces the caller's address book
func (h *Handler) setAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var addresses []models.Address
	if err := c.ShouldBindJSON(&addresses); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.SetAddresses(c.Request.Context(), userID, addresses)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, user)
}

// setPreferences replaces the caller's preferences
func (h *Handler) setPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.SetPreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, user)
}

// getWishlist resolves the caller's wishlist into products
func (h *Handler) getWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	products, err := h.userService.Wishlist(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, products)
}

// addToWishlist adds a product to the caller's wishlist
func (h *Handler) addToWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseObjectIDParam(c, "productId")
	if !ok {
		return
	}

	if err := h.userService.AddToWishlist(c.Request.Context(), userID, productID); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"added": true})
}

// removeFromWishlist removes a product from the caller's wishlist
func (h *Handler) removeFromWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseObjectIDParam(c, "productId")
	if !ok {
		return
	}

	if err := h.userService.RemoveFromWishlist(c.Request.Context(), userID, productID); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"removed": true})
}

// listUsers returns users with pagination (admin)
func (h *Handler) listUsers(c *gin.Context) {
	page, limit := parsePageQuery(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, users, newPagination(page, limit, total))
}

// suspendUser toggles a user's suspension (admin)
func (h *Handler) suspendUser(c *gin.Context) {
	userID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.Suspend(c.Request.Context(), userID, req.Suspended); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"suspended": req.Suspended})
}
