package api

import (
	"net/http"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

// getSellerProfile returns the caller's seller document
func (h *Handler) getSellerProfile(c *gin.Context) {
	respondOK(c, getPrincipal(c).Seller)
}

// updateSellerProfile applies profile changes to the caller's seller document
func (h *Handler) updateSellerProfile(c *gin.Context) {
	var req service.SellerProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	seller, err := h.userService.UpdateSellerProfile(c.Request.Context(), getPrincipal(c).Seller.ID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, seller)
}

// listSellers returns sellers, optionally only those awaiting approval (admin)
func (h *Handler) listSellers(c *gin.Context) {
	page, limit := parsePageQuery(c)
	pendingOnly := c.Query("pending") == "true"

	sellers, total, err := h.userService.ListSellers(c.Request.Context(), pendingOnly, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, sellers, newPagination(page, limit, total))
}

// approveSeller approves a pending seller (admin)
func (h *Handler) approveSeller(c *gin.Context) {
	sellerID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.ApproveSeller(c.Request.Context(), sellerID); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"approved": true})
}

// suspendSeller toggles a seller's suspension (admin)
func (h *Handler) suspendSeller(c *gin.Context) {
	sellerID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.SuspendSeller(c.Request.Context(), sellerID, req.Suspended); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"suspended": req.Suspended})
}
