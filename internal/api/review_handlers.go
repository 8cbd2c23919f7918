package api

import (
	"net/http"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

type moderateRequest struct {
	Approve bool `json:"approve"`
}

// createReview submits a review for a purchased product
func (h *Handler) createReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, review)
}

// listProductReviews returns approved reviews for a product
func (h *Handler) listProductReviews(c *gin.Context) {
	productID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	page, limit := parsePageQuery(c)

	reviews, total, err := h.reviewService.ListByProduct(c.Request.Context(), productID, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, reviews, newPagination(page, limit, total))
}

// listPendingReviews returns reviews awaiting moderation (admin)
func (h *Handler) listPendingReviews(c *gin.Context) {
	page, limit := parsePageQuery(c)

	reviews, total, err := h.reviewService.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, reviews, newPagination(page, limit, total))
}

// moderateReview approves or rejects a review (admin)
func (h *Handler) moderateReview(c *gin.Context) {
	reviewID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reviewService.Moderate(c.Request.Context(), reviewID, req.Approve); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"approved": req.Approve})
}
