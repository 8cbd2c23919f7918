package api

import (
	"marketplace-service/internal/models"

	"github.com/gin-gonic/gin"
)

// createPaymentIntent opens a Stripe payment for a pending order
func (h *Handler) createPaymentIntent(c *gin.Context) {
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

	intent, err := h.paymentService.CreateIntent(c.Request.Context(), order)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, intent)
}

// confirmPayment re-checks the Stripe intent and settles the payment state
func (h *Handler) confirmPayment(c *gin.Context) {
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

	payment, err := h.paymentService.Confirm(c.Request.Context(), order)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, payment)
}

// refundOrder refunds a completed payment (admin)
func (h *Handler) refundOrder(c *gin.Context) {
	orderID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, getPrincipal(c).SubjectID(), true)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.paymentService.Refund(c.Request.Context(), order); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"refunded": true})
}
