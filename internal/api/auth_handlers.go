package api

import (
	"net/http"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// registerUser handles customer and vendor registration
func (h *Handler) registerUser(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, user)
}

// loginUser handles user login
func (h *Handler) loginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := h.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user, "tokens": pair})
}

// registerSeller handles seller registration
func (h *Handler) registerSeller(c *gin.Context) {
	var req service.RegisterSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	seller, err := h.authService.RegisterSeller(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, seller)
}

// loginSeller handles seller login
func (h *Handler) loginSeller(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	seller, pair, err := h.authService.LoginSeller(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"seller": seller, "tokens": pair})
}

// refreshToken exchanges a refresh token for a new pair
func (h *Handler) refreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, pair)
}
