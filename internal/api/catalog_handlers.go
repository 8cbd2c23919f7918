package api

import (
	"net/http"
	"strconv"

	"marketplace-service/internal/models"
	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseObjectIDHex(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

// currentUserID returns the user side of the principal; endpoints that act
// on user-owned documents reject pure seller tokens.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	principal := getPrincipal(c)
	if principal == nil || principal.User == nil {
		respondError(c, http.StatusForbidden, "user account required")
		return primitive.NilObjectID, false
	}
	return principal.User.ID, true
}

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func parsePageQuery(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// searchProducts handles the public catalog query
func (h *Handler) searchProducts(c *gin.Context) {
	page, limit := parsePageQuery(c)

	params := service.SearchParams{
		Pincode:  c.Query("pincode"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Delivery: c.Query("delivery"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			respondError(c, http.StatusBadRequest, "invalid coordinates")
			return
		}
		params.Lat, params.Lng, params.HasCoords = lat, lng, true
		params.RadiusKm, _ = strconv.ParseFloat(c.DefaultQuery("radius_km", "10"), 64)
	}

	params.MinPrice, _ = strconv.ParseInt(c.Query("min_price"), 10, 64)
	params.MaxPrice, _ = strconv.ParseInt(c.Query("max_price"), 10, 64)

	products, total, err := h.catalogService.Search(c.Request.Context(), params)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, products, newPagination(page, limit, total))
}

// getProduct retrieves one product
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, product)
}

// createProduct creates a product owned by the caller
func (h *Handler) createProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	principal := getPrincipal(c)
	ownerID, ownerType := ownerIdentity(principal)

	product, err := h.catalogService.CreateProduct(c.Request.Context(), ownerID, ownerType, &input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, product)
}

// updateProduct edits a product the caller owns
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	principal := getPrincipal(c)
	ownerID, _ := ownerIdentity(principal)

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, ownerID, principal.Role == models.RoleAdmin, &input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, product)
}

// deleteProduct archives a product the caller owns
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	principal := getPrincipal(c)
	ownerID, _ := ownerIdentity(principal)

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id, ownerID, principal.Role == models.RoleAdmin); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// listOwnProducts retrieves the caller's products
func (h *Handler) listOwnProducts(c *gin.Context) {
	page, limit := parsePageQuery(c)
	ownerID, _ := ownerIdentity(getPrincipal(c))

	products, total, err := h.catalogService.ListOwnProducts(c.Request.Context(), ownerID, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondList(c, products, newPagination(page, limit, total))
}

// ownerIdentity picks the product-owning identity for a principal. Sellers
// own products through the seller document, vendors through the user one.
func ownerIdentity(principal *service.Principal) (primitive.ObjectID, string) {
	if principal.Seller != nil {
		return principal.Seller.ID, models.OwnerTypeSeller
	}
	return principal.User.ID, models.OwnerTypeVendor
}
