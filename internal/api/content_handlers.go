package api

import (
	"net/http"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listBanners returns banners currently inside their visibility window
func (h *Handler) listBanners(c *gin.Context) {
	banners, err := h.contentService.ListBanners(c.Request.Context(), true)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, banners)
}

// listHomepageSections returns visible sections with their products resolved
func (h *Handler) listHomepageSections(c *gin.Context) {
	sections, err := h.contentService.ResolveSections(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, sections)
}

// createBanner stores a banner (admin)
func (h *Handler) createBanner(c *gin.Context) {
	var input service.BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	banner, err := h.contentService.CreateBanner(c.Request.Context(), &input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, banner)
}

// updateBanner edits a banner (admin)
func (h *Handler) updateBanner(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var input service.BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	banner, err := h.contentService.UpdateBanner(c.Request.Context(), id, &input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, banner)
}

// deleteBanner removes a banner (admin)
func (h *Handler) deleteBanner(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteBanner(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// listAllBanners returns every banner including inactive ones (admin)
func (h *Handler) listAllBanners(c *gin.Context) {
	banners, err := h.contentService.ListBanners(c.Request.Context(), false)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, banners)
}

// createHomepageSection stores a section (admin)
func (h *Handler) createHomepageSection(c *gin.Context) {
	var input service.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	section, err := h.contentService.CreateSection(c.Request.Context(), &input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, section)
}

// updateHomepageSection edits a section (admin)
func (h *Handler) updateHomepageSection(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var input service.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contentService.UpdateSection(c.Request.Context(), id, &input); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// deleteHomepageSection removes a section (admin)
func (h *Handler) deleteHomepageSection(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteSection(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// listAllHomepageSections returns every section including inactive ones (admin)
func (h *Handler) listAllHomepageSections(c *gin.Context) {
	sections, err := h.contentService.ListSections(c.Request.Context(), false)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, sections)
}
