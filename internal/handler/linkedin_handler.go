package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// LinkedInHandler handles bulk imports of LinkedIn data
type LinkedInHandler struct {
	service *service.LinkedInService
}

// NewLinkedInHandler creates a new LinkedIn handler
func NewLinkedInHandler(service *service.LinkedInService) *LinkedInHandler {
	return &LinkedInHandler{service: service}
}

// ImportProfiles handles POST /api/v1/admin/linkedin/profiles
func (h *LinkedInHandler) ImportProfiles(c *gin.Context) {
	var profiles []models.LinkedInProfile
	if err := c.ShouldBindJSON(&profiles); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ids, err := h.service.ImportProfiles(c.Request.Context(), profiles)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to import profiles", err)
		return
	}
	response.Success(c, gin.H{"ids": ids, "count": len(ids)})
}

// ImportPosts handles POST /api/v1/admin/linkedin/posts
func (h *LinkedInHandler) ImportPosts(c *gin.Context) {
	var posts []models.LinkedInPost
	if err := c.ShouldBindJSON(&posts); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ids, err := h.service.ImportPosts(c.Request.Context(), posts)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to import posts", err)
		return
	}
	response.Success(c, gin.H{"ids": ids, "count": len(ids)})
}
