package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// ContentHandler handles AI generation requests
type ContentHandler struct {
	content *service.ContentService
	images  *service.ImageService
}

// NewContentHandler creates a new content handler
func NewContentHandler(content *service.ContentService, images *service.ImageService) *ContentHandler {
	return &ContentHandler{content: content, images: images}
}

// GenerateSocialContent handles POST /functions/v1/generate-social-content
func (h *ContentHandler) GenerateSocialContent(c *gin.Context) {
	var req models.SocialContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FunctionError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.content.Generate(c.Request.Context(), req)
	if err != nil {
		response.FunctionError(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateImage handles POST /functions/v1/generate-image
func (h *ContentHandler) GenerateImage(c *gin.Context) {
	var req models.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FunctionError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.images.Generate(c.Request.Context(), req)
	if err != nil {
		response.FunctionError(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
