package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// HeatmapHandler handles HTTP requests for heatmap data
type HeatmapHandler struct {
	service *service.HeatmapService
	now     func() time.Time
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(service *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{service: service, now: time.Now}
}

func (h *HeatmapHandler) bindFilters(c *gin.Context) (models.HeatmapFilters, bool) {
	var q models.HeatmapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return models.HeatmapFilters{}, false
	}
	f, err := q.ToFilters(h.now())
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid filters", err)
		return models.HeatmapFilters{}, false
	}
	return f, true
}

// GetPoints handles GET /api/v1/heatmap/points
func (h *HeatmapHandler) GetPoints(c *gin.Context) {
	f, ok := h.bindFilters(c)
	if !ok {
		return
	}

	points, err := h.service.GetPoints(c.Request.Context(), f)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to get heatmap points", err)
		return
	}

	response.Success(c, models.HeatmapResponse{
		Points:  points,
		Count:   len(points),
		Filters: f,
	})
}

// GetLayers handles GET /api/v1/heatmap/layers
func (h *HeatmapHandler) GetLayers(c *gin.Context) {
	f, ok := h.bindFilters(c)
	if !ok {
		return
	}

	layers, err := h.service.GetLayers(c.Request.Context(), f)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to get heatmap layers", err)
		return
	}
	response.Success(c, layers)
}

// GetKeywords handles GET /api/v1/heatmap/keywords
func (h *HeatmapHandler) GetKeywords(c *gin.Context) {
	f, ok := h.bindFilters(c)
	if !ok {
		return
	}

	keywords, err := h.service.GetTopKeywords(c.Request.Context(), f)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to get top keywords", err)
		return
	}
	response.Success(c, keywords)
}
