package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/middleware"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// AnalysisHandler handles HTTP requests for the LinkedIn analysis
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze handles POST /functions/v1/analyze-linkedin
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FunctionError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Trigger(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		response.FunctionError(c, statusFor(err), err.Error())
		return
	}
	response.FunctionSuccess(c, result)
}

// ListRuns handles GET /api/v1/admin/analysis/runs
func (h *AnalysisHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, err := h.service.ListRuns(c.Request.Context(), c.Query("action"), c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list analysis runs", err)
		return
	}
	response.Success(c, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun handles GET /api/v1/admin/analysis/runs/:id
func (h *AnalysisHandler) GetRun(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid run ID", err)
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to get analysis run", err)
		return
	}
	response.Success(c, run)
}
