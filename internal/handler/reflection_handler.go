package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/autosave"
	"github.com/jengzang/thinking-wizard-backend-go/internal/middleware"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// ReflectionHandler handles HTTP requests for reflections
type ReflectionHandler struct {
	service *service.ReflectionService
	drafts  *autosave.Registry
}

// NewReflectionHandler creates a new reflection handler
func NewReflectionHandler(service *service.ReflectionService, drafts *autosave.Registry) *ReflectionHandler {
	return &ReflectionHandler{service: service, drafts: drafts}
}

func reflectionKey(c *gin.Context) (models.ReflectionKey, bool) {
	session, err := strconv.Atoi(c.Param("session"))
	if err != nil || session < 1 {
		response.BadRequest(c, "Invalid session number")
		return models.ReflectionKey{}, false
	}
	lecture, err := strconv.Atoi(c.Param("lecture"))
	if err != nil || lecture < 1 {
		response.BadRequest(c, "Invalid lecture number")
		return models.ReflectionKey{}, false
	}
	return models.ReflectionKey{
		UserID:        middleware.UserID(c),
		SessionNumber: session,
		LectureNumber: lecture,
	}, true
}

// Save handles PUT /api/v1/reflections/:session/:lecture
func (h *ReflectionHandler) Save(c *gin.Context) {
	key, ok := reflectionKey(c)
	if !ok {
		return
	}
	var req models.ReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// An explicit save supersedes any pending draft
	h.drafts.Discard(key)

	if err := h.service.Save(c.Request.Context(), models.Reflection{ReflectionKey: key, Content: req.Content}); err != nil {
		response.Error(c, statusFor(err), "Failed to save reflection", err)
		return
	}

	ref, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to get reflection", err)
		return
	}
	response.Success(c, ref)
}

// SaveDraft handles PUT /api/v1/reflections/:session/:lecture/draft
func (h *ReflectionHandler) SaveDraft(c *gin.Context) {
	key, ok := reflectionKey(c)
	if !ok {
		return
	}
	var req models.ReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.drafts.Update(key, req.Content); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Autosave unavailable", err)
		return
	}
	c.JSON(http.StatusAccepted, response.Response{
		Code:    0,
		Message: "scheduled",
		Data:    gin.H{"pending": true},
	})
}

// DiscardDraft handles DELETE /api/v1/reflections/:session/:lecture/draft
func (h *ReflectionHandler) DiscardDraft(c *gin.Context) {
	key, ok := reflectionKey(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"cancelled": h.drafts.Discard(key)})
}

// List handles GET /api/v1/reflections
func (h *ReflectionHandler) List(c *gin.Context) {
	refs, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list reflections", err)
		return
	}
	response.Success(c, refs)
}

// Get handles GET /api/v1/reflections/:session/:lecture
func (h *ReflectionHandler) Get(c *gin.Context) {
	key, ok := reflectionKey(c)
	if !ok {
		return
	}
	ref, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to get reflection", err)
		return
	}
	response.Success(c, gin.H{"reflection": ref, "pending": h.drafts.Pending(key)})
}
