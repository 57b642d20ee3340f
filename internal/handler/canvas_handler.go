package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/canvas"
	"github.com/jengzang/thinking-wizard-backend-go/internal/middleware"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// CanvasHandler handles HTTP requests for lesson graphs
type CanvasHandler struct {
	persister *canvas.Persister
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(persister *canvas.Persister) *CanvasHandler {
	return &CanvasHandler{persister: persister}
}

func (h *CanvasHandler) canvas(c *gin.Context) (*canvas.Canvas, bool) {
	cv, err := h.persister.Get(c.Request.Context(), middleware.UserID(c), c.Param("lesson"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load lesson", err)
		return nil, false
	}
	return cv, true
}

// GetGraph handles GET /api/v1/lessons/:lesson/graph
func (h *CanvasHandler) GetGraph(c *gin.Context) {
	cv, ok := h.canvas(c)
	if !ok {
		return
	}
	state := cv.State()
	response.Success(c, gin.H{
		"graph":    state.Graph,
		"game":     state.Game,
		"progress": cv.Progress(),
		"saved_at": state.SavedAt,
	})
}

// PutGraph handles PUT /api/v1/lessons/:lesson/graph
func (h *CanvasHandler) PutGraph(c *gin.Context) {
	var g models.Graph
	if err := c.ShouldBindJSON(&g); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid graph", err)
		return
	}
	cv, ok := h.canvas(c)
	if !ok {
		return
	}

	graph, err := cv.SetGraph(g)
	if err != nil {
		response.Error(c, statusFor(err), "Invalid graph", err)
		return
	}
	response.Success(c, graph)
}

// Save handles POST /api/v1/lessons/:lesson/graph/save
func (h *CanvasHandler) Save(c *gin.Context) {
	savedAt, err := h.persister.SaveNow(c.Request.Context(), middleware.UserID(c), c.Param("lesson"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to save lesson", err)
		return
	}
	response.Success(c, gin.H{"saved_at": savedAt})
}

// Answer handles POST /api/v1/lessons/:lesson/answers
func (h *CanvasHandler) Answer(c *gin.Context) {
	var req models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	cv, ok := h.canvas(c)
	if !ok {
		return
	}

	result, err := cv.Answer(req.NodeID, req.Correct)
	if err != nil {
		response.Error(c, statusFor(err), "Failed to record answer", err)
		return
	}
	response.Success(c, result)
}
