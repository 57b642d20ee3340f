package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/storage"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

// StorageHandler serves public objects
type StorageHandler struct {
	store *storage.ObjectStore
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(store *storage.ObjectStore) *StorageHandler {
	return &StorageHandler{store: store}
}

// GetObject handles GET /storage/v1/object/public/:bucket/*key
func (h *StorageHandler) GetObject(c *gin.Context) {
	bucket := c.Param("bucket")
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		response.BadRequest(c, "Object key is required")
		return
	}

	data, info, err := h.store.Download(c.Request.Context(), bucket, key)
	if errors.Is(err, storage.ErrNotFound) {
		response.NotFound(c, "Object not found")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to read object", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, info.ContentType, data)
}
