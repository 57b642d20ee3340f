package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FunctionResponse is the envelope of the /functions routes
type FunctionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response; a non-nil err is appended to the message
func Error(c *gin.Context, code int, message string, errs ...error) {
	for _, err := range errs {
		if err != nil {
			message += ": " + err.Error()
		}
	}
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FunctionSuccess sends {success: true, data}
func FunctionSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, FunctionResponse{Success: true, Data: data})
}

// FunctionError sends {success: false, error}
func FunctionError(c *gin.Context, code int, message string) {
	c.JSON(code, FunctionResponse{Success: false, Error: message})
}
