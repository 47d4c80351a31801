package response

import (
	"github.com/gin-gonic/gin"
)

// ContentType is set explicitly so gin does not append a charset.
const ContentType = "application/json"

// SuccessResponse is the body of every successful submission.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"Name, email, and message are required."`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Success    bool   `json:"success"`
	Status     string `json:"status"`
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
}

// Success sends {"success":true}
func Success(c *gin.Context, code int) {
	JSON(c, code, SuccessResponse{Success: true})
}

// Error sends {"error": message}
func Error(c *gin.Context, code int, message string) {
	JSON(c, code, ErrorResponse{Error: message})
}

// AbortWithError sends {"error": message} and stops the handler chain.
func AbortWithError(c *gin.Context, code int, message string) {
	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// JSON writes obj with Content-Type: application/json.
func JSON(c *gin.Context, code int, obj any) {
	c.Header("Content-Type", ContentType)
	c.JSON(code, obj)
}
