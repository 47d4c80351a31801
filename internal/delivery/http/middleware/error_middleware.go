package middleware

import (
	"errors"
	"net/http"

	"farm-contact-api/internal/delivery/http/response"
	"farm-contact-api/pkg/apperror"
	"farm-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MsgUnexpected is shown for every failure we cannot describe safely.
const MsgUnexpected = "An unexpected error occurred. Please try calling us instead."

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString(RequestIDKey)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			// Only the message is rendered; the cause stays in the server log
			if appErr.Err != nil || appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed",
					"status", appErr.Code,
					"message", appErr.Message,
					"error", errString(appErr.Err),
					"request_id", requestID,
				)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		logger.Log.Error("Internal server error", "error", err.Error(), "request_id", requestID)
		response.Error(c, http.StatusInternalServerError, MsgUnexpected)
	}
}

// Recovery turns a panic into the generic 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("Panic recovered", "panic", recovered, "request_id", c.GetString(RequestIDKey))
		response.AbortWithError(c, http.StatusInternalServerError, MsgUnexpected)
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
