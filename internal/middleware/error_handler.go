package middleware

import (
	"github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached to the context.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := errors.MapError(c.Errors.Last().Err)
		logger.GlobalLogger.Errorf("Request failed: request_id=%s, path=%s, method=%s, client_ip=%s, code=%s, error=%s",
			c.GetString(RequestIDKey),
			c.Request.URL.Path,
			c.Request.Method,
			c.ClientIP(),
			appErr.Code,
			appErr.TechnicalMessage)

		c.JSON(appErr.HTTPStatus, gin.H{
			"error": gin.H{
				"message": appErr.UserMessage,
				"code":    appErr.Code,
			},
		})
	}
}
