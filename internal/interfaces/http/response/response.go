package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	ErrorWithFields(c, err, nil)
}

// ErrorWithFields sends an error response that redisplays the submitted non-sensitive fields
func ErrorWithFields(c *gin.Context, err error, fields gin.H) {
	appErr := domainerrors.FromError(err)
	if appErr == nil {
		appErr = domainerrors.InternalServerError("unknown error")
	}
	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(appErr.Status, body)
}

// ValidationError sends a 400 response listing per-field messages
func ValidationError(c *gin.Context, code, message string, errs map[string]string, fields gin.H) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
