package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"tutorhub.backend/pkg/logger"
)

// probePaths are hit by orchestrators and scrapers and are not logged per request
var probePaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// LoggerMiddleware logs one structured line per request. The matched route
// template is logged instead of the raw path so account ids and query
// strings stay out of the logs.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if probePaths[c.Request.URL.Path] {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
