package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/interfaces/http/response"
	"tutorhub.backend/pkg/logger"
	"tutorhub.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	idempotencyProcessing = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
	redisIsNil = redis.IsNil
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// IdempotencyMiddleware replays the stored response of a request retried with the same
// Idempotency-Key on the same route. Only successful responses are kept.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		storageKey := "idempotency:" + c.FullPath() + ":" + key
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == idempotencyProcessing:
			response.ErrorWithError(c, http.StatusConflict, domainerrors.CodeIdempotencyConflict, "request already in progress")
			c.Abort()
			return
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil && cached.Status != 0 {
				c.Header("X-Idempotency-Hit", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", []byte(cached.Body))
				c.Abort()
				return
			}
		case !redisIsNil(err):
			logger.Warn(ctx, "Idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, idempotencyProcessing, LockDuration)
		if err != nil || !acquired {
			response.ErrorWithError(c, http.StatusConflict, domainerrors.CodeIdempotencyConflict, "request already in progress")
			c.Abort()
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			payload, _ := json.Marshal(cachedResponse{Status: status, Body: w.body.String()})
			_ = redisSet(ctx, storageKey, string(payload), RetentionDuration)
			return
		}
		// let the client retry after a failure
		_ = redisDel(ctx, storageKey)
	}
}
