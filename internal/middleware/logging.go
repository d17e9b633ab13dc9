package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qconnect/clinic-api/internal/constants"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// RequestContext assigns a request ID and seeds the request context with
// tracing metadata. Runs first so every later log line carries the ID.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.NewRequestContext(c.Request.Context(), requestID, c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-Id", requestID)

		c.Next()
	}
}

// RequestLogger logs one line per handled request with timing.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.LogRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			c.ClientIP(),
			c.Request.UserAgent(),
		)
	}
}

// Recovery converts panics into a 500 with the standard error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.LogPanic(recovered)
				c.AbortWithStatusJSON(
					http.StatusInternalServerError,
					constants.BuildErrorResponse(
						apperrors.GetErrorMessage(apperrors.ErrInternal),
						apperrors.GetErrorCode(apperrors.ErrInternal),
						nil,
					),
				)
			}
		}()
		c.Next()
	}
}
