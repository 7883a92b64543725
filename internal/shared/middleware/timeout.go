package middleware

import (
	"context"
	"errors"
	"time"

	sharedError "github.com/changhyeonkim/hello-orm/internal/shared/error"
	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

const DefaultTimeout = 30 * time.Second

// Timeout bounds each request with a deadline. The deadline reaches the
// database through the request context, so a slow query or commit is cancelled.
// When the handler gave up without writing, a 503 REQUEST_TIMEOUT body is sent.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		logger.FromContext(ctx).Warn("Request deadline exceeded",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"timeout", timeout.String(),
			"status", c.Writer.Status(),
		)

		if !c.Writer.Written() {
			resp := sharedError.RequestTimeout.WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(resp.Status, resp)
		}
	}
}

// IsTimeout reports whether the request deadline has passed
func IsTimeout(c *gin.Context) bool {
	return errors.Is(c.Request.Context().Err(), context.DeadlineExceeded)
}
