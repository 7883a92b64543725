package context

import (
	"context"

	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

// Context keys for storing authentication information
const (
	SubjectKey = "subject"
)

// GetSubject returns the authenticated operator set by the JWT middleware
func GetSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get(SubjectKey)
	if !exists {
		return "", false
	}

	s, ok := subject.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// RequestContext returns the request context with the operator bound to its logger.
// Anonymous requests get the request context unchanged.
func RequestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()

	subject, ok := GetSubject(c)
	if !ok {
		return ctx
	}
	return logger.WithLogger(ctx, logger.FromContext(ctx).With("operator", subject))
}
