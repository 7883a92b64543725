package meta

import (
	"context"
	"net/http"
	"time"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker reports whether the persistence unit can reach its database
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler handles meta endpoints (health check)
type Handler struct {
	cfg     *config.Config
	checker HealthChecker
}

// NewHandler creates a new meta handler
func NewHandler(cfg *config.Config, checker HealthChecker) *Handler {
	return &Handler{
		cfg:     cfg,
		checker: checker,
	}
}

// Health checks service and database health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	service := gin.H{
		"name":        h.cfg.App.Name,
		"environment": h.cfg.App.Env,
		"unit":        h.cfg.Persistence.Unit,
		"driver":      h.cfg.Database.Driver,
	}

	start := time.Now()
	if err := h.checker.HealthCheck(ctx); err != nil {
		logger.FromContext(ctx).Error("Health check 실패", "error", err)

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": service,
			"checks": gin.H{
				"database": gin.H{
					"status": "down",
					"error":  err.Error(),
				},
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": service,
		"checks": gin.H{
			"database": gin.H{
				"status":     "up",
				"latency_ms": time.Since(start).Milliseconds(),
			},
		},
	})
}
