package bootstrap

import (
	"io"
	"log/slog"

	"github.com/changhyeonkim/hello-orm/internal/config"
	sharedError "github.com/changhyeonkim/hello-orm/internal/shared/error"
	"github.com/changhyeonkim/hello-orm/internal/shared/middleware"
	"github.com/gin-gonic/gin"
)

// Bootstrap builds the gin engine shared by every route set
type Bootstrap struct {
	cfg *config.Config
}

// NewBootstrap creates a new bootstrap instance
func NewBootstrap(cfg *config.Config) *Bootstrap {
	return &Bootstrap{
		cfg: cfg,
	}
}

// SetupEngine creates a gin engine with the common middleware chain
func (b *Bootstrap) SetupEngine() *gin.Engine {
	switch {
	case b.cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case b.cfg.App.Env == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// Disable Gin's default logger (using slog)
	gin.DefaultWriter = io.Discard
	gin.DefaultErrorWriter = io.Discard

	engine := gin.New()

	engine.Use(gin.CustomRecovery(b.recoveryHandler))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(b.cfg))
	engine.Use(middleware.Timeout(middleware.DefaultTimeout))
	engine.Use(middleware.LoggerMiddleware())
	engine.Use(middleware.Metrics())

	return engine
}

// recoveryHandler handles panics
func (b *Bootstrap) recoveryHandler(c *gin.Context, recovered any) {
	slog.Error("Panic Recovered",
		"error", recovered,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.GetRequestID(c),
	)

	resp := sharedError.InternalServerError.WithRequestID(middleware.GetRequestID(c))
	c.AbortWithStatusJSON(resp.Status, resp)
}
