package middleware

import (
	"strings"
	"time"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS applies the configured cross-origin policy and exposes X-Request-ID to browsers
func CORS(cfg *config.Config) gin.HandlerFunc {
	return cors.New(corsConfig(cfg.CORS))
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     trimAll(cfg.AllowedMethods),
		AllowHeaders:     trimAll(cfg.AllowedHeaders),
		AllowCredentials: cfg.AllowCredentials,
		ExposeHeaders:    []string{RequestIDHeader},
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}

	origins := trimAll(cfg.AllowedOrigins)
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}

	return corsConfig
}

// trimAll drops the blanks left by comma separated env values
func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	return trimmed
}
