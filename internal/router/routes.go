package router

import (
	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/member"
	"github.com/changhyeonkim/hello-orm/internal/meta"
	"github.com/changhyeonkim/hello-orm/internal/persistence"
	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
	"github.com/changhyeonkim/hello-orm/internal/shared/middleware"
	"github.com/changhyeonkim/hello-orm/internal/shared/token"
	"github.com/gin-gonic/gin"
)

// Setup configures all application-specific routes using dependency injection
func Setup(router *gin.Engine, cfg *config.Config, emf *persistence.EntityManagerFactory, tokenManager token.Manager) {
	// Meta handler (health check, metrics)
	metaHandler := meta.NewHandler(cfg, emf)
	router.GET("/health", metaHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// repository
	memberRepository := member.NewMemberRepository()

	// service
	memberService := member.NewMemberService(emf, memberRepository)

	// handler
	memberHandler := member.NewMemberHandler(memberService)

	// API v1 routes
	memberV1 := router.Group("/api/v1/members")
	{
		memberV1.GET("/:id", memberHandler.GetMember)
	}

	securedMemberV1 := router.Group("/api/v1/members")
	securedMemberV1.Use(middleware.JWT(tokenManager))
	{
		securedMemberV1.POST("", memberHandler.Register)
		securedMemberV1.PUT("/:id/name", memberHandler.Rename)
		securedMemberV1.DELETE("/:id", memberHandler.Remove)
	}
}
