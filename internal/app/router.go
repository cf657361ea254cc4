package app

import (
	"codementor_backend/docs"
	"codementor_backend/internal/middleware"
	"codementor_backend/pkg/monitoring"
	"codementor_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth, a.Config.JWT.CookieName))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/user", c.auth.CurrentUser)

		authGroup.GET("/assessment", c.assessment.GetAssessment)
		authGroup.POST("/assessment", c.assessment.SubmitAssessment)

		authGroup.GET("/guidance", c.guidance.GetGuidance)
		authGroup.POST("/guidance/refresh", a.refreshLimit(), c.guidance.RefreshGuidance)

		authGroup.GET("/resources", c.learning.GetResources)
		authGroup.GET("/progress", c.learning.GetProgress)
	}
}

// refreshLimit 每次刷新都会调用外部模型，按用户单独限流
func (a *App) refreshLimit() gin.HandlerFunc {
	perHour := a.Config.RateLimit.RefreshPerHour
	if perHour <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := security.NewLimiter(perHour, time.Hour, "Guidance refresh limit reached, please try again later")
	a.onClose(limiter.Close)
	return limiter.Middleware(security.UserKey)
}
