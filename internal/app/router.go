package app

import (
	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/middleware"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/modules", c.content.ListModules)
	rg.GET("/modules/:id", c.content.GetModule)
	rg.GET("/quizzes", c.content.ListQuizzes)
	rg.GET("/quizzes/:id", c.content.GetQuiz)

	rg.GET("/progress", c.progress.ListProgress)
	rg.POST("/progress", c.progress.RecordProgress)
	rg.GET("/progress/stats", c.progress.GetStats)

	adaptive := rg.Group("/adaptive")
	{
		adaptive.GET("/recommendation", c.adaptive.GetRecommendation)
		adaptive.GET("/profile", c.adaptive.GetLearnerProfile)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/modules", c.content.CreateModule)
		teacher.PUT("/modules/:id", c.content.UpdateModule)
		teacher.DELETE("/modules/:id", c.content.DeleteModule)
		teacher.POST("/quizzes", c.content.CreateQuiz)
		teacher.DELETE("/quizzes/:id", c.content.DeleteQuiz)
	}
}
