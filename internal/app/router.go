package app

import (
	"time"

	"quizleader_backend/docs"
	"quizleader_backend/internal/config"
	"quizleader_backend/internal/middleware"
	"quizleader_backend/internal/model"
	"quizleader_backend/pkg/monitoring"
	"quizleader_backend/pkg/security"
	"quizleader_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1200
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/login", c.auth.Login)

		// 注册单独收紧限流
		public.POST("/auth/register", security.RateLimiter(10, time.Minute), c.auth.Register)

		// 排行榜与题库浏览允许游客访问
		public.GET("/quiz/subject-leaderboard/:subject_id", c.leaderboard.SubjectLeaderboard)
		public.GET("/quiz/global-leaderboard", c.leaderboard.GlobalLeaderboard)
		public.GET("/quiz/subjects", c.subject.ListSubjects)
		public.GET("/quiz/subjects/:subject_id", c.subject.GetSubject)
		public.GET("/quiz/lessons/:subject_id", c.lesson.ListLessons)
		public.GET("/quiz/questions/:lesson_id", c.question.ListQuestions)
	}

	// 2. 需要登录的玩法路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.POST("/quiz/game/start/:lesson_id", c.quiz.StartQuiz)
		authGroup.POST("/quiz/game/submit/:attempt_id", c.quiz.SubmitQuiz)
		authGroup.GET("/quiz/game/attempts", c.quiz.MyAttempts)
	}

	// 3. 内容管理：仅管理员可写
	adminGroup := router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/quiz/subjects", c.subject.CreateSubject)
		adminGroup.DELETE("/quiz/subjects/:subject_id", c.subject.DeleteSubject)
		adminGroup.POST("/quiz/lessons/:subject_id", c.lesson.CreateLesson)
		adminGroup.DELETE("/quiz/lessons/delete/:lesson_id", c.lesson.DeleteLesson)
		adminGroup.POST("/quiz/questions/:lesson_id", c.question.CreateQuestion)
		adminGroup.GET("/quiz/questions/detail/:question_id", c.question.GetQuestion)
		adminGroup.PUT("/quiz/questions/detail/:question_id", c.question.UpdateQuestion)
		adminGroup.DELETE("/quiz/questions/detail/:question_id", c.question.DeleteQuestion)
	}
}
