package app

import (
	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/controller"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/pkg/database"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"
	"adaptive_edu_backend/pkg/security"
	"adaptive_edu_backend/pkg/tracing"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	user                *repository.UserRepository
	module              *repository.ModuleRepository
	quiz                *repository.QuizRepository
	progress            *repository.ProgressRepository
	catalog             *repository.CatalogRepository
	recommendationCache *repository.RecommendationCacheRepository
}

type services struct {
	auth           *service.AuthService
	content        *service.ContentService
	progress       *service.ProgressService
	adaptive       *service.AdaptiveService
	refresher      *service.AdaptiveRefresher
	recommendation *service.RecommendationService
	xapi           *service.XAPIService
}

type controllers struct {
	auth     *controller.AuthController
	content  *controller.ContentController
	progress *controller.ProgressController
	adaptive *controller.AdaptiveController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		user:     repository.NewUserRepository(db),
		module:   repository.NewModuleRepository(db),
		quiz:     repository.NewQuizRepository(db),
		progress: repository.NewProgressRepository(db),
	}
	repos.catalog = repository.NewCatalogRepository(repos.module, repos.quiz)
	if rdb != nil {
		repos.recommendationCache = repository.NewRecommendationCacheRepository(rdb)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(repos.module, repos.quiz)
	s.adaptive = service.NewAdaptiveService(repos.progress, repos.catalog, cfg.Adaptive.HistoryWindow)

	var reporter service.CompletionReporter
	if cfg.XAPI.Enabled {
		s.xapi = service.NewXAPIService(cfg.XAPI, repos.user, repos.module)
		reporter = s.xapi
		logger.Log.Info("xAPI reporting enabled", zap.String("endpoint", cfg.XAPI.Endpoint))
	}
	s.refresher = service.NewAdaptiveRefresher(repos.progress, reporter, cfg.Adaptive.RefreshWorkers, cfg.Adaptive.RefreshQueueSize)

	s.progress = service.NewProgressService(repos.progress, repos.module, repos.quiz, s.refresher)

	var cache service.RecommendationCache
	if repos.recommendationCache != nil {
		cache = repos.recommendationCache
	}
	s.recommendation = service.NewRecommendationService(s.adaptive, cache, cfg.Adaptive.CacheTTL())

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		content:  controller.NewContentController(s.content),
		progress: controller.NewProgressController(s.progress),
		adaptive: controller.NewAdaptiveController(s.recommendation, s.adaptive, s.content),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	s.refresher.Start()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	// Redis 只用于推荐缓存，不可用时降级运行
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, recommendation cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("adaptive-edu-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)
	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 请求停止后再排空刷新队列
	if a.services != nil {
		a.services.refresher.Stop()
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
