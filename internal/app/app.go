package app

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/controller"
	"codementor_backend/internal/repository"
	"codementor_backend/internal/service"
	"codementor_backend/pkg/configwatcher"
	"codementor_backend/pkg/database"
	"codementor_backend/pkg/logger"
	"codementor_backend/pkg/monitoring"
	"codementor_backend/pkg/security"
	"codementor_backend/pkg/tracing"
	"context"
	"log"
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
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	closers         []func()
}

type repositories struct {
	user  *repository.UserRepository
	store *repository.Store
}

type services struct {
	ai         *service.AIService
	auth       *service.AuthService
	assessment *service.AssessmentService
	guidance   *service.GuidanceService
}

type controllers struct {
	auth       *controller.AuthController
	assessment *controller.AssessmentController
	guidance   *controller.GuidanceController
	learning   *controller.LearningController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// onClose 注册关闭时需要释放的资源，按注册的逆序执行
func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close 停止限流器等后台协程
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// ApplyConfig 热加载后依次执行已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:  repository.NewUserRepository(db),
		store: repository.NewStore(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, ai *service.AIService) *services {
	s := &services{ai: ai}

	var (
		locker service.UserLocker = service.NewLocalLocker()
		tokens service.TokenStore
	)
	if rdb != nil {
		locker = service.NewRedisLocker(rdb, cfg.Guidance.LockTTL())
		tokens = service.NewRedisTokenStore(rdb)
	}

	s.auth = service.NewAuthService(repos.user, tokens, cfg)
	s.guidance = service.NewGuidanceService(repos.store, s.ai, locker, cfg.Guidance.ResourcePolicy)
	s.assessment = service.NewAssessmentService(repos.store, s.guidance)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.Reload(context.Background(), newCfg.AI)
		s.guidance.SetResourcePolicy(newCfg.Guidance.ResourcePolicy)
		logger.Log.Info("Configuration reloaded",
			zap.String("ai_provider", newCfg.AI.Provider),
			zap.String("resource_policy", s.guidance.ResourcePolicy()))
	})

	return s
}

func (a *App) initControllers(s *services, repos *repositories, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, a.Config),
		assessment: controller.NewAssessmentController(s.assessment),
		guidance:   controller.NewGuidanceController(s.guidance),
		learning:   controller.NewLearningController(s.guidance),
		health:     controller.NewHealthController(repos.store, rdb, s.ai),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(security.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ExposeHeaders:  []string{"X-Guidance-Stale"},
		MaxAgeSeconds:  600,
	}))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		limiter := security.NewLimiter(cfg.RateLimit.MaxRequests, window, "")
		a.onClose(limiter.Close)
		router.Use(limiter.Middleware(security.ClientIPKey))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build 组装路由与依赖，db、rdb 与 ai 由调用方创建，便于测试注入
func build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, ai *service.AIService) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb, ai)
	controllers := app.initControllers(app.services, repos, rdb)

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不自动迁移，通过 -migrate 强制
	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	if cfg.Seed {
		userID, err := database.SeedDemo(db)
		if err != nil {
			logger.Log.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Log.Info("Demo data ready", zap.Uint("user_id", userID), zap.String("username", database.DemoUsername))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	// 监控初始化
	monitoring.Init()

	app := build(cfg, db, rdb, service.NewAIService(context.Background(), cfg.AI))

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("codementor-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.File != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.Config.File, a.ApplyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	a.Close()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
