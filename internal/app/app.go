package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"icd201_backend/internal/config"
	"icd201_backend/internal/controller"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"
	"icd201_backend/internal/service"
	"icd201_backend/internal/util"
	"icd201_backend/pkg/configwatcher"
	"icd201_backend/pkg/database"
	"icd201_backend/pkg/logger"
	"icd201_backend/pkg/monitoring"
	"icd201_backend/pkg/security"
	"icd201_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigFile 热更新监听的配置文件
const ConfigFile = "configs/config.yaml"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	unit     *repository.UnitRepository
	resource *repository.ResourceRepository
	calendar *repository.CalendarRepository
	settings *repository.SettingsRepository
	export   *repository.ExportRepository
}

type services struct {
	cache    *service.CacheService
	storage  *service.StorageService
	unit     *service.UnitService
	resource *service.ResourceService
	calendar *service.CalendarService
	settings *service.SettingsService
	stats    *service.StatsService
	export   *service.ExportService
}

type controllers struct {
	health   *controller.HealthController
	unit     *controller.UnitController
	resource *controller.ResourceController
	calendar *controller.CalendarController
	settings *controller.SettingsController
	export   *controller.ExportController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) reloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		unit:     repository.NewUnitRepository(db),
		resource: repository.NewResourceRepository(db),
		calendar: repository.NewCalendarRepository(db),
		settings: repository.NewSettingsRepository(db),
		export:   repository.NewExportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.cache = service.NewCacheService(rdb, cfg.Redis.CacheTTL)

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		logger.Log.Warn("Remote storage unavailable, falling back to local disk",
			zap.String("type", cfg.Storage.Type),
			zap.Error(err))
	}
	s.storage = storage

	s.unit = service.NewUnitService(repos.unit, repos.resource, s.cache)
	s.resource = service.NewResourceService(repos.resource, repos.unit, repos.calendar, repos.settings, s.cache)
	policy, err := planner.PolicyFromConfig(cfg.Planner.ConflictPolicy, cfg.Planner.HoursPerDay)
	if err != nil {
		logger.Log.Warn("Invalid conflict policy, using count", zap.Error(err))
		policy = planner.CountPolicy{}
	}
	s.calendar = service.NewCalendarService(
		repos.calendar,
		repos.unit,
		repos.resource,
		repos.settings,
		s.cache,
		policy,
	)
	s.settings = service.NewSettingsService(repos.settings, s.cache)
	s.stats = service.NewStatsService(repos.unit, repos.resource, repos.calendar, repos.settings, s.calendar)
	s.export = service.NewExportService(
		repos.unit,
		repos.resource,
		repos.calendar,
		repos.settings,
		repos.export,
		s.storage,
		cfg.Storage.ArchiveExport,
	)

	// 冲突策略随配置热更新
	a.RegisterConfigCallback(func(c *config.Config) {
		p, err := planner.PolicyFromConfig(c.Planner.ConflictPolicy, c.Planner.HoursPerDay)
		if err != nil {
			logger.Log.Warn("Ignoring invalid conflict policy", zap.Error(err))
			return
		}
		s.calendar.SetPolicy(p)
		s.cache.InvalidateViews(context.Background())
		logger.Log.Info("Conflict policy updated", zap.String("policy", p.Name()))
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		health:   controller.NewHealthController(db, a.Redis, s.storage, a.Config.Planner.Greeting),
		unit:     controller.NewUnitController(s.unit),
		resource: controller.NewResourceController(s.resource),
		calendar: controller.NewCalendarController(s.calendar),
		settings: controller.NewSettingsController(s.settings, s.stats),
		export:   controller.NewExportController(s.export),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(tracing.ServiceName))
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 启动变更订阅和配置监听
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	s.cache.Subscribe(ctx, func(c service.Change) {
		logger.Log.Debug("Data changed",
			zap.String("entity", c.Entity),
			zap.String("action", c.Action),
			zap.String("id", c.ID))
	})

	if a.Config.Server.WatchConfig {
		go func() {
			if err := configwatcher.WatchConfig(ctx, ConfigFile, a.reloadConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

// New 基于已建立的连接组装路由和服务，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	if err := util.RegisterValidators(); err != nil {
		logger.Log.Warn("Failed to register validators", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if services.storage.Backend() == util.StorageLocal && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// NewApp 初始化日志、数据库和 Redis 后组装应用
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.Planner.SeedFixtures && !cfg.MigrateOnly {
		if err := database.Seed(db); err != nil {
			logger.Log.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// 缓存不可用时直接读库
			logger.Log.Warn("Redis unavailable, cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(context.Background(), tracing.ServiceName, cfg.Tracing.CollectorEndpoint, cfg.Tracing.Insecure)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, app.services)

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
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
