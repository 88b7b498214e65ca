package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/background"
	"github.com/revinhocontact-cloud/rxcartcart/internal/config"
	"github.com/revinhocontact-cloud/rxcartcart/internal/handlers"
	"github.com/revinhocontact-cloud/rxcartcart/internal/middleware"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/repository"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/cache"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/storage"
)

const (
	configRefreshInterval = 5 * time.Minute
	authRateLimitRequests = 10
	authRateLimitWindow   = 300
	uploadRateLimit       = 20
	uploadRateLimitWindow = 300
)

type Application struct {
	cfg *config.Config

	db        *gorm.DB
	cache     *cache.Cache
	store     storage.Store
	scheduler *background.Scheduler
	limits    *middleware.RateLimitManager

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User repository.UserRepository
	Data repository.DataRepository
}

type serviceContainer struct {
	Auth     *service.AuthService
	User     *service.UserService
	Data     *service.DataService
	Config   *service.ConfigService
	Product  *service.ProductService
	Template *service.TemplateService
	Poster   *service.PosterService
	Queue    *service.QueueService
	Upload   *service.UploadService
}

type handlerContainer struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Data     *handlers.DataHandler
	Config   *handlers.ConfigHandler
	Product  *handlers.ProductHandler
	Template *handlers.TemplateHandler
	Poster   *handlers.PosterHandler
	Queue    *handlers.QueueHandler
	Upload   *handlers.UploadHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}
	ctx := context.Background()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	app.initCache()

	if err := app.initStorage(ctx); err != nil {
		return nil, err
	}

	app.scheduler = background.NewScheduler(background.SchedulerConfig{WorkerCount: 2, QueueSize: 64})
	app.scheduler.Start(ctx)
	app.limits = middleware.NewRateLimitManager(ctx)

	app.initRepositories()
	app.initServices()

	created, err := app.services.Auth.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}
	if created {
		logger.Info("Created initial administrator", map[string]interface{}{"email": cfg.AdminEmail})
	}

	if err := app.services.Config.Init(ctx); err != nil {
		logger.Error(err, "Failed to load system configuration, using defaults", nil)
	}
	if err := app.scheduler.Every(configRefreshInterval, background.Job{
		Name:    "config-refresh",
		Timeout: 30 * time.Second,
		Run:     app.services.Config.Refresh,
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule config refresh: %w", err)
	}

	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   90 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"storage":     a.cfg.StorageDriver,
		"pdf":         a.cfg.EnablePDF,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Background jobs did not finish before shutdown", nil)
		}
	}

	if a.limits != nil {
		a.limits.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.AppData{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_app_data_user_type_created ON app_data(user_id, type, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_app_data_content ON app_data USING GIN (content)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() {
	enabled := a.cfg.EnableCache && a.cfg.EnableRedis
	c, err := cache.NewCache(a.cfg.RedisURL, enabled)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{"error": err.Error()})
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
}

func (a *Application) initStorage(ctx context.Context) error {
	store, err := storage.New(ctx, storage.Config{
		Driver:    a.cfg.StorageDriver,
		Dir:       a.cfg.UploadDir,
		BaseURL:   a.cfg.PublicBaseURL + "/uploads",
		Bucket:    a.cfg.S3Bucket,
		Region:    a.cfg.S3Region,
		Endpoint:  a.cfg.S3Endpoint,
		GCSBucket: a.cfg.GCSBucket,
		Prefix:    a.cfg.StoragePrefix,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.store = store
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User: repository.NewUserRepository(a.db),
		Data: repository.NewDataRepository(a.db),
	}
}

func (a *Application) initServices() {
	var pdf service.PDFExporter
	if a.cfg.EnablePDF {
		pdf = service.NewChromePDFExporter(a.cfg.ChromePath)
	}

	data := service.NewDataService(a.repositories.Data, a.cache)
	configService := service.NewConfigService(a.repositories.Data, a.cache)
	templates := service.NewTemplateService(data)
	posters := service.NewPosterService(configService, templates, pdf)

	a.services = serviceContainer{
		Auth:     service.NewAuthService(a.repositories.User, a.cfg.JWTSecret),
		User:     service.NewUserService(a.repositories.User),
		Data:     data,
		Config:   configService,
		Product:  service.NewProductService(data),
		Template: templates,
		Poster:   posters,
		Queue:    service.NewQueueService(data, posters),
		Upload:   service.NewUploadService(a.store, a.cfg.MaxUploadSize).WithScheduler(a.scheduler),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:     handlers.NewAuthHandler(a.services.Auth),
		User:     handlers.NewUserHandler(a.services.User),
		Data:     handlers.NewDataHandler(a.services.Data),
		Config:   handlers.NewConfigHandler(a.services.Config),
		Product:  handlers.NewProductHandler(a.services.Product, a.cfg.MaxUploadSize),
		Template: handlers.NewTemplateHandler(a.services.Template),
		Poster:   handlers.NewPosterHandler(a.services.Poster, a.services.Queue),
		Queue:    handlers.NewQueueHandler(a.services.Queue),
		Upload:   handlers.NewUploadHandler(a.services.Upload),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = a.cfg.MaxUploadSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware(a.cfg.CORSOrigins))
	router.Use(middleware.RateLimitMiddleware(a.limits, a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if a.cfg.StorageDriver == "" || a.cfg.StorageDriver == "local" {
		uploads := router.Group("/uploads")
		uploads.Use(middleware.UploadsProtection())
		uploads.Static("/", a.cfg.UploadDir)
	}

	authLimit := middleware.CriticalOperationRateLimit(a.limits, middleware.OperationAuth, authRateLimitRequests, authRateLimitWindow)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authLimit, a.handlers.Auth.Register)
		auth.POST("/login", authLimit, a.handlers.Auth.Login)
		auth.POST("/logout", a.handlers.Auth.Logout)
	}

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(a.services.Auth))
	protected.Use(middleware.RequirePermission(authorization.PermissionManageOwnContent))
	{
		protected.GET("/data", a.handlers.Data.List)
		protected.POST("/data", a.handlers.Data.Create)
		protected.PUT("/data/:id", a.handlers.Data.Update)
		protected.DELETE("/data/:id", a.handlers.Data.Delete)

		protected.GET("/products", a.handlers.Product.List)
		protected.POST("/products", a.handlers.Product.Create)
		protected.GET("/products/export", a.handlers.Product.Export)
		protected.POST("/products/import", a.handlers.Product.Import)
		protected.PUT("/products/:id", a.handlers.Product.Update)
		protected.DELETE("/products/:id", a.handlers.Product.Delete)

		protected.GET("/templates", a.handlers.Template.List)
		protected.POST("/templates", a.handlers.Template.Create)
		protected.DELETE("/templates/:id", a.handlers.Template.Delete)

		protected.GET("/queue", a.handlers.Queue.List)
		protected.POST("/queue", a.handlers.Queue.Add)
		protected.DELETE("/queue", a.handlers.Queue.Clear)
		protected.POST("/queue/print", a.handlers.Queue.MarkPrinted)
		protected.DELETE("/queue/:id", a.handlers.Queue.Remove)
		protected.GET("/history", a.handlers.Queue.History)

		protected.GET("/posters/catalog", a.handlers.Poster.Catalog)
		protected.POST("/posters/preview", a.handlers.Poster.Preview)
		protected.GET("/print", a.handlers.Poster.PrintSheet)
		protected.GET("/print/pdf", a.handlers.Poster.PrintPDF)

		uploadLimit := middleware.CriticalOperationRateLimit(a.limits, middleware.OperationUpload, uploadRateLimit, uploadRateLimitWindow)
		protected.POST("/upload/image", uploadLimit, a.handlers.Upload.UploadImage)
		protected.DELETE("/upload/image/:filename", a.handlers.Upload.DeleteImage)

		protected.GET("/config", a.handlers.Config.Get)
	}

	admin := router.Group("")
	admin.Use(middleware.AuthMiddleware(a.services.Auth))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.PUT("/config", a.handlers.Config.Update)
		admin.POST("/config/preview", a.handlers.Config.Preview)
	}

	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(a.services.Auth))
	{
		users.GET("", middleware.RequirePermission(authorization.PermissionViewUsers), a.handlers.User.List)
		users.GET("/:id", middleware.RequirePermission(authorization.PermissionViewUsers), a.handlers.User.Get)
		users.PUT("/:id", middleware.RequirePermission(authorization.PermissionManageUsers), a.handlers.User.Update)
		users.DELETE("/:id", middleware.RequirePermission(authorization.PermissionManageUsers), a.handlers.User.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
