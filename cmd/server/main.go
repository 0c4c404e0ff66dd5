package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/simpok/backend/internal/application/activity"
	budgetapp "github.com/simpok/backend/internal/application/budget"
	disbapp "github.com/simpok/backend/internal/application/disbursement"
	reportapp "github.com/simpok/backend/internal/application/report"
	"github.com/simpok/backend/internal/domain/reconciliation"
	"github.com/simpok/backend/internal/infrastructure/cache"
	"github.com/simpok/backend/internal/infrastructure/config"
	"github.com/simpok/backend/internal/infrastructure/logger"
	"github.com/simpok/backend/internal/infrastructure/persistence"
	"github.com/simpok/backend/internal/infrastructure/telemetry"
	"github.com/simpok/backend/internal/interfaces/http/handler"
	"github.com/simpok/backend/internal/interfaces/http/middleware"
	"github.com/simpok/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SIMPOK Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing
	var tracerProvider *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		if cfg.Telemetry.DBTraceEnabled {
			dbTracingCfg := telemetry.DefaultDBTracingConfig()
			dbTracingCfg.Enabled = true
			dbTracingPlugin := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
			if err := dbTracingPlugin.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}
		log.Info("Tracing enabled",
			zap.String("collector", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Initialize repositories
	budgetLineRepo := persistence.NewGormBudgetLineRepository(db.DB)
	disbursementRepo := persistence.NewGormDisbursementRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)

	// Version cache: Redis-backed with optional in-memory fallback
	var versionCache budgetapp.VersionCache
	if cfg.Cache.Enabled {
		cacheFactory := cache.NewVersionCacheFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithTTL(cfg.Cache.VersionTTL),
		)
		versionCache, err = cacheFactory.CreateCache()
		if err != nil {
			log.Fatal("Failed to create version cache", zap.Error(err))
		}
	}

	// Initialize application services
	catalogService := budgetapp.NewCatalogService(budgetLineRepo, versionCache)
	snapshotService := budgetapp.NewSnapshotService(budgetLineRepo, versionCache, log)
	disbursementService := disbapp.NewService(disbursementRepo, budgetLineRepo)
	reportService := reportapp.NewService(budgetLineRepo, disbursementRepo, reconciliation.NewService())
	activityService := activityapp.NewService(activityRepo)

	// Initialize HTTP handlers
	budgetHandler := handler.NewBudgetHandler(catalogService, snapshotService)
	disbursementHandler := handler.NewDisbursementHandler(disbursementService)
	reportHandler := handler.NewReportHandler(reportService)
	activityHandler := handler.NewActivityHandler(activityService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Create request spans (if enabled)
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health and readiness endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/ready", readyHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// All owner-scoped domains require the X-Owner-ID header
	ownerScoped := middleware.OwnerMiddleware()

	// Budget domain (catalog lines, versions, snapshots)
	budgetRoutes := router.NewDomainGroup("budget", "/budget")
	budgetRoutes.Use(ownerScoped)
	budgetRoutes.POST("/lines", budgetHandler.CreateLine)
	budgetRoutes.GET("/lines", budgetHandler.ListLines)
	budgetRoutes.GET("/lines/:id", budgetHandler.GetLine)
	budgetRoutes.PUT("/lines/:id", budgetHandler.UpdateLine)
	budgetRoutes.DELETE("/lines/:id", budgetHandler.DeleteLine)
	budgetRoutes.GET("/versions", budgetHandler.ListVersions)
	budgetRoutes.POST("/versions", budgetHandler.CreateSnapshot)
	budgetRoutes.GET("/versions/:version/lines", budgetHandler.ListVersionLines)

	// Disbursement domain (pencairan lifecycle)
	disbursementRoutes := router.NewDomainGroup("disbursement", "/disbursements")
	disbursementRoutes.Use(ownerScoped)
	disbursementRoutes.POST("", disbursementHandler.Create)
	disbursementRoutes.GET("", disbursementHandler.List)
	disbursementRoutes.GET("/:id", disbursementHandler.GetByID)
	disbursementRoutes.PUT("/:id", disbursementHandler.Update)
	disbursementRoutes.PUT("/:id/spp", disbursementHandler.RecordSPP)
	disbursementRoutes.PUT("/:id/sp2d", disbursementHandler.RecordSP2D)
	disbursementRoutes.DELETE("/:id", disbursementHandler.Delete)

	// Report domain (realization, status summary, monthly series)
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.Use(ownerScoped)
	reportRoutes.GET("/realization", reportHandler.Realization)
	reportRoutes.GET("/summary", reportHandler.Summary)
	reportRoutes.GET("/monthly", reportHandler.Monthly)

	// Activity domain (office activities)
	activityRoutes := router.NewDomainGroup("activity", "/activities")
	activityRoutes.Use(ownerScoped)
	activityRoutes.POST("", activityHandler.Create)
	activityRoutes.GET("", activityHandler.List)
	activityRoutes.GET("/:id", activityHandler.GetByID)
	activityRoutes.PUT("/:id", activityHandler.Update)
	activityRoutes.DELETE("/:id", activityHandler.Delete)

	// Register all domain groups
	r.Register(budgetRoutes).
		Register(disbursementRoutes).
		Register(reportRoutes).
		Register(activityRoutes)

	// System routes do not require owner scoping
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// readyHandler reports whether the server can take traffic. It stays
// separate from the health endpoint so orchestrators can distinguish
// a live process from one whose dependencies are reachable.
func readyHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
