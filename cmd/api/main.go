package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-guard/docs"
	"github.com/kingrain94/tenant-guard/internal/api"
	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/guard"
	"github.com/kingrain94/tenant-guard/internal/metrics"
	"github.com/kingrain94/tenant-guard/internal/middleware"
	"github.com/kingrain94/tenant-guard/internal/repository/composite"
	"github.com/kingrain94/tenant-guard/internal/service"
	"github.com/kingrain94/tenant-guard/internal/service/pubsub"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/pkg/logger"
	"github.com/kingrain94/tenant-guard/pkg/utils"
)

var version = "dev"

// @title           Tenant Guard API
// @version         1.0
// @description     Tenant admission control: suspension, module and quota enforcement with an audit trail.

// @host      localhost:10000
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}
	guardCfg, err := config.LoadGuardConfig()
	if err != nil {
		appLogger.Fatal("Failed to load guard config", err)
	}
	loc, err := utils.LoadTimezone(guardCfg.Timezone)
	if err != nil {
		appLogger.Fatal("Failed to load guard timezone", err)
	}

	sentryEnabled, err := cfg.InitSentry(version)
	if err != nil {
		appLogger.Error("Sentry disabled", err)
	}
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()
	appLogger.Info("Database connections established - writer and reader connected")

	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}

	redisConfig := config.DefaultRedisConfig()
	redisClient, err := redisConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	redisPubSub := pubsub.NewRedisPubSub(redisClient, redisConfig.EventChannel, appLogger)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(rootCtx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)

	auditService := service.NewAuditService(repo, sqsService, appLogger)
	auditService.SetPublisher(redisPubSub)
	auditLogger := guard.NewAuditLogger(auditService, appLogger, guardCfg.AuditBuffer, guardCfg.AuditWorkers)

	routes, err := routeTable(guardCfg)
	if err != nil {
		appLogger.Fatal("Invalid guard route table", err)
	}

	pipeline := guard.NewPipeline(repo.Tenant(), auditLogger, appLogger, guard.Options{
		SkipPrefixes:     guardCfg.SkipPrefixes,
		Routes:           routes,
		Location:         loc,
		CounterMode:      guard.CounterMode(guardCfg.CounterMode),
		SerializeTenants: guardCfg.SerializeTenants,
		CountAPICalls:    guardCfg.CountAPICalls,
		AuditAdmits:      guardCfg.AuditAdmits,
		NotFoundTTL:      guardCfg.NotFoundTTL,
	})

	tenantService := service.NewTenantService(repo, auditLogger, pipeline.Window())
	tenantService.SetCache(pipeline)
	if guardCfg.SeatSource == config.SeatSourceUsers {
		pipeline.SetSeatCounter(repo.User())
		tenantService.UseLiveSeats(true)
	}

	appLogger.Info("Tenant guard configured",
		zap.String("timezone", loc.String()),
		zap.String("counter_mode", guardCfg.CounterMode),
		zap.String("seat_source", guardCfg.SeatSource),
		zap.Strings("skip_prefixes", guardCfg.SkipPrefixes),
	)

	if sqlDB, err := dbConnections.Writer.DB(); err == nil {
		metrics.StartDBStatsCollector(rootCtx, sqlDB, 15*time.Second)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg)
	guardMiddleware := middleware.NewTenantGuard(pipeline)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient, appLogger)
	validationMiddleware := middleware.NewValidationMiddleware(appLogger)

	server := api.NewServer(
		tenantService,
		auditService,
		redisPubSub,
		authMiddleware,
		guardMiddleware,
		rateLimitMiddleware,
		validationMiddleware,
		cfg.GlobalRateLimit,
		appLogger,
	)
	server.StartWebSocketHub()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Sentry(sentryEnabled))
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(metrics.Middleware())

	docs.SwaggerInfo.Title = "Tenant Guard API"
	docs.SwaggerInfo.Description = "Tenant admission control with an audit trail"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.ServerPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	apiGroup := router.Group("/api/v1")
	server.SetupRoutes(apiGroup)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		appLogger.Info("Server listening", zap.Int("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}

	server.StopWebSocketHub()
	// drain queued deny entries before the database goes away
	auditLogger.Close()
	stop()

	appLogger.Info("Server exiting")
	appLogger.Sync()
}

func routeTable(cfg *config.GuardConfig) (guard.RouteTable, error) {
	if len(cfg.Routes) == 0 {
		return guard.DefaultRouteTable(), nil
	}
	entries := make([]guard.RouteModule, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		entries = append(entries, guard.RouteModule{Prefix: r.Prefix, Module: domain.Module(r.Module)})
	}
	return guard.NewRouteTable(entries)
}
