// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/api/audit"
	"github.com/taskhive/taskhive/api/cache"
	"github.com/taskhive/taskhive/api/config"
	"github.com/taskhive/taskhive/api/controller"
	"github.com/taskhive/taskhive/api/dao"
	"github.com/taskhive/taskhive/api/db"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/metrics"
	"github.com/taskhive/taskhive/api/router"
	"github.com/taskhive/taskhive/api/service"
	"github.com/taskhive/taskhive/api/subscription"
	"github.com/taskhive/taskhive/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger("logging")
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Cache backend is swappable: redis in production, memory for local runs.
	recorder := metrics.NewCounterRecorder()
	var store cache.Store
	switch backend := config.GetString("cache.backend"); backend {
	case "memory":
		store = cache.NewMemoryStore()
	default:
		store = cache.NewRedisStore(db.RedisClient)
	}
	taskCache := cache.NewTaskCache(store, recorder, config.GetString("cache.prefix"))

	// Audit trail goes to Elasticsearch
	auditRepo, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepo)

	// Wire the domain
	eventBus := util.NewEventBus()
	eventBus.Start(context.Background())
	taskDAO := dao.NewTaskDAO(db.Neo4jDriver, auditService)
	taskService := service.NewTaskService(taskDAO, util.NewValidationUtil(), taskCache, util.NewNotificationService(), eventBus)
	provider := subscription.NewNeo4jProvider(db.Neo4jDriver)

	controllers := controller.NewControllers(taskService, provider, taskCache, recorder)
	engine := router.SetupRouter(controllers, provider, auditService)

	srv := &http.Server{
		Addr:    ":" + config.GetString("server.port"),
		Handler: engine,
	}

	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
