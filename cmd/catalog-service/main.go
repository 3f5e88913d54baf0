package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/catalog/handler"
	"github.com/learnhub/learnhub/internal/catalog/repository"
	"github.com/learnhub/learnhub/internal/catalog/service"
	"github.com/learnhub/learnhub/pkg/config"
	"github.com/learnhub/learnhub/pkg/database"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/logger"
	"github.com/learnhub/learnhub/pkg/redis"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: "catalog-service",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    "catalog-service",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		log.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.CatalogDatabase.Host,
		Port:            cfg.CatalogDatabase.Port,
		User:            cfg.CatalogDatabase.User,
		Password:        cfg.CatalogDatabase.Password,
		Database:        cfg.CatalogDatabase.DBName,
		SSLMode:         cfg.CatalogDatabase.SSLMode,
		MaxConns:        int32(cfg.CatalogDatabase.MaxOpenConns),
		MinConns:        int32(cfg.CatalogDatabase.MaxIdleConns),
		MaxConnLifetime: cfg.CatalogDatabase.ConnMaxLifetime,
		MaxConnIdleTime: cfg.CatalogDatabase.ConnMaxIdleTime,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	cache, err := redis.NewClient(ctx, &redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer cache.Close()

	courseRepo := repository.NewCachedCourseRepository(
		repository.NewPostgresCourseRepository(db.Pool()),
		cache,
	)
	lessonRepo := repository.NewPostgresLessonRepository(db.Pool())
	catalogService := service.NewCatalogService(courseRepo, lessonRepo)
	courseHandler := handler.NewCourseHandler(catalogService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.TracingMiddleware("catalog-service"))
	router.Use(identity.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "catalog-service"})
	})

	courseHandler.RegisterRoutes(router.Group("/api/v1/courses"))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("catalog-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down catalog-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown error", zap.Error(err))
	}

	log.Info("catalog-service stopped")
}
