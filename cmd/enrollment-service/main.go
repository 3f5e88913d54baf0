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
	"github.com/learnhub/learnhub/internal/enrollment/client"
	"github.com/learnhub/learnhub/internal/enrollment/handler"
	"github.com/learnhub/learnhub/internal/enrollment/repository"
	"github.com/learnhub/learnhub/internal/enrollment/service"
	"github.com/learnhub/learnhub/pkg/config"
	"github.com/learnhub/learnhub/pkg/database"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/logger"
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
		ServiceName: "enrollment-service",
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
		ServiceName:    "enrollment-service",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		log.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.EnrollmentDatabase.Host,
		Port:            cfg.EnrollmentDatabase.Port,
		User:            cfg.EnrollmentDatabase.User,
		Password:        cfg.EnrollmentDatabase.Password,
		Database:        cfg.EnrollmentDatabase.DBName,
		SSLMode:         cfg.EnrollmentDatabase.SSLMode,
		MaxConns:        int32(cfg.EnrollmentDatabase.MaxOpenConns),
		MinConns:        int32(cfg.EnrollmentDatabase.MaxIdleConns),
		MaxConnLifetime: cfg.EnrollmentDatabase.ConnMaxLifetime,
		MaxConnIdleTime: cfg.EnrollmentDatabase.ConnMaxIdleTime,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			log.Warn("kafka unavailable, enrollment events disabled", zap.Error(err))
			publisher = service.NewNoOpEventPublisher()
		} else {
			publisher = kafkaPublisher
		}
	} else {
		publisher = service.NewNoOpEventPublisher()
	}
	defer publisher.Close()

	enrollmentRepo := repository.NewPostgresEnrollmentRepository(db.Pool())
	catalogClient := client.NewHTTPCatalogClient(client.HTTPCatalogClientConfig{
		BaseURL: cfg.Services.CatalogServiceURL,
	})
	directory := client.NewHTTPStudentDirectory(client.HTTPStudentDirectoryConfig{
		BaseURL: cfg.Services.AuthServiceURL,
	})

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, catalogClient, directory, publisher)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.TracingMiddleware("enrollment-service"))
	router.Use(identity.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "enrollment-service"})
	})

	enrollmentHandler.RegisterRoutes(router.Group("/api/v1/enrollments"))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("enrollment-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down enrollment-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown error", zap.Error(err))
	}

	log.Info("enrollment-service stopped")
}
