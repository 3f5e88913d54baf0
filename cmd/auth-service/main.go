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
	"github.com/learnhub/learnhub/internal/auth/handler"
	"github.com/learnhub/learnhub/internal/auth/provider"
	"github.com/learnhub/learnhub/internal/auth/repository"
	"github.com/learnhub/learnhub/internal/auth/service"
	"github.com/learnhub/learnhub/pkg/config"
	"github.com/learnhub/learnhub/pkg/database"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/logger"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"github.com/learnhub/learnhub/pkg/token"
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
		ServiceName: "auth-service",
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
		ServiceName:    "auth-service",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		log.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.AuthDatabase.Host,
		Port:            cfg.AuthDatabase.Port,
		User:            cfg.AuthDatabase.User,
		Password:        cfg.AuthDatabase.Password,
		Database:        cfg.AuthDatabase.DBName,
		SSLMode:         cfg.AuthDatabase.SSLMode,
		MaxConns:        int32(cfg.AuthDatabase.MaxOpenConns),
		MinConns:        int32(cfg.AuthDatabase.MaxIdleConns),
		MaxConnLifetime: cfg.AuthDatabase.ConnMaxLifetime,
		MaxConnIdleTime: cfg.AuthDatabase.ConnMaxIdleTime,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	accountRepo := repository.NewPostgresAccountRepository(db.Pool())
	verifier := provider.NewGoogleVerifier(provider.GoogleVerifierConfig{
		TokenInfoURL: cfg.Google.TokenInfoURL,
		Audience:     cfg.Google.Audience,
		Timeout:      cfg.Google.Timeout,
	})
	codec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	authService := service.NewAuthService(accountRepo, verifier, codec, &service.AuthServiceConfig{
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})
	authHandler := handler.NewAuthHandler(authService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.TracingMiddleware("auth-service"))
	router.Use(identity.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "auth-service"})
	})

	authHandler.RegisterRoutes(router.Group("/api/v1/auth"))
	router.GET("/internal/accounts/:email", authHandler.Lookup)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("auth-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down auth-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown error", zap.Error(err))
	}

	log.Info("auth-service stopped")
}
