package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/cache"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/config"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/events"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/handlers"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/repositories/postgres"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/services"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/utils"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/validator"
	"github.com/SAP-F-2025/questionnaire-analytics/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	format := "json"
	if !cfg.IsProduction() {
		format = "text"
	}
	logger := utils.NewLogger(os.Stdout, format, cfg.LogLevel)
	slogger := utils.ToSlogLogger(logger)

	if err := run(cfg, logger); err != nil {
		slogger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}

	// Cache: fall back to the in-process cache when redis is unreachable
	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		slogger.Warn("Redis unavailable, using in-memory cache", "error", err)
		cacheService = cache.NewMemoryCache()
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	// Events
	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		slogger.Error("Failed to create event publisher", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slogger.Error("Failed to close event publisher", "error", err)
		}
	}()

	serviceManager := services.NewServiceManager(services.ServiceDependencies{
		Repository: postgres.NewRepository(db),
		Cache:      cacheService,
		Publisher:  publisher,
		Validator:  validator.New(),
		Logger:     slogger,
		Analytics:  services.AnalyticsServiceConfig{CacheTTL: cfg.CacheTTL},
	})

	// Cache invalidation on new responses
	if cfg.Events.Enabled {
		subscriber, err := cfg.Events.CreateResponseSubscriber(slogger)
		if err != nil {
			return err
		}
		consumer := events.NewResponseConsumer(subscriber, cfg.Events.ResponsesTopic, serviceManager.CacheInvalidator().Handle, slogger)
		defer consumer.Close()

		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slogger.Error("Response consumer stopped", "error", err)
			}
		}()
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var auth gin.HandlerFunc
	if cfg.Casdoor.Enabled() {
		auth = handlers.AuthMiddleware(handlers.NewCasdoorTokenParser(cfg.Casdoor), logger)
	} else {
		if cfg.IsProduction() {
			return errors.New("casdoor must be configured in production")
		}
		slogger.Warn("Casdoor not configured, trusting " + handlers.DevUserHeader + " header")
		auth = handlers.HeaderAuthMiddleware()
	}

	router := handlers.NewRouter(handlers.NewHandlerManager(serviceManager, auth, logger), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slogger.Info("Starting questionnaire analytics server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
