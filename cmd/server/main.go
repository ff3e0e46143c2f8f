package main

// @title           Poll Service API
// @version         1.0
// @description     Polls, votes, live results, distribution analytics and AI insights
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "poll-service/docs"
	"poll-service/internal/api/handlers"
	"poll-service/internal/api/middleware"
	"poll-service/internal/api/routes"
	"poll-service/internal/config"
	"poll-service/internal/database"
	gql "poll-service/internal/graphql"
	"poll-service/internal/logger"
	"poll-service/internal/server"
	"poll-service/internal/services"
	"poll-service/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	log.Info("Starting poll server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer app.Close()

	if err := database.Migrate(app.DB, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	svc := app.Services
	health := map[string]handlers.Checker{
		"database": func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	hub.WithLogger(log)
	go hub.Run(ctx)

	var limiter middleware.Limiter
	if app.Redis != nil {
		redisService := services.NewRedisService(app.Redis, log)
		limiter = redisService
		svc.Aggregation.WithPublisher(redisService)
		go hub.Relay(ctx, redisService.SubscribePollResults(ctx))
		health["redis"] = app.Redis.Ping
	} else {
		svc.Aggregation.WithPublisher(hub)
	}

	schema, err := gql.NewSchema(gql.NewResolver(svc.Polls, svc.Aggregation, svc.Distribution, svc.Analytics, svc.RAG, log))
	if err != nil {
		log.Fatal("Failed to parse GraphQL schema", zap.Error(err))
	}

	metrics := middleware.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(metrics.PrometheusCollectors()...)
	registry.MustRegister(app.Runner.PrometheusCollectors()...)

	router := routes.NewRouter(routes.Options{
		Services:       svc,
		Hub:            hub,
		Schema:         schema,
		Limiter:        limiter,
		Metrics:        metrics,
		Gatherer:       registry,
		Health:         health,
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReleaseMode:    cfg.Server.ReleaseMode,
		Logger:         log,
	})
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
