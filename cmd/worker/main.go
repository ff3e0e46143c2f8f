package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poll-service/internal/config"
	"poll-service/internal/logger"
	"poll-service/internal/server"
	"poll-service/internal/services"
	"poll-service/internal/tasks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	if cfg.Tasks.Backend != "kafka" {
		log.Fatal("worker requires TASKS_BACKEND=kafka", zap.String("backend", cfg.Tasks.Backend))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize worker", zap.Error(err))
	}
	defer app.Close()

	if app.Redis != nil {
		app.Services.Aggregation.WithPublisher(services.NewRedisService(app.Redis, log))
	}

	worker := tasks.NewWorker(tasks.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID), app.Runner)
	worker.WithLogger(log)
	if err := worker.Open(ctx); err != nil {
		log.Fatal("Failed to start worker", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(app.Runner.PrometheusCollectors()...)
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

	log.Info("Worker running", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	<-ctx.Done()

	log.Info("Worker shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	if err := worker.Close(); err != nil {
		log.Error("Failed to close worker", zap.Error(err))
	}
	log.Info("Worker stopped")
}
