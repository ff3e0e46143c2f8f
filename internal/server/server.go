// Package server assembles the process-wide infrastructure shared by the
// API server, the task worker and the seed command.
package server

import (
	"context"
	"errors"
	"fmt"

	"poll-service/internal/ai"
	"poll-service/internal/cache"
	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/services"
	"poll-service/internal/tasks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *gorm.DB
	Redis    *database.RedisClient
	Blobs    *database.MinIOClient
	Cache    cache.Cache
	Registry *tasks.Registry
	Runner   *tasks.Runner
	Queue    tasks.Queue
	AI       *ai.Providers
	Services *services.Container

	closers []func() error
}

// NewApp connects to every configured backend and wires the services.
// Redis is only dialled for the redis cache backend and MinIO only when an
// endpoint is set.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: log}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	switch cfg.Cache.Backend {
	case "memory":
		mem, err := cache.NewMemoryCache(cfg.Cache.Size)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Cache = mem
	case "redis":
		rc, err := database.NewRedisConnection(cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rc
		a.Cache = cache.NewRedisCache(rc.GetClient())
		a.closers = append(a.closers, rc.Close)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	a.Registry = tasks.NewRegistry()
	a.Runner = tasks.NewRunner(a.Registry, cfg.Tasks.MaxRetries, cfg.Tasks.RetryDelay)
	a.Runner.WithLogger(log)

	switch cfg.Tasks.Backend {
	case "inline":
		a.Queue = tasks.NewInlineQueue(a.Runner, true)
	case "kafka":
		kq := tasks.NewKafkaQueue(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.Queue = kq
		a.closers = append(a.closers, kq.Close)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown tasks backend %q", cfg.Tasks.Backend)
	}

	a.AI = ai.New(ctx, cfg.AI, log)
	a.closers = append(a.closers, a.AI.Close)

	a.Services = services.NewContainer(services.Deps{
		DB:            db,
		Cache:         a.Cache,
		Queue:         a.Queue,
		BaseURL:       cfg.Server.BaseURL,
		JWTSecret:     cfg.JWT.Secret,
		JWTExpiration: cfg.JWT.ExpirationTime,
		Primary:       a.AI.Primary,
		Fallback:      a.AI.Fallback,
		Store:         a.AI.Store,
		Logger:        log,
	})
	a.Services.RegisterTasks(a.Registry)

	if cfg.MinIO.Endpoint != "" {
		blobs, err := database.NewMinIOClient(ctx, cfg.MinIO, log)
		if err != nil {
			log.Warn("MinIO unavailable, QR codes will not be persisted", zap.Error(err))
		} else {
			a.Blobs = blobs
			a.Services.Distribution.WithBlobStore(blobs)
		}
	}
	return a, nil
}

// Close releases backends in reverse order of acquisition.
func (a *App) Close() error {
	if q, ok := a.Queue.(*tasks.InlineQueue); ok {
		q.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
