package main

import (
	"context"
	"fmt"
	"os"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/logger"

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

	log.Info("Starting database migration...")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(context.Background()); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", cfg.Database.Driver))

	if err := database.Migrate(db, log); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Database migration completed successfully!")
}
