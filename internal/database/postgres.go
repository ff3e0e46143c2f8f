package database

import (
	"fmt"
	"strings"

	"poll-service/internal/config"
	"poll-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured relational store. Postgres is the
// production driver; sqlite backs local runs and tests.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.Open(cfg.URI)
	case "sqlite":
		dialector = sqlite.Open(cfg.URI)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		AllowGlobalUpdate:                        false,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// A single connection keeps ":memory:" databases shared across queries.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
	}

	return db, nil
}

// Migrate creates or updates every table and secondary index.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Poll{},
		&models.Question{},
		&models.Option{},
		&models.Vote{},
		&models.PollView{},
		&models.DistributionAnalytics{},
		&models.AnalysisRequest{},
	)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			log.Info("tables already exist, continuing with existing schema")
		} else {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		columns []string
	}{
		{"polls", []string{"created_by_id", "created_at"}},
		{"distribution_analytics", []string{"poll_id", "event_type"}},
		{"analysis_requests", []string{"poll_id", "created_at"}},
	}

	for _, idx := range indexes {
		name := fmt.Sprintf("idx_%s_%s", idx.table, strings.Join(idx.columns, "_"))
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
