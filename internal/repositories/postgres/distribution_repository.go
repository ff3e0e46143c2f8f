package postgres

import (
	"context"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type DistributionRepository struct {
	db *gorm.DB
}

func NewDistributionRepository(db *gorm.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

func (r *DistributionRepository) Create(ctx context.Context, e *models.DistributionAnalytics) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *DistributionRepository) CountsByType(ctx context.Context, pollID uint) (map[models.DistributionEventType]int64, error) {
	var rows []struct {
		EventType models.DistributionEventType
		Count     int64
	}
	err := r.db.WithContext(ctx).Model(&models.DistributionAnalytics{}).
		Select("event_type, COUNT(*) AS count").
		Where("poll_id = ?", pollID).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.DistributionEventType]int64, len(rows))
	for _, row := range rows {
		out[row.EventType] = row.Count
	}
	return out, nil
}

func (r *DistributionRepository) Recent(ctx context.Context, pollID uint, limit int) ([]models.DistributionAnalytics, error) {
	var events []models.DistributionAnalytics
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
