package postgres

import (
	"context"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *models.AnalysisRequest) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// ListByPoll returns the newest requests for a poll first.
func (r *AnalysisRepository) ListByPoll(ctx context.Context, pollID uint, limit int) ([]models.AnalysisRequest, error) {
	var out []models.AnalysisRequest
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
