package postgres

import (
	"context"
	"time"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

func (r *ViewRepository) Create(ctx context.Context, v *models.PollView) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ViewRepository) creatorScope(userID uint) *gorm.DB {
	return r.db.Model(&models.PollView{}).
		Joins("JOIN polls ON polls.id = poll_views.poll_id").
		Where("polls.created_by_id = ?", userID)
}

func (r *ViewRepository) CountForCreator(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var n int64
	err := r.creatorScope(userID).WithContext(ctx).
		Where("poll_views.created_at >= ? AND poll_views.created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *ViewRepository) TotalForCreator(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.creatorScope(userID).WithContext(ctx).Count(&n).Error
	return n, err
}

func (r *ViewRepository) CountsByPollForCreator(ctx context.Context, userID uint, since time.Time) (map[uint]int64, error) {
	var rows []struct {
		PollID uint
		Count  int64
	}
	err := r.creatorScope(userID).WithContext(ctx).
		Select("poll_views.poll_id AS poll_id, COUNT(*) AS count").
		Where("poll_views.created_at >= ?", since).
		Group("poll_views.poll_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.PollID] = row.Count
	}
	return out, nil
}
