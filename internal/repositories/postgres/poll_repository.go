package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

var pollOrderings = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"title":       "title ASC",
	"-title":      "title DESC",
	"start_date":  "start_date ASC",
	"-start_date": "start_date DESC",
	"end_date":    "end_date ASC",
	"-end_date":   "end_date DESC",
}

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

func preloadQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CreatedBy").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") })
}

// Create inserts the poll together with any nested questions and options.
func (r *PollRepository) Create(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return fmt.Errorf("failed to create poll: %w", err)
		}
		return nil
	})
}

func (r *PollRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Poll{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *PollRepository) FindBySlug(ctx context.Context, slug string) (*models.Poll, error) {
	var poll models.Poll
	if err := preloadQuestions(r.db.WithContext(ctx)).Where("slug = ?", slug).First(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *PollRepository) FindByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := preloadQuestions(r.db.WithContext(ctx)).First(&poll, id).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

// List returns one page of polls plus the total count matching the filters.
func (r *PollRepository) List(ctx context.Context, params models.ListParams) ([]models.Poll, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Poll{})
	if params.IsActive != nil {
		q = q.Where("is_active = ?", *params.IsActive)
	}
	if s := strings.TrimSpace(params.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count polls: %w", err)
	}

	order, ok := pollOrderings[params.Ordering]
	if !ok {
		order = pollOrderings["-created_at"]
	}

	var polls []models.Poll
	err := preloadQuestions(q).
		Order(order).Order("id DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&polls).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, total, nil
}

func (r *PollRepository) ListByCreator(ctx context.Context, userID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.WithContext(ctx).Where("created_by_id = ?", userID).Order("created_at DESC").Find(&polls).Error
	return polls, err
}

func (r *PollRepository) Update(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Model(poll).
		Select("title", "description", "start_date", "end_date", "is_active", "updated_at").
		Updates(poll).Error
}

// Delete removes the poll and everything that hangs off it.
func (r *PollRepository) Delete(ctx context.Context, pollID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&models.Question{}).Select("id").Where("poll_id = ?", pollID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		for _, m := range []any{&models.Question{}, &models.PollView{}, &models.DistributionAnalytics{}, &models.AnalysisRequest{}} {
			if err := tx.Where("poll_id = ?", pollID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Poll{}, pollID).Error
	})
}

func (r *PollRepository) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Poll{}).Where("created_by_id = ?", userID).Count(&n).Error
	return n, err
}

// CountCreatedBetween counts the creator's polls created in [from, to).
func (r *PollRepository) CountCreatedBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Poll{}).
		Where("created_by_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&n).Error
	return n, err
}

func (r *PollRepository) CreatedTimesSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&models.Poll{}).
		Where("created_by_id = ? AND created_at >= ?", userID, since).
		Pluck("created_at", &times).Error
	return times, err
}
