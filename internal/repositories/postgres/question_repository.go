package postgres

import (
	"context"
	"fmt"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *QuestionRepository) FindBySlug(ctx context.Context, slug string) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).
		Preload("Poll").
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Where("slug = ?", slug).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List pages through questions, optionally restricted to one poll.
func (r *QuestionRepository) List(ctx context.Context, pollID *uint, params models.ListParams) ([]models.Question, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Question{})
	if pollID != nil {
		q = q.Where("poll_id = ?", *pollID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []models.Question
	err := q.Preload("Poll").
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Order("poll_id, sort_order, id").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Update(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Model(q).Select("text", "question_type", "sort_order").Updates(q).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}
