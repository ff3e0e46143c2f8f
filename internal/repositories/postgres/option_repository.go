package postgres

import (
	"context"
	"fmt"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type OptionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

func (r *OptionRepository) Create(ctx context.Context, o *models.Option) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create option: %w", err)
	}
	return nil
}

func (r *OptionRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Option{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *OptionRepository) FindBySlug(ctx context.Context, slug string) (*models.Option, error) {
	var o models.Option
	if err := r.db.WithContext(ctx).Preload("Question.Poll").Where("slug = ?", slug).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OptionRepository) List(ctx context.Context, questionID *uint, params models.ListParams) ([]models.Option, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Option{})
	if questionID != nil {
		q = q.Where("question_id = ?", *questionID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var options []models.Option
	err := q.Order("question_id, sort_order, id").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&options).Error
	return options, total, err
}

func (r *OptionRepository) Update(ctx context.Context, o *models.Option) error {
	return r.db.WithContext(ctx).Model(o).Select("text", "sort_order").Updates(o).Error
}

func (r *OptionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("option_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Option{}, id).Error
	})
}
