package services

import (
	"context"
	"errors"

	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"

	"gorm.io/gorm"
)

type OptionService struct {
	polls     *PollService
	questions *QuestionService
	repo      *postgres.OptionRepository
}

func NewOptionService(polls *PollService, questions *QuestionService, repo *postgres.OptionRepository) *OptionService {
	return &OptionService{polls: polls, questions: questions, repo: repo}
}

func (s *OptionService) Get(ctx context.Context, slug string) (*models.Option, error) {
	o, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *OptionService) getOwned(ctx context.Context, userID uint, slug string) (*models.Option, error) {
	o, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if o.Question == nil || o.Question.Poll == nil || o.Question.Poll.CreatedByID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *OptionService) List(ctx context.Context, questionSlug string, params models.ListParams) ([]models.Option, int64, error) {
	var questionID *uint
	if questionSlug != "" {
		q, err := s.questions.Get(ctx, questionSlug)
		if err != nil {
			return nil, 0, err
		}
		questionID = &q.ID
	}
	return s.repo.List(ctx, questionID, params)
}

func (s *OptionService) Create(ctx context.Context, userID uint, req *models.CreateOptionRequest) (*models.Option, error) {
	q, err := s.questions.getOwned(ctx, userID, req.Question)
	if err != nil {
		return nil, err
	}
	oslug, err := s.polls.slugs.Generate(ctx, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	o := &models.Option{Slug: oslug, QuestionID: q.ID, Text: req.Text, Order: req.Order}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OptionService) Update(ctx context.Context, userID uint, slug string, req *models.UpdateOptionRequest) (*models.Option, error) {
	o, err := s.getOwned(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		o.Text = *req.Text
	}
	if req.Order != nil {
		o.Order = *req.Order
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OptionService) Delete(ctx context.Context, userID uint, slug string) error {
	o, err := s.getOwned(ctx, userID, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, o.ID)
}
