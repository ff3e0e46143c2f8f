package services

import (
	"context"
	"errors"

	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"

	"gorm.io/gorm"
)

type QuestionService struct {
	polls *PollService
	repo  *postgres.QuestionRepository
}

func NewQuestionService(polls *PollService, repo *postgres.QuestionRepository) *QuestionService {
	return &QuestionService{polls: polls, repo: repo}
}

func (s *QuestionService) Get(ctx context.Context, slug string) (*models.Question, error) {
	q, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) getOwned(ctx context.Context, userID uint, slug string) (*models.Question, error) {
	q, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if q.Poll == nil || q.Poll.CreatedByID != userID {
		return nil, ErrForbidden
	}
	return q, nil
}

// List pages through questions; pollSlug narrows to one poll when set.
func (s *QuestionService) List(ctx context.Context, pollSlug string, params models.ListParams) ([]models.Question, int64, error) {
	var pollID *uint
	if pollSlug != "" {
		poll, err := s.polls.Get(ctx, pollSlug)
		if err != nil {
			return nil, 0, err
		}
		pollID = &poll.ID
	}
	return s.repo.List(ctx, pollID, params)
}

func (s *QuestionService) Create(ctx context.Context, userID uint, req *models.CreateQuestionRequest) (*models.Question, error) {
	poll, err := s.polls.GetOwned(ctx, userID, req.Poll)
	if err != nil {
		return nil, err
	}

	q, err := s.polls.buildQuestion(ctx, map[string]bool{}, models.QuestionInput{
		Text:         req.Text,
		QuestionType: req.QuestionType,
		Order:        req.Order,
		Options:      req.Options,
	})
	if err != nil {
		return nil, err
	}
	q.PollID = poll.ID

	if err := s.repo.Create(ctx, &q); err != nil {
		return nil, err
	}
	return s.Get(ctx, q.Slug)
}

func (s *QuestionService) Update(ctx context.Context, userID uint, slug string, req *models.UpdateQuestionRequest) (*models.Question, error) {
	q, err := s.getOwned(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.QuestionType != nil {
		qt, err := normalizeQuestionType(*req.QuestionType)
		if err != nil {
			return nil, err
		}
		q.QuestionType = qt
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, userID uint, slug string) error {
	q, err := s.getOwned(ctx, userID, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, q.ID)
}
