package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/slug"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PollService struct {
	polls  *postgres.PollRepository
	qs     *postgres.QuestionRepository
	opts   *postgres.OptionRepository
	views  *postgres.ViewRepository
	slugs  *slug.Generator
	now    func() time.Time
	logger *zap.Logger
}

func NewPollService(
	polls *postgres.PollRepository,
	qs *postgres.QuestionRepository,
	opts *postgres.OptionRepository,
	views *postgres.ViewRepository,
	logger *zap.Logger,
) *PollService {
	return &PollService{
		polls:  polls,
		qs:     qs,
		opts:   opts,
		views:  views,
		slugs:  slug.New(),
		now:    time.Now,
		logger: logger,
	}
}

// batchExists checks both the table and the slugs already handed out in
// the current batch, which are not yet visible to the database.
func batchExists(seen map[string]bool, table slug.ExistsFunc) slug.ExistsFunc {
	return func(ctx context.Context, s string) (bool, error) {
		if seen[s] {
			return true, nil
		}
		taken, err := table(ctx, s)
		if err == nil && !taken {
			seen[s] = true
		}
		return taken, err
	}
}

func normalizeQuestionType(t models.QuestionType) (models.QuestionType, error) {
	if t == "" {
		return models.QuestionSingle, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: question_type must be one of single, multiple, text", ErrInvalidRequest)
	}
	return t, nil
}

func (s *PollService) buildQuestion(ctx context.Context, seen map[string]bool, in models.QuestionInput) (models.Question, error) {
	qt, err := normalizeQuestionType(in.QuestionType)
	if err != nil {
		return models.Question{}, err
	}
	qslug, err := s.slugs.Generate(ctx, batchExists(seen, s.qs.SlugExists))
	if err != nil {
		return models.Question{}, err
	}
	q := models.Question{
		Slug:         qslug,
		Text:         in.Text,
		QuestionType: qt,
		Order:        in.Order,
	}
	for _, o := range in.Options {
		oslug, err := s.slugs.Generate(ctx, batchExists(seen, s.opts.SlugExists))
		if err != nil {
			return models.Question{}, err
		}
		q.Options = append(q.Options, models.Option{Slug: oslug, Text: o.Text, Order: o.Order})
	}
	return q, nil
}

// Create stores a poll owned by userID, with any nested questions.
func (s *PollService) Create(ctx context.Context, userID uint, req *models.CreatePollRequest) (*models.Poll, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	start := s.now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil && req.EndDate.Before(start) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidRequest)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	seen := map[string]bool{}
	pslug, err := s.slugs.Generate(ctx, batchExists(seen, s.polls.SlugExists))
	if err != nil {
		return nil, err
	}

	poll := &models.Poll{
		Slug:        pslug,
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: userID,
		StartDate:   start,
		EndDate:     req.EndDate,
		IsActive:    active,
	}
	for _, in := range req.Questions {
		q, err := s.buildQuestion(ctx, seen, in)
		if err != nil {
			return nil, err
		}
		poll.Questions = append(poll.Questions, q)
	}

	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, err
	}
	s.logger.Info("poll created", zap.Uint("poll_id", poll.ID), zap.String("slug", poll.Slug), zap.Uint("user_id", userID))
	return s.polls.FindByID(ctx, poll.ID)
}

func (s *PollService) Get(ctx context.Context, slug string) (*models.Poll, error) {
	poll, err := s.polls.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return poll, nil
}

func (s *PollService) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	poll, err := s.polls.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return poll, nil
}

// View loads a poll and records a PollView for it. A failure to record the
// view is logged and does not fail the read.
func (s *PollService) View(ctx context.Context, slug string, viewerID *uint) (*models.Poll, error) {
	poll, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.views.Create(ctx, &models.PollView{PollID: poll.ID, UserID: viewerID}); err != nil {
		s.logger.Warn("failed to record poll view", zap.Uint("poll_id", poll.ID), zap.Error(err))
	}
	return poll, nil
}

func (s *PollService) List(ctx context.Context, params models.ListParams) ([]models.Poll, int64, error) {
	return s.polls.List(ctx, params)
}

// GetOwned loads the poll and checks that userID created it.
func (s *PollService) GetOwned(ctx context.Context, userID uint, slug string) (*models.Poll, error) {
	poll, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if poll.CreatedByID != userID {
		return nil, ErrForbidden
	}
	return poll, nil
}

func (s *PollService) Update(ctx context.Context, userID uint, slug string, req *models.UpdatePollRequest) (*models.Poll, error) {
	poll, err := s.GetOwned(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
		}
		poll.Title = *req.Title
	}
	if req.Description != nil {
		poll.Description = *req.Description
	}
	if req.StartDate != nil {
		poll.StartDate = *req.StartDate
	}
	if req.ClearEnd {
		poll.EndDate = nil
	} else if req.EndDate != nil {
		poll.EndDate = req.EndDate
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}
	if poll.EndDate != nil && poll.EndDate.Before(poll.StartDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidRequest)
	}
	poll.UpdatedAt = s.now()

	if err := s.polls.Update(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *PollService) Delete(ctx context.Context, userID uint, slug string) error {
	poll, err := s.GetOwned(ctx, userID, slug)
	if err != nil {
		return err
	}
	if err := s.polls.Delete(ctx, poll.ID); err != nil {
		return err
	}
	s.logger.Info("poll deleted", zap.Uint("poll_id", poll.ID), zap.Uint("user_id", userID))
	return nil
}
