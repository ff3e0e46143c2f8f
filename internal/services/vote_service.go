package services

import (
	"context"
	"errors"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/slug"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VoteService struct {
	votes     *postgres.VoteRepository
	questions *QuestionService
	options   *OptionService
	slugs     *slug.Generator
	now       func() time.Time
	logger    *zap.Logger
}

func NewVoteService(votes *postgres.VoteRepository, questions *QuestionService, options *OptionService, logger *zap.Logger) *VoteService {
	return &VoteService{
		votes:     votes,
		questions: questions,
		options:   options,
		slugs:     slug.New(),
		now:       time.Now,
		logger:    logger,
	}
}

// Cast records userID's vote. One vote per (user, question) is enforced
// both by a pre-check and by the unique index, so concurrent duplicates
// still fail with ErrAlreadyVoted.
func (s *VoteService) Cast(ctx context.Context, userID uint, req *models.CastVoteRequest) (*models.Vote, error) {
	q, err := s.questions.Get(ctx, req.Question)
	if err != nil {
		return nil, err
	}
	o, err := s.options.Get(ctx, req.Option)
	if err != nil {
		return nil, err
	}
	if o.QuestionID != q.ID {
		return nil, ErrOptionMismatch
	}
	if q.Poll == nil || !q.Poll.IsOpen(s.now()) {
		return nil, ErrPollClosed
	}

	exists, err := s.votes.Exists(ctx, userID, q.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyVoted
	}

	vslug, err := s.slugs.Generate(ctx, s.votes.SlugExists)
	if err != nil {
		return nil, err
	}
	v := &models.Vote{
		Slug:       vslug,
		UserID:     userID,
		QuestionID: q.ID,
		OptionID:   o.ID,
	}
	if err := s.votes.Create(ctx, v); err != nil {
		if errors.Is(err, postgres.ErrDuplicateVote) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}
	v.Question, v.Option = q, o

	s.logger.Debug("vote cast", zap.Uint("user_id", userID), zap.Uint("question_id", q.ID), zap.Uint("option_id", o.ID))
	return v, nil
}

func (s *VoteService) ListMine(ctx context.Context, userID uint, params models.ListParams) ([]models.Vote, int64, error) {
	return s.votes.ListByUser(ctx, userID, params)
}

// Get returns one of userID's own votes; other users' votes are not found.
func (s *VoteService) Get(ctx context.Context, userID uint, slug string) (*models.Vote, error) {
	v, err := s.votes.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	if v.UserID != userID {
		return nil, ErrVoteNotFound
	}
	return v, nil
}

func (s *VoteService) Delete(ctx context.Context, userID uint, slug string) error {
	v, err := s.Get(ctx, userID, slug)
	if err != nil {
		return err
	}
	return s.votes.Delete(ctx, v.ID)
}

func VoteToResponse(v *models.Vote) models.VoteResponse {
	resp := models.VoteResponse{Slug: v.Slug, CreatedAt: v.CreatedAt}
	if v.Question != nil {
		resp.Question = v.Question.Slug
	}
	if v.Option != nil {
		resp.Option = v.Option.Slug
	}
	return resp
}
