package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/tasks"

	"go.uber.org/zap"
)

const VoteCacheTTL = 5 * time.Minute

func PollVotesKey(pollID uint) string {
	return fmt.Sprintf("poll_%d_votes", pollID)
}

// ResultsPublisher pushes a freshly aggregated tally to live listeners.
type ResultsPublisher interface {
	PublishPollResults(ctx context.Context, pollID uint, results any) error
}

type AggregateVotesPayload struct {
	PollID uint `json:"poll_id"`
}

type AggregationService struct {
	polls     *PollService
	votes     *postgres.VoteRepository
	cache     cache.Cache
	queue     tasks.Queue
	publisher ResultsPublisher
	logger    *zap.Logger
}

func NewAggregationService(polls *PollService, votes *postgres.VoteRepository, c cache.Cache, queue tasks.Queue, logger *zap.Logger) *AggregationService {
	return &AggregationService{
		polls:  polls,
		votes:  votes,
		cache:  c,
		queue:  queue,
		logger: logger,
	}
}

// WithPublisher attaches a live results publisher.
func (s *AggregationService) WithPublisher(p ResultsPublisher) {
	s.publisher = p
}

// AggregateVotes recomputes the poll's tally and caches it for VoteCacheTTL.
// Every option appears in the tally, including those with no votes.
func (s *AggregationService) AggregateVotes(ctx context.Context, pollID uint) (*models.AggregationResult, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	rows, err := s.votes.CountsByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	tally := buildTally(poll, rows)
	if err := s.cache.Set(ctx, PollVotesKey(pollID), tally, VoteCacheTTL); err != nil {
		return nil, fmt.Errorf("cache tally: %w", err)
	}

	var total int64
	for _, q := range tally {
		total += q.TotalVotes
	}

	if s.publisher != nil {
		results := resultsFromTally(poll, tally, true)
		if err := s.publisher.PublishPollResults(ctx, pollID, results); err != nil {
			s.logger.Warn("failed to publish poll results", zap.Uint("poll_id", pollID), zap.Error(err))
		}
	}

	s.logger.Info("votes aggregated", zap.Uint("poll_id", pollID), zap.Int64("total_votes", total))
	return &models.AggregationResult{PollID: pollID, TotalVotes: total, Status: "cached"}, nil
}

func buildTally(poll *models.Poll, rows []postgres.OptionCount) models.PollTally {
	tally := make(models.PollTally, len(poll.Questions))
	for _, q := range poll.Questions {
		qt := models.QuestionTally{Options: make(map[uint]int64, len(q.Options))}
		for _, o := range q.Options {
			qt.Options[o.ID] = 0
		}
		tally[q.ID] = qt
	}
	for _, row := range rows {
		qt, ok := tally[row.QuestionID]
		if !ok {
			continue
		}
		if _, ok := qt.Options[row.OptionID]; !ok {
			continue
		}
		qt.Options[row.OptionID] = row.Count
		qt.TotalVotes += row.Count
		tally[row.QuestionID] = qt
	}
	return tally
}

func resultsFromTally(poll *models.Poll, tally models.PollTally, cached bool) *models.PollResults {
	res := &models.PollResults{PollSlug: poll.Slug, Cached: cached, Questions: []models.QuestionResult{}}
	for _, q := range poll.Questions {
		qt := tally[q.ID]
		qr := models.QuestionResult{Slug: q.Slug, Text: q.Text, TotalVotes: qt.TotalVotes, Options: []models.OptionResult{}}
		for _, o := range q.Options {
			qr.Options = append(qr.Options, models.OptionResult{Slug: o.Slug, Text: o.Text, Votes: qt.Options[o.ID]})
		}
		res.TotalVotes += qt.TotalVotes
		res.Questions = append(res.Questions, qr)
	}
	return res
}

// CachedTally returns the cached tally for a poll, if present.
func (s *AggregationService) CachedTally(ctx context.Context, pollID uint) (models.PollTally, bool) {
	var tally models.PollTally
	if err := s.cache.Get(ctx, PollVotesKey(pollID), &tally); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("failed to read cached tally", zap.Uint("poll_id", pollID), zap.Error(err))
		}
		return nil, false
	}
	return tally, true
}

// Results serves the cached tally when present and live counts otherwise.
func (s *AggregationService) Results(ctx context.Context, poll *models.Poll) (*models.PollResults, error) {
	if tally, ok := s.CachedTally(ctx, poll.ID); ok {
		return resultsFromTally(poll, tally, true), nil
	}
	rows, err := s.votes.CountsByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	return resultsFromTally(poll, buildTally(poll, rows), false), nil
}

// OptionVoteCount reads the option's count from the cached tally of its
// poll, falling back to a database count.
func (s *AggregationService) OptionVoteCount(ctx context.Context, pollID uint, o *models.Option) (int64, error) {
	if tally, ok := s.CachedTally(ctx, pollID); ok {
		if qt, ok := tally[o.QuestionID]; ok {
			if n, ok := qt.Options[o.ID]; ok {
				return n, nil
			}
		}
	}
	return s.votes.CountByOption(ctx, o.ID)
}

func (s *AggregationService) QuestionTotalVotes(ctx context.Context, q *models.Question) (int64, error) {
	if tally, ok := s.CachedTally(ctx, q.PollID); ok {
		if qt, ok := tally[q.ID]; ok {
			return qt.TotalVotes, nil
		}
	}
	return s.votes.CountByQuestion(ctx, q.ID)
}

// RequestRefresh enqueues an aggregate_votes task for a poll owned by userID.
func (s *AggregationService) RequestRefresh(ctx context.Context, userID uint, slug string) (*models.Poll, error) {
	poll, err := s.polls.GetOwned(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, tasks.AggregateVotes, AggregateVotesPayload{PollID: poll.ID}); err != nil {
		return nil, fmt.Errorf("enqueue aggregation: %w", err)
	}
	return poll, nil
}

// HandleAggregateVotes is the aggregate_votes task handler. A missing poll
// is reported without retrying.
func (s *AggregationService) HandleAggregateVotes(ctx context.Context, raw json.RawMessage) (string, error) {
	var p AggregateVotesPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", tasks.Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	res, err := s.AggregateVotes(ctx, p.PollID)
	if err != nil {
		if errors.Is(err, ErrPollNotFound) {
			return "", tasks.Permanent(fmt.Errorf("Poll %d not found.", p.PollID))
		}
		return "", err
	}
	out, _ := json.Marshal(res)
	return string(out), nil
}
