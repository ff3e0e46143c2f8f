package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"

	"go.uber.org/zap"
)

const (
	statsTTL  = 10 * time.Minute
	trendsTTL = 15 * time.Minute
)

var periods = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// PeriodDelta maps a period name to its length; unknown names mean 30 days.
func PeriodDelta(period string) time.Duration {
	if d, ok := periods[period]; ok {
		return d
	}
	return periods["30d"]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentChange is the relative change from prev to cur in percent. A
// zero baseline reports 100 when anything happened and 0 otherwise.
func percentChange(cur, prev int64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return round2(float64(cur-prev) / float64(prev) * 100)
}

func rate(votes, views int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(votes) / float64(views) * 100
}

type AnalyticsService struct {
	polls  *postgres.PollRepository
	votes  *postgres.VoteRepository
	views  *postgres.ViewRepository
	cache  cache.Cache
	now    func() time.Time
	logger *zap.Logger
}

func NewAnalyticsService(polls *postgres.PollRepository, votes *postgres.VoteRepository, views *postgres.ViewRepository, c cache.Cache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{polls: polls, votes: votes, views: views, cache: c, now: time.Now, logger: logger}
}

func (s *AnalyticsService) cached(ctx context.Context, key string, dest any) bool {
	if err := s.cache.Get(ctx, key, dest); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

func (s *AnalyticsService) store(ctx context.Context, key string, v any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, v, ttl); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Stats summarises the user's polls over the period and compares it with
// the preceding period of equal length.
func (s *AnalyticsService) Stats(ctx context.Context, userID uint, period string) (*models.AnalyticsStats, error) {
	key := fmt.Sprintf("analytics:stats:%d:%s", userID, period)
	var stats models.AnalyticsStats
	if s.cached(ctx, key, &stats) {
		return &stats, nil
	}

	now := s.now()
	delta := PeriodDelta(period)
	start := now.Add(-delta)
	prevStart := start.Add(-delta)
	end := now.Add(time.Second)

	total, err := s.polls.CountByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	curPolls, err := s.polls.CountCreatedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	prevPolls, err := s.polls.CountCreatedBetween(ctx, userID, prevStart, start)
	if err != nil {
		return nil, err
	}
	curVotes, err := s.votes.CountForCreator(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	prevVotes, err := s.votes.CountForCreator(ctx, userID, prevStart, start)
	if err != nil {
		return nil, err
	}
	curViews, err := s.views.CountForCreator(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	prevViews, err := s.views.CountForCreator(ctx, userID, prevStart, start)
	if err != nil {
		return nil, err
	}

	stats = models.AnalyticsStats{
		TotalPolls:         total,
		PollsChange:        percentChange(curPolls, prevPolls),
		TotalResponses:     curVotes,
		ResponsesChange:    percentChange(curVotes, prevVotes),
		TotalViews:         curViews,
		ViewsChange:        percentChange(curViews, prevViews),
		AvgResponseRate:    round2(rate(curVotes, curViews)),
		ResponseRateChange: percentChange(int64(rate(curVotes, curViews)), int64(rate(prevVotes, prevViews))),
	}
	s.store(ctx, key, stats, statsTTL)
	return &stats, nil
}

func bucket(t time.Time, monthly bool) string {
	t = t.UTC()
	if monthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func series(times []time.Time, monthly bool) []models.TrendPoint {
	counts := map[string]int64{}
	for _, t := range times {
		counts[bucket(t, monthly)]++
	}
	out := make([]models.TrendPoint, 0, len(counts))
	for date, n := range counts {
		out = append(out, models.TrendPoint{Date: date, Value: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Trends buckets poll creations and votes by day for periods up to 30
// days and by month for longer periods.
func (s *AnalyticsService) Trends(ctx context.Context, userID uint, period string) (*models.AnalyticsTrends, error) {
	key := fmt.Sprintf("analytics:trends:%d:%s", userID, period)
	var trends models.AnalyticsTrends
	if s.cached(ctx, key, &trends) {
		return &trends, nil
	}

	delta := PeriodDelta(period)
	since := s.now().Add(-delta)
	monthly := delta > 30*24*time.Hour

	pollTimes, err := s.polls.CreatedTimesSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	voteTimes, err := s.votes.TimesForCreatorSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	trends = models.AnalyticsTrends{
		PollCreation: series(pollTimes, monthly),
		ResponseRate: series(voteTimes, monthly),
	}
	s.store(ctx, key, trends, trendsTTL)
	return &trends, nil
}

// TopPolls ranks the user's polls by votes received during the period.
func (s *AnalyticsService) TopPolls(ctx context.Context, userID uint, period string, limit int) ([]models.TopPoll, error) {
	if limit <= 0 {
		limit = 5
	}
	now := s.now()
	since := now.Add(-PeriodDelta(period))

	polls, err := s.polls.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.CountsByPollForCreator(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	views, err := s.views.CountsByPollForCreator(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	out := make([]models.TopPoll, 0, len(polls))
	for i := range polls {
		p := &polls[i]
		status := "Closed"
		if p.IsOpen(now) {
			status = "Active"
		}
		r := round2(rate(votes[p.ID], views[p.ID]))
		out = append(out, models.TopPoll{
			ID:              p.ID,
			CreatedAt:       p.CreatedAt,
			Slug:            p.Slug,
			Title:           p.Title,
			VotesCount:      votes[p.ID],
			ViewsCount:      views[p.ID],
			EngagementScore: r,
			ResponseRate:    r,
			Status:          status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VotesCount > out[j].VotesCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
