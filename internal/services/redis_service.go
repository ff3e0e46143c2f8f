package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"poll-service/internal/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pollResultsPattern = "poll:*:results"

// PollResultsChannel is the pub/sub channel carrying a poll's fresh tally.
func PollResultsChannel(pollID uint) string {
	return fmt.Sprintf("poll:%d:results", pollID)
}

type RedisService struct {
	client *database.RedisClient
	logger *zap.Logger
}

func NewRedisService(client *database.RedisClient, logger *zap.Logger) *RedisService {
	return &RedisService{
		client: client,
		logger: logger,
	}
}

// =============================================================================
// PubSub Operations
// =============================================================================

func (r *RedisService) PublishPollResults(ctx context.Context, pollID uint, results any) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := r.client.GetClient().Publish(ctx, PollResultsChannel(pollID), data).Err(); err != nil {
		r.logger.Error("Failed to publish poll results", zap.Uint("poll_id", pollID), zap.Error(err))
		return err
	}
	return nil
}

// SubscribePollResults subscribes to every poll's results channel.
func (r *RedisService) SubscribePollResults(ctx context.Context) *redis.PubSub {
	return r.client.GetClient().PSubscribe(ctx, pollResultsPattern)
}

// =============================================================================
// Rate Limiting
// =============================================================================

// CheckRateLimit implements a sliding-window limiter on a sorted set.
func (r *RedisService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, window)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	count := results[1].(*redis.IntCmd).Val()
	return count < int64(limit), nil
}
