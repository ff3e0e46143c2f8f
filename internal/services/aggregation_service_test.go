package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/tasks"
	"poll-service/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturePublisher struct {
	pollID  uint
	results any
}

func (c *capturePublisher) PublishPollResults(_ context.Context, pollID uint, results any) error {
	c.pollID, c.results = pollID, results
	return nil
}

func TestAggregateVotes_IncludesZeroCountOptions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	a := testutil.CreateUser(t, h.db, "a@example.com")
	b := testutil.CreateUser(t, h.db, "b@example.com")
	poll := h.favouriteColour(t, owner)
	q := &poll.Questions[0]
	testutil.CreateVote(t, h.db, a, q, &q.Options[0])
	testutil.CreateVote(t, h.db, b, q, &q.Options[0])

	pub := &capturePublisher{}
	h.agg.WithPublisher(pub)

	res, err := h.agg.AggregateVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalVotes)
	assert.Equal(t, "cached", res.Status)
	assert.Equal(t, poll.ID, pub.pollID)

	tally, ok := h.agg.CachedTally(ctx, poll.ID)
	require.True(t, ok)
	require.Len(t, tally[q.ID].Options, 3)
	assert.EqualValues(t, 2, tally[q.ID].Options[q.Options[0].ID])
	assert.EqualValues(t, 0, tally[q.ID].Options[q.Options[1].ID])
	assert.EqualValues(t, 0, tally[q.ID].Options[q.Options[2].ID])

	results, err := h.agg.Results(ctx, poll)
	require.NoError(t, err)
	assert.True(t, results.Cached)
	assert.EqualValues(t, 2, results.TotalVotes)
}

func TestResults_LiveWhenNotCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)
	q := &poll.Questions[0]
	testutil.CreateVote(t, h.db, owner, q, &q.Options[2])

	results, err := h.agg.Results(ctx, poll)
	require.NoError(t, err)
	assert.False(t, results.Cached)
	require.Len(t, results.Questions, 1)
	assert.EqualValues(t, 1, results.Questions[0].Options[2].Votes)

	n, err := h.agg.OptionVoteCount(ctx, poll.ID, &q.Options[2])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	total, err := h.agg.QuestionTotalVotes(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestHandleAggregateVotes_MissingPollIsPermanent(t *testing.T) {
	h := newHarness(t)
	raw, _ := json.Marshal(AggregateVotesPayload{PollID: 999})

	_, err := h.agg.HandleAggregateVotes(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, tasks.IsPermanent(err))
	assert.Equal(t, "Poll 999 not found.", err.Error())

	attempts := 0
	h.registry.Register("count_attempts", func(ctx context.Context, p json.RawMessage) (string, error) {
		attempts++
		return h.agg.HandleAggregateVotes(ctx, p)
	})
	report, err := tasks.NewRunner(h.registry, tasks.DefaultMaxRetries, 0).Run(context.Background(), tasks.Task{Name: "count_attempts", Payload: raw})
	require.NoError(t, err)
	assert.Equal(t, "Poll 999 not found.", report)
	assert.Equal(t, 1, attempts)
}

func TestRequestRefresh_RunsAggregation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	other := testutil.CreateUser(t, h.db, "other@example.com")
	poll := h.favouriteColour(t, owner)

	_, err := h.agg.RequestRefresh(ctx, other.ID, poll.Slug)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = h.agg.RequestRefresh(ctx, owner.ID, poll.Slug)
	require.NoError(t, err)
	_, ok := h.agg.CachedTally(ctx, poll.ID)
	assert.True(t, ok)
}

func TestNotificationService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)

	report, err := h.notify.Send(ctx, poll.ID, NotificationClosed)
	require.NoError(t, err)
	assert.Equal(t, "Notification 'closed' sent to owner@example.com", report)

	assert.ErrorIs(t, h.notify.Request(ctx, owner.ID, poll.Slug, "bogus"), ErrInvalidRequest)
	require.NoError(t, h.notify.Request(ctx, owner.ID, poll.Slug, NotificationReminder))

	raw, _ := json.Marshal(NotificationPayload{PollID: 404, Type: NotificationClosed})
	_, err = h.notify.HandleSendNotification(ctx, raw)
	assert.True(t, tasks.IsPermanent(err))
}

func TestAggregateVotes_TallyExpiresAfterFiveMinutes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	agg := NewAggregationService(h.polls, h.voteRepo, cache.NewRedisCache(client), h.queue, zap.NewNop())

	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)
	q := &poll.Questions[0]
	testutil.CreateVote(t, h.db, owner, q, &q.Options[1])

	_, err := agg.AggregateVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, mr.TTL(PollVotesKey(poll.ID)))

	_, ok := agg.CachedTally(ctx, poll.ID)
	require.True(t, ok)

	mr.FastForward(5*time.Minute + time.Second)
	_, ok = agg.CachedTally(ctx, poll.ID)
	assert.False(t, ok)
}
