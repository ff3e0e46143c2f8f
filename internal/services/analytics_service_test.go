package services

import (
	"context"
	"testing"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, percentChange(0, 0))
	assert.Equal(t, 100.0, percentChange(3, 0))
	assert.Equal(t, 50.0, percentChange(3, 2))
	assert.Equal(t, -66.67, percentChange(1, 3))
}

func TestPeriodDelta(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, PeriodDelta("7d"))
	assert.Equal(t, 30*24*time.Hour, PeriodDelta("bogus"))
}

func TestAnalyticsStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	voter := testutil.CreateUser(t, h.db, "voter@example.com")
	poll := h.favouriteColour(t, owner)
	q := &poll.Questions[0]
	testutil.CreateVote(t, h.db, owner, q, &q.Options[0])
	testutil.CreateVote(t, h.db, voter, q, &q.Options[1])
	for i := 0; i < 4; i++ {
		_, err := h.polls.View(ctx, poll.Slug, nil)
		require.NoError(t, err)
	}

	stats, err := h.analytics.Stats(ctx, owner.ID, "7d")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalPolls)
	assert.EqualValues(t, 2, stats.TotalResponses)
	assert.EqualValues(t, 4, stats.TotalViews)
	assert.Equal(t, 50.0, stats.AvgResponseRate)
	assert.Equal(t, 100.0, stats.PollsChange)
	assert.Equal(t, 100.0, stats.ResponseRateChange)

	// served from cache until the TTL lapses
	require.NoError(t, h.db.Where("poll_id = ?", poll.ID).Delete(&models.PollView{}).Error)
	cached, err := h.analytics.Stats(ctx, owner.ID, "7d")
	require.NoError(t, err)
	assert.EqualValues(t, 4, cached.TotalViews)
}

func TestAnalyticsTrends(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)
	testutil.CreateVote(t, h.db, owner, &poll.Questions[0], &poll.Questions[0].Options[0])

	trends, err := h.analytics.Trends(ctx, owner.ID, "7d")
	require.NoError(t, err)
	require.Len(t, trends.PollCreation, 1)
	assert.EqualValues(t, 1, trends.PollCreation[0].Value)
	assert.Len(t, trends.PollCreation[0].Date, len("2006-01-02"))

	yearly, err := h.analytics.Trends(ctx, owner.ID, "1y")
	require.NoError(t, err)
	require.Len(t, yearly.ResponseRate, 1)
	assert.Len(t, yearly.ResponseRate[0].Date, len("2006-01"))
}

func TestTopPolls(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	voter := testutil.CreateUser(t, h.db, "voter@example.com")
	quiet := h.favouriteColour(t, owner)
	busy := testutil.CreatePoll(t, h.db, owner, "Pets", []string{"Cat or dog?", "Cat", "Dog"})
	testutil.CreateVote(t, h.db, owner, &busy.Questions[0], &busy.Questions[0].Options[0])
	testutil.CreateVote(t, h.db, voter, &busy.Questions[0], &busy.Questions[0].Options[1])
	_, err := h.polls.View(ctx, busy.Slug, nil)
	require.NoError(t, err)

	top, err := h.analytics.TopPolls(ctx, owner.ID, "30d", 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, busy.Slug, top[0].Slug)
	assert.EqualValues(t, 2, top[0].VotesCount)
	assert.EqualValues(t, 1, top[0].ViewsCount)
	assert.Equal(t, 200.0, top[0].ResponseRate)
	assert.Equal(t, "Active", top[0].Status)
	assert.Equal(t, quiet.Slug, top[1].Slug)
	assert.Zero(t, top[1].VotesCount)
}
