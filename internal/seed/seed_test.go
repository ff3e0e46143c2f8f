package seed

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnalyticsSeed(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, rand.New(rand.NewPCG(1, 2)), zap.NewNop())

	res, err := s.Analytics(context.Background(), Options{Users: 3, Polls: 4, Votes: 20, Views: 15})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 4, res.Polls)
	assert.Equal(t, 15, res.Views)
	assert.LessOrEqual(t, res.Votes, 20)

	var polls []models.Poll
	require.NoError(t, db.Preload("Questions.Options").Find(&polls).Error)
	require.Len(t, polls, 4)
	cutoff := time.Now().Add(-(spreadDays + 1) * 24 * time.Hour)
	for _, p := range polls {
		assert.True(t, p.CreatedAt.After(cutoff))
		assert.GreaterOrEqual(t, len(p.Questions), 2)
		for _, q := range p.Questions {
			assert.GreaterOrEqual(t, len(q.Options), 2)
		}
	}

	var votes int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&votes).Error)
	assert.EqualValues(t, res.Votes, votes)
}

func TestAnalyticsSeedReusesDemoUser(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, rand.New(rand.NewPCG(3, 4)), zap.NewNop())

	_, err := s.Analytics(context.Background(), Options{Polls: 1})
	require.NoError(t, err)
	_, err = s.Analytics(context.Background(), Options{Polls: 1})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", DemoEmail).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
