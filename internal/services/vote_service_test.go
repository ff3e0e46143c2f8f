package services

import (
	"context"
	"testing"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteService_Cast(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	voter := testutil.CreateUser(t, h.db, "voter@example.com")
	poll := h.favouriteColour(t, owner)
	q := poll.Questions[0]

	v, err := h.votes.Cast(ctx, voter.ID, &models.CastVoteRequest{Question: q.Slug, Option: q.Options[1].Slug})
	require.NoError(t, err)
	resp := VoteToResponse(v)
	assert.Equal(t, q.Slug, resp.Question)
	assert.Equal(t, q.Options[1].Slug, resp.Option)

	_, err = h.votes.Cast(ctx, voter.ID, &models.CastVoteRequest{Question: q.Slug, Option: q.Options[0].Slug})
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, "You have already voted on this question.", err.Error())

	n, err := h.voteRepo.CountByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestVoteService_CastRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	voter := testutil.CreateUser(t, h.db, "voter@example.com")
	poll := h.favouriteColour(t, owner)
	other := testutil.CreatePoll(t, h.db, owner, "Pets", []string{"Cat or dog?", "Cat", "Dog"})
	q := poll.Questions[0]

	_, err := h.votes.Cast(ctx, voter.ID, &models.CastVoteRequest{Question: q.Slug, Option: other.Questions[0].Options[0].Slug})
	assert.ErrorIs(t, err, ErrOptionMismatch)

	_, err = h.votes.Cast(ctx, voter.ID, &models.CastVoteRequest{Question: "nope", Option: q.Options[0].Slug})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	require.NoError(t, h.db.Model(&models.Poll{}).Where("id = ?", poll.ID).Update("is_active", false).Error)
	_, err = h.votes.Cast(ctx, voter.ID, &models.CastVoteRequest{Question: q.Slug, Option: q.Options[0].Slug})
	assert.ErrorIs(t, err, ErrPollClosed)
}

func TestVoteService_OwnVotesOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	voter := testutil.CreateUser(t, h.db, "voter@example.com")
	poll := h.favouriteColour(t, owner)
	v := testutil.CreateVote(t, h.db, voter, &poll.Questions[0], &poll.Questions[0].Options[0])

	_, err := h.votes.Get(ctx, owner.ID, v.Slug)
	assert.ErrorIs(t, err, ErrVoteNotFound)
	assert.ErrorIs(t, h.votes.Delete(ctx, owner.ID, v.Slug), ErrVoteNotFound)

	mine, total, err := h.votes.ListMine(ctx, voter.ID, models.ListParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, mine, 1)

	require.NoError(t, h.votes.Delete(ctx, voter.ID, v.Slug))
	_, err = h.votes.Get(ctx, voter.ID, v.Slug)
	assert.ErrorIs(t, err, ErrVoteNotFound)
}
