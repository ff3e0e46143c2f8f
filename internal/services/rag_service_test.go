package services

import (
	"context"
	"errors"
	"testing"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const draftJSON = `{"title":"Team lunch","description":"Pick a place","questions":[{"text":"Where?","question_type":"single","options":[{"text":"Cafe"},{"text":"Park"}]}]}`

func newRAG(h *harness, primary, fallback llms.Model, store *fakeStore) *RAGService {
	svc := NewRAGService(h.polls, h.voteRepo, h.aiRepo, primary, fallback, nil, zap.NewNop())
	if store != nil {
		svc.store = store
	}
	return svc
}

func TestIngestAndRetrieve(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)
	other := testutil.CreatePoll(t, h.db, owner, "Pets", []string{"Cat or dog?", "Cat", "Dog"})
	q := &poll.Questions[0]
	testutil.CreateVote(t, h.db, owner, q, &q.Options[0])

	store := &fakeStore{}
	rag := newRAG(h, nil, nil, store)

	n, err := rag.IngestPollData(ctx, poll.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = rag.IngestPollData(ctx, other.Slug)
	require.NoError(t, err)

	assert.Equal(t, "Poll Title: Colours. Description: Colours description.", store.docs[0].PageContent)
	assert.Equal(t, "Question: Favourite colour?. Type: single. Results: Red (1 votes), Green (0 votes), Blue (0 votes).", store.docs[1].PageContent)
	assert.Equal(t, "poll_system", store.docs[0].Metadata["source"])

	got := rag.RetrieveContext(ctx, "which colour", poll.ID)
	assert.Contains(t, got, "Colours")
	assert.NotContains(t, got, "Pets")

	store.err = errors.New("connection refused")
	assert.Empty(t, rag.RetrieveContext(ctx, "which colour", poll.ID))

	_, err = newRAG(h, nil, nil, nil).IngestPollData(ctx, poll.Slug)
	assert.ErrorIs(t, err, ErrVectorStoreDisabled)
}

func TestGenerateInsight_PrimaryOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)

	primary := &fakeLLM{out: "Red is winning."}
	fallback := &fakeLLM{out: "unused"}
	rag := newRAG(h, primary, fallback, &fakeStore{})

	res, err := rag.GenerateInsight(ctx, owner.ID, poll.Slug, "Which colour leads?")
	require.NoError(t, err)
	assert.Equal(t, "Red is winning.", res.Insight)
	assert.Equal(t, models.ProviderOpenAI, res.Provider)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls)
	assert.Contains(t, primary.last[1].Parts[0].(llms.TextContent).Text, noContextFound)
}

func TestGenerateInsight_Fallback(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)

	primary := &fakeLLM{err: errors.New("rate limited")}
	fallback := &fakeLLM{out: "Blue trails."}
	rag := newRAG(h, primary, fallback, nil)

	res, err := rag.GenerateInsight(ctx, owner.ID, poll.Slug, "Which colour trails?")
	require.NoError(t, err)
	assert.Equal(t, "Blue trails.", res.Insight)
	assert.Equal(t, models.ProviderGemini, res.Provider)
	assert.Equal(t, 1, fallback.calls)

	fallback.err = errors.New("down")
	res, err = rag.GenerateInsight(ctx, owner.ID, poll.Slug, "Anything?")
	require.NoError(t, err)
	assert.Equal(t, "Service unavailable.", res.Insight)
	assert.Equal(t, models.ProviderNone, res.Provider)

	history, err := rag.History(ctx, poll.Slug, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	providers := []string{history[0].ProviderUsed, history[1].ProviderUsed}
	assert.ElementsMatch(t, []string{models.ProviderGemini, models.ProviderNone}, providers)

	_, err = rag.GenerateInsight(ctx, owner.ID, "missing", "q")
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestParseGeneratedPoll(t *testing.T) {
	p, err := ParseGeneratedPoll("```json\n" + draftJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Team lunch", p.Title)
	require.Len(t, p.Questions, 1)
	assert.Len(t, p.Questions[0].Options, 2)

	_, err = ParseGeneratedPoll(`{"title":"x","questions":[]}`)
	assert.ErrorIs(t, err, ErrInvalidGeneration)

	_, err = ParseGeneratedPoll("not json")
	assert.Error(t, err)
}

func TestGeneratePollStructure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	primary := &fakeLLM{out: `{"title":"only a title"}`}
	fallback := &fakeLLM{out: "```" + draftJSON + "```"}
	res, err := newRAG(h, primary, fallback, nil).GeneratePollStructure(ctx, "lunch spots")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGemini, res.Provider)
	assert.Equal(t, "Team lunch", res.Poll.Title)

	fallback.out = "garbage"
	_, err = newRAG(h, primary, fallback, nil).GeneratePollStructure(ctx, "lunch spots")
	assert.ErrorIs(t, err, ErrInvalidGeneration)

	_, err = newRAG(h, nil, nil, nil).GeneratePollStructure(ctx, "lunch spots")
	assert.ErrorIs(t, err, ErrNoProvider)
}
