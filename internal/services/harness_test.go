package services

import (
	"context"
	"testing"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/tasks"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db       *gorm.DB
	cache    *cache.MemoryCache
	registry *tasks.Registry
	queue    *tasks.InlineQueue

	pollRepo *postgres.PollRepository
	voteRepo *postgres.VoteRepository
	viewRepo *postgres.ViewRepository
	distRepo *postgres.DistributionRepository
	aiRepo   *postgres.AnalysisRepository

	polls     *PollService
	questions *QuestionService
	options   *OptionService
	votes     *VoteService
	agg       *AggregationService
	notify    *NotificationService
	dist      *DistributionService
	analytics *AnalyticsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	c, err := cache.NewMemoryCache(100)
	require.NoError(t, err)

	log := zap.NewNop()
	reg := tasks.NewRegistry()
	queue := tasks.NewInlineQueue(tasks.NewRunner(reg, tasks.DefaultMaxRetries, 0), false)

	h := &harness{
		db:       db,
		cache:    c,
		registry: reg,
		queue:    queue,
		pollRepo: postgres.NewPollRepository(db),
		voteRepo: postgres.NewVoteRepository(db),
		viewRepo: postgres.NewViewRepository(db),
		distRepo: postgres.NewDistributionRepository(db),
		aiRepo:   postgres.NewAnalysisRepository(db),
	}
	h.polls = NewPollService(h.pollRepo, postgres.NewQuestionRepository(db), postgres.NewOptionRepository(db), h.viewRepo, log)
	h.questions = NewQuestionService(h.polls, postgres.NewQuestionRepository(db))
	h.options = NewOptionService(h.polls, h.questions, postgres.NewOptionRepository(db))
	h.votes = NewVoteService(h.voteRepo, h.questions, h.options, log)
	h.agg = NewAggregationService(h.polls, h.voteRepo, c, queue, log)
	h.notify = NewNotificationService(h.polls, NewLogNotifier(log), queue, log)
	h.dist = NewDistributionService(h.polls, h.distRepo, c, queue, "http://polls.test", log)
	h.analytics = NewAnalyticsService(h.pollRepo, h.voteRepo, h.viewRepo, c, log)
	RegisterTasks(reg, h.agg, h.notify, h.dist)
	return h
}

func (h *harness) favouriteColour(t *testing.T, owner *models.User) *models.Poll {
	t.Helper()
	p := testutil.CreatePoll(t, h.db, owner, "Colours", []string{"Favourite colour?", "Red", "Green", "Blue"})
	poll, err := h.polls.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	return poll
}

type fakeLLM struct {
	out   string
	err   error
	calls int
	last  []llms.MessageContent
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.last = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.out}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

type fakeStore struct {
	docs []schema.Document
	err  error
}

func (s *fakeStore) AddDocuments(_ context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	s.docs = append(s.docs, docs...)
	ids := make([]string, len(docs))
	return ids, nil
}

func (s *fakeStore) SimilaritySearch(_ context.Context, _ string, n int, options ...vectorstores.Option) ([]schema.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	var opts vectorstores.Options
	for _, o := range options {
		o(&opts)
	}
	filter, _ := opts.Filters.(map[string]any)

	var out []schema.Document
	for _, d := range s.docs {
		if filter != nil && d.Metadata["poll_id"] != filter["poll_id"] {
			continue
		}
		out = append(out, d)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
