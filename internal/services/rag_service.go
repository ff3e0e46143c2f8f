package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"go.uber.org/zap"
)

const (
	contextDocuments   = 4
	insightTemperature = 0.3
	serviceUnavailable = "Service unavailable."
	noContextFound     = "No specific poll data found for this query."
	MaxHistory         = 50
)

const insightSystemPrompt = "You are a helpful data analyst for a polling system. " +
	"Use the following context to answer the user's question about the poll. " +
	"If the answer is not in the context, state that you don't have that information. " +
	"Keep answers concise and data-driven."

const generateSystemPrompt = `You are a helpful assistant that generates structured poll data.
Given a user's description, create a complete poll with:
- A clear, concise title
- A brief description
- 1-5 relevant questions
- 2-6 options per question

Return ONLY a valid JSON object with this exact structure:
{
    "title": "Poll Title",
    "description": "Poll description",
    "questions": [
        {
            "text": "Question text?",
            "question_type": "single or multiple",
            "options": [{"text": "Option 1"}, {"text": "Option 2"}]
        }
    ]
}

Rules:
- Keep titles under 200 characters
- Keep descriptions under 500 characters
- Use single for single-answer questions and multiple for multiple-answer questions
- Make options clear and mutually exclusive when possible
- Return ONLY valid JSON, no markdown or explanations`

// RAGService answers questions about polls from their embedded results and
// drafts new polls from prompts. Generation tries the primary model first
// and the fallback only when the primary fails.
type RAGService struct {
	polls    *PollService
	votes    *postgres.VoteRepository
	history  *postgres.AnalysisRepository
	primary  llms.Model
	fallback llms.Model
	store    vectorstores.VectorStore
	logger   *zap.Logger
}

func NewRAGService(
	polls *PollService,
	votes *postgres.VoteRepository,
	history *postgres.AnalysisRepository,
	primary, fallback llms.Model,
	store vectorstores.VectorStore,
	logger *zap.Logger,
) *RAGService {
	return &RAGService{
		polls:    polls,
		votes:    votes,
		history:  history,
		primary:  primary,
		fallback: fallback,
		store:    store,
		logger:   logger,
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// PollChunks renders a poll and its current tally as text for embedding.
func PollChunks(poll *models.Poll, tally models.PollTally) []string {
	chunks := []string{fmt.Sprintf("Poll Title: %s. Description: %s.", poll.Title, orNone(poll.Description))}
	for i := range poll.Questions {
		q := &poll.Questions[i]
		opts := make([]string, 0, len(q.Options))
		for j := range q.Options {
			o := &q.Options[j]
			opts = append(opts, fmt.Sprintf("%s (%d votes)", o.Text, tally[q.ID].Options[o.ID]))
		}
		chunks = append(chunks, fmt.Sprintf("Question: %s. Type: %s. Results: %s.",
			q.Text, q.QuestionType, strings.Join(opts, ", ")))
	}
	return chunks
}

// IngestPollData embeds the poll's text chunks into the vector store and
// returns how many were stored.
func (s *RAGService) IngestPollData(ctx context.Context, slug string) (int, error) {
	if s.store == nil {
		return 0, ErrVectorStoreDisabled
	}
	poll, err := s.polls.Get(ctx, slug)
	if err != nil {
		return 0, err
	}
	rows, err := s.votes.CountsByPoll(ctx, poll.ID)
	if err != nil {
		return 0, err
	}

	chunks := PollChunks(poll, buildTally(poll, rows))
	docs := make([]schema.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, schema.Document{
			PageContent: c,
			Metadata:    map[string]any{"poll_id": strconv.FormatUint(uint64(poll.ID), 10), "source": "poll_system"},
		})
	}
	if _, err := s.store.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	s.logger.Info("ingested poll data", zap.String("poll", poll.Slug), zap.Int("chunks", len(docs)))
	return len(docs), nil
}

// RetrieveContext returns the documents most similar to query for the poll,
// joined by newlines. Retrieval failures yield an empty context.
func (s *RAGService) RetrieveContext(ctx context.Context, query string, pollID uint) string {
	if s.store == nil {
		return ""
	}
	docs, err := s.store.SimilaritySearch(ctx, query, contextDocuments,
		vectorstores.WithFilters(map[string]any{"poll_id": strconv.FormatUint(uint64(pollID), 10)}))
	if err != nil {
		s.logger.Error("error retrieving context", zap.Uint("poll_id", pollID), zap.Error(err))
		return ""
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.PageContent)
	}
	return strings.Join(parts, "\n")
}

func complete(ctx context.Context, m llms.Model, messages []llms.MessageContent) (string, error) {
	resp, err := m.GenerateContent(ctx, messages, llms.WithTemperature(insightTemperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Content, nil
}

// generate runs parse against the primary model's output and, if either
// the call or parse fails, against the fallback's.
func (s *RAGService) generate(ctx context.Context, messages []llms.MessageContent, parse func(string) error) (string, error) {
	if s.primary == nil && s.fallback == nil {
		return models.ProviderNone, ErrNoProvider
	}

	var primaryErr error
	if s.primary != nil {
		out, err := complete(ctx, s.primary, messages)
		if err == nil {
			err = parse(out)
		}
		if err == nil {
			return models.ProviderOpenAI, nil
		}
		primaryErr = err
		s.logger.Warn("primary LLM failed, attempting fallback", zap.Error(err))
	}

	if s.fallback != nil {
		out, err := complete(ctx, s.fallback, messages)
		if err == nil {
			err = parse(out)
		}
		if err == nil {
			return models.ProviderGemini, nil
		}
		s.logger.Error("fallback LLM failed", zap.Error(err))
		if primaryErr == nil {
			primaryErr = err
		}
	}
	return models.ProviderNone, primaryErr
}

// GenerateInsight answers query about the poll and records the exchange.
// When no provider succeeds the insight is "Service unavailable." and the
// provider is "none".
func (s *RAGService) GenerateInsight(ctx context.Context, userID uint, slug, query string) (*models.InsightResponse, error) {
	poll, err := s.polls.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	contextText := s.RetrieveContext(ctx, query, poll.ID)
	if contextText == "" {
		s.logger.Warn("no relevant context found", zap.String("poll", slug), zap.String("query", query))
		contextText = noContextFound
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, insightSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, query)),
	}
	var insight string
	provider, err := s.generate(ctx, messages, func(out string) error {
		insight = out
		return nil
	})
	if err != nil {
		insight = serviceUnavailable
	}

	record := &models.AnalysisRequest{
		UserID:       userID,
		PollID:       poll.ID,
		Query:        query,
		Response:     insight,
		ProviderUsed: provider,
	}
	if err := s.history.Create(ctx, record); err != nil {
		return nil, err
	}
	return &models.InsightResponse{Insight: insight, Provider: provider}, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.ReplaceAll(strings.ReplaceAll(s, "```json", ""), "```", "")
	case strings.HasPrefix(s, "```"):
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

// ParseGeneratedPoll decodes model output into a poll draft. The title,
// description and questions keys must all be present.
func ParseGeneratedPoll(out string) (*models.GeneratedPoll, error) {
	content := stripFences(out)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("parse generated poll: %w", err)
	}
	for _, k := range []string{"title", "description", "questions"} {
		if _, ok := fields[k]; !ok {
			return nil, ErrInvalidGeneration
		}
	}
	var poll models.GeneratedPoll
	if err := json.Unmarshal([]byte(content), &poll); err != nil {
		return nil, fmt.Errorf("parse generated poll: %w", err)
	}
	return &poll, nil
}

// GeneratePollStructure drafts a poll from a natural language prompt.
func (s *RAGService) GeneratePollStructure(ctx context.Context, prompt string) (*models.GeneratePollResponse, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, generateSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, "Generate a poll structure for: "+prompt),
	}
	var poll *models.GeneratedPoll
	provider, err := s.generate(ctx, messages, func(out string) error {
		p, err := ParseGeneratedPoll(out)
		if err != nil {
			return err
		}
		poll = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate poll structure: %w", err)
	}
	s.logger.Info("generated poll structure", zap.String("title", poll.Title), zap.String("provider", provider))
	return &models.GeneratePollResponse{Poll: *poll, Provider: provider}, nil
}

// History lists recorded insights for a poll, newest first.
func (s *RAGService) History(ctx context.Context, slug string, limit int) ([]models.AnalysisRequest, error) {
	poll, err := s.polls.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxHistory {
		limit = MaxHistory
	}
	return s.history.ListByPoll(ctx, poll.ID, limit)
}
