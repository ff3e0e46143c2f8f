// Package ai builds the language model and vector store clients used for
// poll insights.
package ai

import (
	"context"
	"fmt"
	"strings"

	"poll-service/internal/config"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pgvector"
	"go.uber.org/zap"
)

const (
	DefaultCollection = "poll_embeddings"
	DefaultGemini     = "gemini-pro"
)

// Providers holds the configured clients. Any field may be nil when the
// matching credentials are absent.
type Providers struct {
	Primary  llms.Model
	Fallback llms.Model
	Store    vectorstores.VectorStore
}

// New builds the OpenAI primary, the Gemini fallback and, when OpenAI
// embeddings and a vector database are configured, the pgvector store.
// Initialisation failures disable the affected provider instead of failing.
func New(ctx context.Context, cfg config.AIConfig, log *zap.Logger) *Providers {
	p := &Providers{}

	var oai *openai.LLM
	if cfg.OpenAIKey != "" {
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIKey),
			openai.WithModel(cfg.OpenAIModel),
			openai.WithEmbeddingModel(cfg.OpenAIEmbeddingModel),
		)
		if err != nil {
			log.Warn("OpenAI init failed", zap.Error(err))
		} else {
			oai = llm
			p.Primary = llm
			log.Info("Using primary LLM", zap.String("provider", "openai"), zap.String("model", cfg.OpenAIModel))
		}
	}

	if cfg.GeminiKey != "" {
		model := cfg.GeminiModel
		if model == "" {
			model = DefaultGemini
		}
		llm, err := googleai.New(ctx, googleai.WithAPIKey(cfg.GeminiKey), googleai.WithDefaultModel(model))
		if err != nil {
			log.Error("Gemini init failed", zap.Error(err))
		} else {
			p.Fallback = HumanOnly(llm)
		}
	}

	if oai == nil {
		log.Warn("OPENAI_API_KEY not set, vector store disabled")
		return p
	}
	if cfg.VectorDatabaseURL == "" {
		log.Warn("VECTOR_DATABASE_URL not set, vector store disabled")
		return p
	}
	store, err := NewVectorStore(ctx, oai, cfg.VectorDatabaseURL, cfg.VectorCollection)
	if err != nil {
		log.Error("vector store init failed", zap.Error(err))
		return p
	}
	p.Store = store
	return p
}

// NewVectorStore opens a pgvector collection embedding documents with client.
func NewVectorStore(ctx context.Context, client embeddings.EmbedderClient, url, collection string) (vectorstores.VectorStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	store, err := pgvector.New(ctx,
		pgvector.WithConnectionURL(url),
		pgvector.WithEmbedder(embedder),
		pgvector.WithCollectionName(collection),
	)
	if err != nil {
		return nil, fmt.Errorf("open pgvector: %w", err)
	}
	return store, nil
}

// Close releases the vector store connection when it holds one.
func (p *Providers) Close() error {
	if c, ok := p.Store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

type humanOnly struct {
	llms.Model
}

// HumanOnly wraps models that reject system messages. System parts are
// prepended to the first human message.
func HumanOnly(m llms.Model) llms.Model {
	return humanOnly{Model: m}
}

func (h humanOnly) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return h.Model.GenerateContent(ctx, MergeSystem(messages), options...)
}

// MergeSystem folds system messages into the next human message.
func MergeSystem(messages []llms.MessageContent) []llms.MessageContent {
	var pending []string
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		if m.Role == llms.ChatMessageTypeSystem {
			pending = append(pending, textOf(m))
			continue
		}
		if m.Role == llms.ChatMessageTypeHuman && len(pending) > 0 {
			pending = append(pending, textOf(m))
			m = llms.TextParts(llms.ChatMessageTypeHuman, strings.Join(pending, "\n\n"))
			pending = nil
		}
		out = append(out, m)
	}
	if len(pending) > 0 {
		out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, strings.Join(pending, "\n\n")))
	}
	return out
}

func textOf(m llms.MessageContent) string {
	var parts []string
	for _, p := range m.Parts {
		if t, ok := p.(llms.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}
