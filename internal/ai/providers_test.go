package ai

import (
	"context"
	"testing"

	"poll-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type recordingModel struct {
	got []llms.MessageContent
}

func (r *recordingModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	r.got = messages
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}, nil
}

func (r *recordingModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, r, prompt, options...)
}

func TestMergeSystem(t *testing.T) {
	out := MergeSystem([]llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "be brief"),
		llms.TextParts(llms.ChatMessageTypeHuman, "hello"),
	})
	require.Len(t, out, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, out[0].Role)
	assert.Equal(t, "be brief\n\nhello", textOf(out[0]))
}

func TestMergeSystemWithoutHuman(t *testing.T) {
	out := MergeSystem([]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, "only")})
	require.Len(t, out, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, out[0].Role)
}

func TestHumanOnlyForwardsMergedMessages(t *testing.T) {
	rec := &recordingModel{}
	m := HumanOnly(rec)
	resp, err := m.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "sys"),
		llms.TextParts(llms.ChatMessageTypeHuman, "q"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Choices[0].Content)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "sys\n\nq", textOf(rec.got[0]))
}

func TestNewWithoutKeys(t *testing.T) {
	p := New(context.Background(), config.AIConfig{}, zap.NewNop())
	assert.Nil(t, p.Primary)
	assert.Nil(t, p.Fallback)
	assert.Nil(t, p.Store)
	assert.NoError(t, p.Close())
}
