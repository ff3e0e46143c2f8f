package models

import "time"

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// AnalysisRequest is an append-only log of AI insight generations.
type AnalysisRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	PollID       uint      `gorm:"index;not null" json:"poll_id"`
	Query        string    `gorm:"type:text;not null" json:"query"`
	Response     string    `gorm:"type:text" json:"response"`
	ProviderUsed string    `gorm:"size:50;not null" json:"provider_used"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

/** -------------------- DTOs -------------------- */
type GeneratePollRequest struct {
	Prompt string `json:"prompt" binding:"required,max=1000"`
}

type GenerateInsightRequest struct {
	PollSlug string `json:"poll_slug" binding:"required"`
	Query    string `json:"query" binding:"required,max=500"`
}

type IngestRequest struct {
	PollSlug string `json:"poll_slug" binding:"required"`
}

type GeneratedOption struct {
	Text string `json:"text"`
}

type GeneratedQuestion struct {
	Text         string            `json:"text"`
	QuestionType string            `json:"question_type"`
	Options      []GeneratedOption `json:"options"`
}

// GeneratedPoll is the structure an LLM is asked to return for a prompt.
type GeneratedPoll struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []GeneratedQuestion `json:"questions"`
}

type InsightResponse struct {
	Insight  string `json:"insight"`
	Provider string `json:"provider"`
}

type GeneratePollResponse struct {
	Poll     GeneratedPoll `json:"poll"`
	Provider string        `json:"provider"`
}

type IngestResponse struct {
	Message string `json:"message"`
	Chunks  int    `json:"chunks"`
}

type AnalysisRequestResponse struct {
	ID           uint      `json:"id"`
	Query        string    `json:"query"`
	Response     string    `json:"response"`
	ProviderUsed string    `json:"provider_used"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *AnalysisRequest) ToResponse() AnalysisRequestResponse {
	return AnalysisRequestResponse{
		ID:           a.ID,
		Query:        a.Query,
		Response:     a.Response,
		ProviderUsed: a.ProviderUsed,
		CreatedAt:    a.CreatedAt,
	}
}
