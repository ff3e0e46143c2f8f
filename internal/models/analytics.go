package models

import "time"

// QuestionTally holds vote counts for one question keyed by option id.
type QuestionTally struct {
	Options    map[uint]int64 `json:"options"`
	TotalVotes int64          `json:"total_votes"`
}

// PollTally is the cached aggregate for a poll keyed by question id.
type PollTally map[uint]QuestionTally

type AggregationResult struct {
	PollID     uint   `json:"poll_id"`
	TotalVotes int64  `json:"total_votes"`
	Status     string `json:"status"`
}

type OptionResult struct {
	Slug  string `json:"slug"`
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

type QuestionResult struct {
	Slug       string         `json:"slug"`
	Text       string         `json:"text"`
	TotalVotes int64          `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

// PollResults is the public view of a poll's tally.
type PollResults struct {
	PollSlug   string           `json:"poll_slug"`
	Cached     bool             `json:"cached"`
	TotalVotes int64            `json:"total_votes"`
	Questions  []QuestionResult `json:"questions"`
}

type AnalyticsStats struct {
	TotalPolls         int64   `json:"total_polls"`
	PollsChange        float64 `json:"polls_change"`
	TotalResponses     int64   `json:"total_responses"`
	ResponsesChange    float64 `json:"responses_change"`
	TotalViews         int64   `json:"total_views"`
	ViewsChange        float64 `json:"views_change"`
	AvgResponseRate    float64 `json:"avg_response_rate"`
	ResponseRateChange float64 `json:"response_rate_change"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

type AnalyticsTrends struct {
	PollCreation []TrendPoint `json:"poll_creation"`
	ResponseRate []TrendPoint `json:"response_rate"`
}

type TopPoll struct {
	ID              uint      `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	VotesCount      int64     `json:"votes_count"`
	ViewsCount      int64     `json:"views_count"`
	EngagementScore float64   `json:"engagement_score"`
	ResponseRate    float64   `json:"response_rate"`
	Status          string    `json:"status"`
}
