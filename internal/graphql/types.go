package graphql

import (
	"context"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/services"

	"github.com/graph-gophers/graphql-go"
)

func gqlTime(t time.Time) graphql.Time {
	return graphql.Time{Time: t}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type pollResolver struct {
	poll *models.Poll
	agg  *services.AggregationService
	now  time.Time
}

func (r *pollResolver) Slug() string        { return r.poll.Slug }
func (r *pollResolver) Title() string       { return r.poll.Title }
func (r *pollResolver) Description() string { return r.poll.Description }
func (r *pollResolver) IsActive() bool      { return r.poll.IsActive }
func (r *pollResolver) IsOpen() bool        { return r.poll.IsOpen(r.now) }
func (r *pollResolver) CreatedAt() graphql.Time {
	return gqlTime(r.poll.CreatedAt)
}
func (r *pollResolver) StartDate() graphql.Time {
	return gqlTime(r.poll.StartDate)
}

func (r *pollResolver) CreatedBy() string {
	if r.poll.CreatedBy == nil {
		return ""
	}
	return r.poll.CreatedBy.Email
}

func (r *pollResolver) EndDate() *graphql.Time {
	if r.poll.EndDate == nil {
		return nil
	}
	t := gqlTime(*r.poll.EndDate)
	return &t
}

func (r *pollResolver) TotalVotes(ctx context.Context) (int32, error) {
	var total int64
	for i := range r.poll.Questions {
		n, err := r.agg.QuestionTotalVotes(ctx, &r.poll.Questions[i])
		if err != nil {
			return 0, err
		}
		total += n
	}
	return int32(total), nil
}

func (r *pollResolver) Questions() []*questionResolver {
	out := make([]*questionResolver, 0, len(r.poll.Questions))
	for i := range r.poll.Questions {
		out = append(out, &questionResolver{q: &r.poll.Questions[i], pollID: r.poll.ID, agg: r.agg})
	}
	return out
}

type questionResolver struct {
	q      *models.Question
	pollID uint
	agg    *services.AggregationService
}

func (r *questionResolver) Slug() string         { return r.q.Slug }
func (r *questionResolver) Text() string         { return r.q.Text }
func (r *questionResolver) QuestionType() string { return string(r.q.QuestionType) }
func (r *questionResolver) Order() int32         { return int32(r.q.Order) }

func (r *questionResolver) TotalVotes(ctx context.Context) (int32, error) {
	n, err := r.agg.QuestionTotalVotes(ctx, r.q)
	return int32(n), err
}

func (r *questionResolver) Options() []*optionResolver {
	out := make([]*optionResolver, 0, len(r.q.Options))
	for i := range r.q.Options {
		out = append(out, &optionResolver{o: &r.q.Options[i], pollID: r.pollID, agg: r.agg})
	}
	return out
}

type optionResolver struct {
	o      *models.Option
	pollID uint
	agg    *services.AggregationService
}

func (r *optionResolver) Slug() string { return r.o.Slug }
func (r *optionResolver) Text() string { return r.o.Text }
func (r *optionResolver) Order() int32 { return int32(r.o.Order) }

func (r *optionResolver) VoteCount(ctx context.Context) (int32, error) {
	n, err := r.agg.OptionVoteCount(ctx, r.pollID, r.o)
	return int32(n), err
}

type pageInfoResolver struct {
	hasNext, hasPrev bool
	start, end       *string
}

func (r *pageInfoResolver) HasNextPage() bool     { return r.hasNext }
func (r *pageInfoResolver) HasPreviousPage() bool { return r.hasPrev }
func (r *pageInfoResolver) StartCursor() *string  { return r.start }
func (r *pageInfoResolver) EndCursor() *string    { return r.end }

type pollEdgeResolver struct {
	cursor string
	node   *pollResolver
}

func (r *pollEdgeResolver) Cursor() string      { return r.cursor }
func (r *pollEdgeResolver) Node() *pollResolver { return r.node }

type pollConnectionResolver struct {
	edges    []*pollEdgeResolver
	pageInfo *pageInfoResolver
	total    int64
}

func (r *pollConnectionResolver) Edges() []*pollEdgeResolver  { return r.edges }
func (r *pollConnectionResolver) PageInfo() *pageInfoResolver { return r.pageInfo }
func (r *pollConnectionResolver) TotalCount() int32           { return int32(r.total) }

type publicPollResolver struct{ p models.PublicPollResponse }

func (r *publicPollResolver) Slug() string        { return r.p.Slug }
func (r *publicPollResolver) Title() string       { return r.p.Title }
func (r *publicPollResolver) Description() string { return r.p.Description }
func (r *publicPollResolver) IsOpen() bool        { return r.p.IsOpen }

type distributionInfoResolver struct{ info models.DistributionInfo }

func (r *distributionInfoResolver) PublicURL() string { return r.info.PublicURL }
func (r *distributionInfoResolver) QrCodeURL() string { return r.info.QRCodeURL }
func (r *distributionInfoResolver) EmbedCode() string { return r.info.EmbedCode }

type summaryResolver struct{ s models.DistributionSummary }

func (r *summaryResolver) TotalLinkOpens() int32    { return int32(r.s.TotalLinkOpens) }
func (r *summaryResolver) TotalQrScans() int32      { return int32(r.s.TotalQRScans) }
func (r *summaryResolver) TotalEmbedLoads() int32   { return int32(r.s.TotalEmbedLoads) }
func (r *summaryResolver) TotalSocialShares() int32 { return int32(r.s.TotalSocialShares) }

type eventResolver struct{ e models.DistributionEventResponse }

func (r *eventResolver) EventType() string       { return string(r.e.EventType) }
func (r *eventResolver) Timestamp() graphql.Time { return gqlTime(r.e.Timestamp) }
func (r *eventResolver) IPAddress() *string      { return optString(r.e.IPAddress) }
func (r *eventResolver) UserAgent() *string      { return optString(r.e.UserAgent) }
func (r *eventResolver) Referrer() *string       { return optString(r.e.Referrer) }
func (r *eventResolver) Metadata() *JSON         { return &JSON{Value: r.e.Metadata} }

type distributionAnalyticsResolver struct {
	a *models.DistributionAnalyticsResponse
}

func (r *distributionAnalyticsResolver) PollSlug() string { return r.a.PollSlug }
func (r *distributionAnalyticsResolver) Summary() *summaryResolver {
	return &summaryResolver{s: r.a.Summary}
}

func (r *distributionAnalyticsResolver) RecentEvents() []*eventResolver {
	out := make([]*eventResolver, 0, len(r.a.RecentEvents))
	for _, e := range r.a.RecentEvents {
		out = append(out, &eventResolver{e: e})
	}
	return out
}

type statsResolver struct{ s *models.AnalyticsStats }

func (r *statsResolver) TotalPolls() int32           { return int32(r.s.TotalPolls) }
func (r *statsResolver) PollsChange() float64        { return r.s.PollsChange }
func (r *statsResolver) TotalResponses() int32       { return int32(r.s.TotalResponses) }
func (r *statsResolver) ResponsesChange() float64    { return r.s.ResponsesChange }
func (r *statsResolver) TotalViews() int32           { return int32(r.s.TotalViews) }
func (r *statsResolver) ViewsChange() float64        { return r.s.ViewsChange }
func (r *statsResolver) AvgResponseRate() float64    { return r.s.AvgResponseRate }
func (r *statsResolver) ResponseRateChange() float64 { return r.s.ResponseRateChange }

type trendPointResolver struct{ p models.TrendPoint }

func (r *trendPointResolver) Date() string { return r.p.Date }
func (r *trendPointResolver) Value() int32 { return int32(r.p.Value) }

func trendPoints(in []models.TrendPoint) []*trendPointResolver {
	out := make([]*trendPointResolver, 0, len(in))
	for _, p := range in {
		out = append(out, &trendPointResolver{p: p})
	}
	return out
}

type trendsResolver struct{ t *models.AnalyticsTrends }

func (r *trendsResolver) PollCreation() []*trendPointResolver { return trendPoints(r.t.PollCreation) }
func (r *trendsResolver) ResponseRate() []*trendPointResolver { return trendPoints(r.t.ResponseRate) }

type topPollResolver struct{ p models.TopPoll }

func (r *topPollResolver) Slug() string             { return r.p.Slug }
func (r *topPollResolver) Title() string            { return r.p.Title }
func (r *topPollResolver) CreatedAt() graphql.Time  { return gqlTime(r.p.CreatedAt) }
func (r *topPollResolver) VotesCount() int32        { return int32(r.p.VotesCount) }
func (r *topPollResolver) ViewsCount() int32        { return int32(r.p.ViewsCount) }
func (r *topPollResolver) EngagementScore() float64 { return r.p.EngagementScore }
func (r *topPollResolver) ResponseRate() float64    { return r.p.ResponseRate }
func (r *topPollResolver) Status() string           { return r.p.Status }

type analysisResolver struct{ a models.AnalysisRequest }

func (r *analysisResolver) ID() graphql.ID {
	return graphql.ID(fmtUint(r.a.ID))
}
func (r *analysisResolver) Query() string           { return r.a.Query }
func (r *analysisResolver) Response() string        { return r.a.Response }
func (r *analysisResolver) ProviderUsed() string    { return r.a.ProviderUsed }
func (r *analysisResolver) CreatedAt() graphql.Time { return gqlTime(r.a.CreatedAt) }

type ingestPayload struct {
	message string
	chunks  int
}

func (r *ingestPayload) Success() bool   { return true }
func (r *ingestPayload) Message() string { return r.message }
func (r *ingestPayload) Chunks() int32   { return int32(r.chunks) }

type insightPayload struct {
	query string
	res   *models.InsightResponse
}

func (r *insightPayload) Query() string    { return r.query }
func (r *insightPayload) Insight() string  { return r.res.Insight }
func (r *insightPayload) Provider() string { return r.res.Provider }

type generatedOptionResolver struct{ o models.GeneratedOption }

func (r *generatedOptionResolver) Text() string { return r.o.Text }

type generatedQuestionResolver struct{ q models.GeneratedQuestion }

func (r *generatedQuestionResolver) Text() string         { return r.q.Text }
func (r *generatedQuestionResolver) QuestionType() string { return r.q.QuestionType }
func (r *generatedQuestionResolver) Options() []*generatedOptionResolver {
	out := make([]*generatedOptionResolver, 0, len(r.q.Options))
	for _, o := range r.q.Options {
		out = append(out, &generatedOptionResolver{o: o})
	}
	return out
}

type generatedPollPayload struct{ res *models.GeneratePollResponse }

func (r *generatedPollPayload) Title() string       { return r.res.Poll.Title }
func (r *generatedPollPayload) Description() string { return r.res.Poll.Description }
func (r *generatedPollPayload) Provider() string    { return r.res.Provider }
func (r *generatedPollPayload) Questions() []*generatedQuestionResolver {
	out := make([]*generatedQuestionResolver, 0, len(r.res.Poll.Questions))
	for _, q := range r.res.Poll.Questions {
		out = append(out, &generatedQuestionResolver{q: q})
	}
	return out
}

type refreshPayload struct{ slug string }

func (r *refreshPayload) Slug() string   { return r.slug }
func (r *refreshPayload) Status() string { return "queued" }
