// Package graphql exposes polls, distribution, analytics and AI operations
// over a single GraphQL endpoint.
package graphql

import (
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"poll-service/internal/api/middleware"
	"poll-service/internal/models"
	"poll-service/internal/services"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

const (
	defaultFirst        = 20
	maxFirst            = 100
	defaultEventLimit   = 50
	defaultHistoryLimit = 10
	cursorPrefix        = "arrayconnection:"
)

var ErrAuthRequired = errors.New("Authentication required")

type Resolver struct {
	polls     *services.PollService
	agg       *services.AggregationService
	dist      *services.DistributionService
	analytics *services.AnalyticsService
	rag       *services.RAGService
	now       func() time.Time
	logger    *zap.Logger
}

func NewResolver(
	polls *services.PollService,
	agg *services.AggregationService,
	dist *services.DistributionService,
	analytics *services.AnalyticsService,
	rag *services.RAGService,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		polls:     polls,
		agg:       agg,
		dist:      dist,
		analytics: analytics,
		rag:       rag,
		now:       time.Now,
		logger:    logger,
	}
}

// NewSchema parses the embedded SDL against r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r, graphql.MaxDepth(12))
}

func fmtUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil || !strings.HasPrefix(string(raw), cursorPrefix) {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(raw), cursorPrefix))
	if err != nil || n < 0 || n >= math.MaxInt32 {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	return n, nil
}

func requireUser(ctx context.Context) (uint, error) {
	id, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return 0, ErrAuthRequired
	}
	return id, nil
}

func notFound(err error) bool {
	return errors.Is(err, services.ErrPollNotFound) || errors.Is(err, services.ErrPollUnavailable)
}

func limitOr(limit *int32, def int) int {
	if limit == nil || *limit <= 0 {
		return def
	}
	return int(*limit)
}

func periodOr(period *string) string {
	if period == nil || *period == "" {
		return "30d"
	}
	return *period
}

func (r *Resolver) pollNode(p *models.Poll) *pollResolver {
	return &pollResolver{poll: p, agg: r.agg, now: r.now()}
}

/** -------------------- Queries -------------------- */

type pollsArgs struct {
	First    *int32
	After    *string
	IsActive *bool
	Search   *string
	OrderBy  *string
}

func (r *Resolver) Polls(ctx context.Context, args pollsArgs) (*pollConnectionResolver, error) {
	first := limitOr(args.First, defaultFirst)
	if first > maxFirst {
		first = maxFirst
	}
	offset := 0
	if args.After != nil && *args.After != "" {
		n, err := decodeCursor(*args.After)
		if err != nil {
			return nil, err
		}
		offset = n + 1
	}

	params := models.ListParams{Page: 1, PageSize: first, After: offset, IsActive: args.IsActive}
	if args.Search != nil {
		params.Search = *args.Search
	}
	if args.OrderBy != nil {
		params.Ordering = *args.OrderBy
	}

	polls, total, err := r.polls.List(ctx, params)
	if err != nil {
		return nil, err
	}

	conn := &pollConnectionResolver{
		edges: make([]*pollEdgeResolver, 0, len(polls)),
		total: total,
		pageInfo: &pageInfoResolver{
			hasNext: int64(offset+len(polls)) < total,
			hasPrev: offset > 0,
		},
	}
	for i := range polls {
		conn.edges = append(conn.edges, &pollEdgeResolver{
			cursor: encodeCursor(offset + i),
			node:   r.pollNode(&polls[i]),
		})
	}
	if n := len(conn.edges); n > 0 {
		start, end := conn.edges[0].cursor, conn.edges[n-1].cursor
		conn.pageInfo.start, conn.pageInfo.end = &start, &end
	}
	return conn, nil
}

func (r *Resolver) Poll(ctx context.Context, args struct{ Slug string }) (*pollResolver, error) {
	poll, err := r.polls.Get(ctx, args.Slug)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.pollNode(poll), nil
}

func (r *Resolver) PublicPoll(ctx context.Context, args struct{ Slug string }) (*publicPollResolver, error) {
	poll, err := r.dist.PublicPoll(ctx, args.Slug)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &publicPollResolver{p: models.PublicPollResponse{
		Slug:        poll.Slug,
		Title:       poll.Title,
		Description: poll.Description,
		IsOpen:      poll.IsOpen(r.now()),
	}}, nil
}

func (r *Resolver) PollDistributionInfo(ctx context.Context, args struct{ Slug string }) (*distributionInfoResolver, error) {
	poll, err := r.polls.Get(ctx, args.Slug)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &distributionInfoResolver{info: r.dist.Info(poll)}, nil
}

// PollDistributionAnalytics is null for anonymous callers and for polls the
// caller does not own.
func (r *Resolver) PollDistributionAnalytics(ctx context.Context, args struct {
	Slug  string
	Limit *int32
}) (*distributionAnalyticsResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, nil
	}
	a, err := r.dist.Analytics(ctx, userID, args.Slug, limitOr(args.Limit, defaultEventLimit))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &distributionAnalyticsResolver{a: a}, nil
}

func (r *Resolver) AnalyticsStats(ctx context.Context, args struct{ Period *string }) (*statsResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s, err := r.analytics.Stats(ctx, userID, periodOr(args.Period))
	if err != nil {
		return nil, err
	}
	return &statsResolver{s: s}, nil
}

func (r *Resolver) AnalyticsTrends(ctx context.Context, args struct{ Period *string }) (*trendsResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.analytics.Trends(ctx, userID, periodOr(args.Period))
	if err != nil {
		return nil, err
	}
	return &trendsResolver{t: t}, nil
}

func (r *Resolver) TopPolls(ctx context.Context, args struct {
	Period *string
	Limit  *int32
}) ([]*topPollResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	top, err := r.analytics.TopPolls(ctx, userID, periodOr(args.Period), limitOr(args.Limit, 5))
	if err != nil {
		return nil, err
	}
	out := make([]*topPollResolver, 0, len(top))
	for _, p := range top {
		out = append(out, &topPollResolver{p: p})
	}
	return out, nil
}

func (r *Resolver) PollInsightHistory(ctx context.Context, args struct {
	PollSlug string
	Limit    *int32
}) ([]*analysisResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	history, err := r.rag.History(ctx, args.PollSlug, limitOr(args.Limit, defaultHistoryLimit))
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("Poll with slug %s not found", args.PollSlug)
		}
		return nil, err
	}
	out := make([]*analysisResolver, 0, len(history))
	for _, a := range history {
		out = append(out, &analysisResolver{a: a})
	}
	return out, nil
}

/** -------------------- Mutations -------------------- */

func (r *Resolver) IngestPollData(ctx context.Context, args struct{ PollSlug string }) (*ingestPayload, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	n, err := r.rag.IngestPollData(ctx, args.PollSlug)
	if err != nil {
		return nil, fmt.Errorf("Failed to ingest poll data: %w", err)
	}
	return &ingestPayload{
		message: "Successfully ingested poll " + args.PollSlug + " data into vector store",
		chunks:  n,
	}, nil
}

type insightArgs struct {
	PollSlug string
	Query    string
}

func (r *Resolver) GeneratePollInsight(ctx context.Context, args insightArgs) (*insightPayload, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	res, err := r.rag.GenerateInsight(ctx, userID, args.PollSlug, args.Query)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("Poll with slug %s not found", args.PollSlug)
		}
		return nil, fmt.Errorf("Failed to generate insight: %w", err)
	}
	return &insightPayload{query: args.Query, res: res}, nil
}

// GenerateInsight is kept as an alias of GeneratePollInsight for older clients.
func (r *Resolver) GenerateInsight(ctx context.Context, args insightArgs) (*insightPayload, error) {
	return r.GeneratePollInsight(ctx, args)
}

func (r *Resolver) GeneratePollFromPrompt(ctx context.Context, args struct{ Prompt string }) (*generatedPollPayload, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	res, err := r.rag.GeneratePollStructure(ctx, args.Prompt)
	if err != nil {
		return nil, fmt.Errorf("Failed to generate poll: %w", err)
	}
	return &generatedPollPayload{res: res}, nil
}

func (r *Resolver) RefreshPollResults(ctx context.Context, args struct{ Slug string }) (*refreshPayload, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	poll, err := r.agg.RequestRefresh(ctx, userID, args.Slug)
	if err != nil {
		return nil, err
	}
	return &refreshPayload{slug: poll.Slug}, nil
}
