package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"poll-service/internal/api/middleware"
	"poll-service/internal/cache"
	gql "poll-service/internal/graphql"
	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/internal/tasks"
	"poll-service/internal/testutil"
	"poll-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jwtSecret = "routes-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.NewDB(t)
	c, err := cache.NewMemoryCache(100)
	require.NoError(t, err)

	reg := tasks.NewRegistry()
	svc := services.NewContainer(services.Deps{
		DB:        db,
		Cache:     c,
		Queue:     tasks.NewInlineQueue(tasks.NewRunner(reg, tasks.DefaultMaxRetries, 0), false),
		BaseURL:   "http://polls.test",
		JWTSecret: jwtSecret,
		Logger:    zap.NewNop(),
	})
	svc.RegisterTasks(reg)

	schema, err := gql.NewSchema(gql.NewResolver(svc.Polls, svc.Aggregation, svc.Distribution, svc.Analytics, svc.RAG, zap.NewNop()))
	require.NoError(t, err)

	metrics := middleware.NewMetrics()
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(metrics.PrometheusCollectors()...)

	r := NewRouter(Options{
		Services:  svc,
		Hub:       websocket.NewHub(),
		Schema:    schema,
		Metrics:   metrics,
		Gatherer:  promReg,
		JWTSecret: jwtSecret,
	})
	r.SetupRoutes()
	return r.GetEngine()
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "s3cret-pass"}
	w := call(t, h, http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createPoll(t *testing.T, h http.Handler, token string) models.PollResponse {
	t.Helper()
	w := call(t, h, http.MethodPost, "/api/v1/polls", token, models.CreatePollRequest{
		Title: "Lunch",
		Questions: []models.QuestionInput{{
			Text:    "Where?",
			Options: []models.OptionInput{{Text: "Tacos"}, {Text: "Ramen"}},
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var poll models.PollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &poll))
	require.Len(t, poll.Questions, 1)
	require.Len(t, poll.Questions[0].Options, 2)
	return poll
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t)
	w := call(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreatePollRequiresAuth(t *testing.T) {
	h := newTestRouter(t)
	w := call(t, h, http.MethodPost, "/api/v1/polls", "", models.CreatePollRequest{Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPollVoteAndResultsFlow(t *testing.T) {
	h := newTestRouter(t)
	owner := login(t, h, "owner@example.com")
	voter := login(t, h, "voter@example.com")
	poll := createPoll(t, h, owner)
	q := poll.Questions[0]

	w := call(t, h, http.MethodPost, "/api/v1/votes", voter, models.CastVoteRequest{
		Question: q.Slug, Option: q.Options[1].Slug,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodPost, "/api/v1/votes", voter, models.CastVoteRequest{
		Question: q.Slug, Option: q.Options[0].Slug,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, h, http.MethodPost, "/api/v1/polls/"+poll.Slug+"/results/refresh", voter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, h, http.MethodPost, "/api/v1/polls/"+poll.Slug+"/results/refresh", owner, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = call(t, h, http.MethodGet, "/api/v1/polls/"+poll.Slug+"/results", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res models.PollResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Cached)
	assert.EqualValues(t, 1, res.TotalVotes)
	assert.EqualValues(t, 1, res.Questions[0].Options[1].Votes)
}

func TestListPollsIsPaginated(t *testing.T) {
	h := newTestRouter(t)
	owner := login(t, h, "owner@example.com")
	createPoll(t, h, owner)
	createPoll(t, h, owner)

	w := call(t, h, http.MethodGet, "/api/v1/polls?page_size=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.Page[models.PollResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 2, page.Count)
	assert.Len(t, page.Results, 1)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=2")
	assert.Nil(t, page.Previous)
}

func TestSharePageRendersOpenGraphTags(t *testing.T) {
	h := newTestRouter(t)
	owner := login(t, h, "owner@example.com")
	poll := createPoll(t, h, owner)

	w := call(t, h, http.MethodGet, "/polls/"+poll.Slug, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `property="og:title"`)
	assert.Contains(t, w.Body.String(), "Lunch")
}

func TestDistributionAnalyticsNeedsOwner(t *testing.T) {
	h := newTestRouter(t)
	owner := login(t, h, "owner@example.com")
	other := login(t, h, "other@example.com")
	poll := createPoll(t, h, owner)
	path := "/api/v1/distribution/polls/" + poll.Slug + "/distribution/analytics"

	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, path, other, nil).Code)
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, path, owner, nil).Code)
}

func graphQL(t *testing.T, h http.Handler, token, query string) map[string]any {
	t.Helper()
	w := call(t, h, http.MethodPost, "/graphql", token, map[string]any{"query": query})
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGraphQLPollsConnection(t *testing.T) {
	h := newTestRouter(t)
	owner := login(t, h, "owner@example.com")
	poll := createPoll(t, h, owner)

	out := graphQL(t, h, "", `{ polls(first: 5) { totalCount edges { node { slug totalVotes questions { options { text voteCount } } } } } }`)
	require.Nil(t, out["errors"])
	data := out["data"].(map[string]any)["polls"].(map[string]any)
	assert.EqualValues(t, 1, data["totalCount"])
	node := data["edges"].([]any)[0].(map[string]any)["node"].(map[string]any)
	assert.Equal(t, poll.Slug, node["slug"])
	assert.EqualValues(t, 0, node["totalVotes"])
}

func TestGraphQLAuthRequired(t *testing.T) {
	h := newTestRouter(t)
	out := graphQL(t, h, "", `{ analyticsStats(period: "7d") { totalPolls } }`)
	errs, ok := out["errors"].([]any)
	require.True(t, ok)
	assert.Equal(t, "Authentication required", errs[0].(map[string]any)["message"])

	token := login(t, h, "owner@example.com")
	out = graphQL(t, h, token, `{ analyticsStats(period: "7d") { totalPolls } }`)
	assert.Nil(t, out["errors"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	call(t, h, http.MethodGet, "/healthz", "", nil)

	w := call(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}
