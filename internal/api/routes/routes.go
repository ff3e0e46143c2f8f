package routes

import (
	"net/http"
	"time"

	"poll-service/internal/api/handlers"
	"poll-service/internal/api/middleware"
	"poll-service/internal/services"
	"poll-service/internal/websocket"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Options carries everything the router needs. Limiter, Gatherer and
// Schema are optional.
type Options struct {
	Services       *services.Container
	Hub            *websocket.Hub
	Schema         *graphql.Schema
	Limiter        middleware.Limiter
	Metrics        *middleware.Metrics
	Gatherer       prometheus.Gatherer
	Health         map[string]handlers.Checker
	JWTSecret      string
	AllowedOrigins []string
	ReleaseMode    bool
	Logger         *zap.Logger
}

type Router struct {
	engine      *gin.Engine
	gatherer    prometheus.Gatherer
	authHandler *handlers.AuthHandler
	pollHandler *handlers.PollHandler
	qHandler    *handlers.QuestionHandler
	voteHandler *handlers.VoteHandler
	distHandler *handlers.DistributionHandler
	aiHandler   *handlers.AIHandler
	wsHandler   *handlers.WSHandler
	gqlHandler  *handlers.GraphQLHandler
	health      *handlers.HealthHandler
	rateLimitMW *middleware.RateLimitMiddleware
	authMW      *middleware.AuthMiddleware
}

func NewRouter(opts Options) *Router {
	if opts.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()
	engine.SetHTMLTemplate(handlers.Templates())

	authMW := middleware.NewAuthMiddleware(opts.JWTSecret)

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(opts.AllowedOrigins))
	engine.Use(middleware.LogAPI(log))
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Handler())
	}
	engine.Use(authMW.OptionalAuth())

	svc := opts.Services
	r := &Router{
		engine:      engine,
		gatherer:    opts.Gatherer,
		authHandler: handlers.NewAuthHandler(svc.Users),
		pollHandler: handlers.NewPollHandler(svc.Polls, svc.Aggregation, svc.Notification),
		qHandler:    handlers.NewQuestionHandler(svc.Questions, svc.Options),
		voteHandler: handlers.NewVoteHandler(svc.Votes),
		distHandler: handlers.NewDistributionHandler(svc.Distribution),
		aiHandler:   handlers.NewAIHandler(svc.RAG),
		health:      handlers.NewHealthHandler(opts.Health),
		rateLimitMW: middleware.NewRateLimitMiddleware(opts.Limiter, log),
		authMW:      authMW,
	}
	if opts.Hub != nil {
		r.wsHandler = handlers.NewWSHandler(opts.Hub, opts.AllowedOrigins, svc.Polls, svc.Aggregation, log)
	}
	if opts.Schema != nil {
		r.gqlHandler = handlers.NewGraphQLHandler(opts.Schema)
	}
	return r
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", r.health.Health)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if r.gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	r.engine.GET("/polls/:slug", r.distHandler.SharePage)
	if r.gqlHandler != nil {
		r.engine.POST("/graphql", r.rateLimitMW.RateLimit(100, time.Minute), r.gqlHandler.Serve)
	}
	if r.wsHandler != nil {
		r.engine.GET("/ws/polls/:slug/results", r.wsHandler.PollResults)
	}

	api := r.engine.Group("/api/v1")

	// Public routes (no authentication required)
	authRoutes := api.Group("/auth")
	authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute))
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}

	read := api.Group("/")
	read.Use(r.rateLimitMW.RateLimit(200, time.Minute))
	{
		read.GET("/polls", r.pollHandler.List)
		read.GET("/polls/:slug", r.pollHandler.Get)
		read.GET("/polls/:slug/results", r.pollHandler.Results)
		read.GET("/questions", r.qHandler.ListQuestions)
		read.GET("/questions/:slug", r.qHandler.GetQuestion)
		read.GET("/options", r.qHandler.ListOptions)
		read.GET("/options/:slug", r.qHandler.GetOption)
	}

	dist := api.Group("/distribution/polls/:slug")
	dist.Use(r.rateLimitMW.RateLimitIP(100, time.Minute))
	{
		dist.GET("/public", r.distHandler.PublicPoll)
		dist.GET("/qr", r.distHandler.QRCode)
		dist.GET("/embed", r.distHandler.Embed)
		dist.POST("/share", r.distHandler.Share)
		dist.GET("/distribution/analytics", r.authMW.RequireAuth(), r.distHandler.Analytics)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	auth.Use(r.rateLimitMW.RateLimit(100, time.Minute))
	{
		users := auth.Group("/users")
		{
			users.GET("/me", r.authHandler.GetProfile)
			users.PUT("/me", r.authHandler.UpdateProfile)
		}

		polls := auth.Group("/polls")
		{
			polls.POST("", r.pollHandler.Create)
			polls.PUT("/:slug", r.pollHandler.Update)
			polls.PATCH("/:slug", r.pollHandler.Update)
			polls.DELETE("/:slug", r.pollHandler.Delete)
			polls.POST("/:slug/results/refresh", r.pollHandler.RefreshResults)
			polls.POST("/:slug/notify", r.pollHandler.Notify)
		}

		questions := auth.Group("/questions")
		{
			questions.POST("", r.qHandler.CreateQuestion)
			questions.PUT("/:slug", r.qHandler.UpdateQuestion)
			questions.PATCH("/:slug", r.qHandler.UpdateQuestion)
			questions.DELETE("/:slug", r.qHandler.DeleteQuestion)
		}

		options := auth.Group("/options")
		{
			options.POST("", r.qHandler.CreateOption)
			options.PUT("/:slug", r.qHandler.UpdateOption)
			options.PATCH("/:slug", r.qHandler.UpdateOption)
			options.DELETE("/:slug", r.qHandler.DeleteOption)
		}

		votes := auth.Group("/votes")
		{
			votes.GET("", r.voteHandler.List)
			votes.POST("", r.voteHandler.Cast)
			votes.GET("/:slug", r.voteHandler.Get)
			votes.DELETE("/:slug", r.voteHandler.Delete)
		}
	}

	ai := api.Group("/ai")
	ai.Use(r.authMW.RequireAuth())
	ai.Use(r.rateLimitMW.RateLimit(20, time.Minute))
	{
		ai.POST("/generate-poll", r.aiHandler.GeneratePoll)
		ai.POST("/insights/generate", r.aiHandler.GenerateInsight)
		ai.POST("/ingest", r.aiHandler.Ingest)
		ai.GET("/insights/history/:slug", r.aiHandler.History)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.Message(http.StatusNotFound), "")
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
