package services

import (
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/tasks"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/vectorstores"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles every service is built from. AI
// models, the vector store and the notifier are optional.
type Deps struct {
	DB            *gorm.DB
	Cache         cache.Cache
	Queue         tasks.Queue
	BaseURL       string
	JWTSecret     string
	JWTExpiration time.Duration
	Primary       llms.Model
	Fallback      llms.Model
	Store         vectorstores.VectorStore
	Notifier      Notifier
	Logger        *zap.Logger
}

// Container holds the wired service graph shared by the API, the worker
// and the seed command.
type Container struct {
	Users        *UserService
	Polls        *PollService
	Questions    *QuestionService
	Options      *OptionService
	Votes        *VoteService
	Aggregation  *AggregationService
	Notification *NotificationService
	Distribution *DistributionService
	Analytics    *AnalyticsService
	RAG          *RAGService
}

func NewContainer(d Deps) *Container {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := d.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}

	pollRepo := postgres.NewPollRepository(d.DB)
	questionRepo := postgres.NewQuestionRepository(d.DB)
	optionRepo := postgres.NewOptionRepository(d.DB)
	voteRepo := postgres.NewVoteRepository(d.DB)
	viewRepo := postgres.NewViewRepository(d.DB)

	c := &Container{}
	c.Users = NewUserService(postgres.NewUserRepository(d.DB), d.JWTSecret, d.JWTExpiration, log)
	c.Polls = NewPollService(pollRepo, questionRepo, optionRepo, viewRepo, log)
	c.Questions = NewQuestionService(c.Polls, questionRepo)
	c.Options = NewOptionService(c.Polls, c.Questions, optionRepo)
	c.Votes = NewVoteService(voteRepo, c.Questions, c.Options, log)
	c.Aggregation = NewAggregationService(c.Polls, voteRepo, d.Cache, d.Queue, log)
	c.Notification = NewNotificationService(c.Polls, notifier, d.Queue, log)
	c.Distribution = NewDistributionService(c.Polls, postgres.NewDistributionRepository(d.DB), d.Cache, d.Queue, d.BaseURL, log)
	c.Analytics = NewAnalyticsService(pollRepo, voteRepo, viewRepo, d.Cache, log)
	c.RAG = NewRAGService(c.Polls, voteRepo, postgres.NewAnalysisRepository(d.DB), d.Primary, d.Fallback, d.Store, log)
	return c
}

// RegisterTasks binds the container's task handlers to reg.
func (c *Container) RegisterTasks(reg *tasks.Registry) {
	RegisterTasks(reg, c.Aggregation, c.Notification, c.Distribution)
}
