package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Runner executes tasks from a Registry, retrying failures with a fixed delay.
type Runner struct {
	registry   *Registry
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error

	Logger *zap.Logger

	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func NewRunner(registry *Registry, maxRetries int, retryDelay time.Duration) *Runner {
	return &Runner{
		registry:   registry,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepContext,
		Logger:     zap.NewNop(),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poll",
			Subsystem: "tasks",
			Name:      "processed_total",
			Help:      "Number of task executions by outcome",
		}, []string{"task", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "poll",
			Subsystem: "tasks",
			Name:      "duration_seconds",
			Help:      "Duration of a single task attempt",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"}),
	}
}

// WithLogger sets the logger for the runner.
func (r *Runner) WithLogger(log *zap.Logger) {
	r.Logger = log.With(zap.String("service", "tasks"))
}

func (r *Runner) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{r.processed, r.duration}
}

// Run executes task, retrying up to maxRetries times unless the handler
// returns a Permanent error.
func (r *Runner) Run(ctx context.Context, task Task) (string, error) {
	h, ok := r.registry.Lookup(task.Name)
	if !ok {
		r.processed.WithLabelValues(task.Name, "unknown").Inc()
		return "", fmt.Errorf("%w: %s", ErrUnknownTask, task.Name)
	}

	log := r.Logger.With(zap.String("task", task.Name), zap.String("task_id", task.ID))

	for attempt := 0; ; attempt++ {
		start := time.Now()
		report, err := h(ctx, task.Payload)
		r.duration.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())

		if err == nil {
			r.processed.WithLabelValues(task.Name, "success").Inc()
			log.Debug("task finished", zap.String("report", report), zap.Int("attempt", attempt+1))
			return report, nil
		}

		if IsPermanent(err) {
			r.processed.WithLabelValues(task.Name, "rejected").Inc()
			log.Info("task rejected", zap.Error(err))
			return err.Error(), nil
		}

		if attempt >= r.maxRetries {
			r.processed.WithLabelValues(task.Name, "failed").Inc()
			log.Error("task failed", zap.Error(err), zap.Int("attempts", attempt+1))
			return "", fmt.Errorf("task %s failed after %d attempts: %w", task.Name, attempt+1, err)
		}

		r.processed.WithLabelValues(task.Name, "retry").Inc()
		log.Warn("task attempt failed, retrying", zap.Error(err), zap.Int("attempt", attempt+1), zap.Duration("delay", r.retryDelay))
		if err := r.sleep(ctx, r.retryDelay); err != nil {
			return "", err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
