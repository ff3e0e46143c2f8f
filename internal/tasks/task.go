// Package tasks runs named background jobs with bounded retries. Tasks are
// delivered either in-process or through a Kafka topic.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	AggregateVotes       = "aggregate_votes"
	SendPollNotification = "send_poll_notification"
	LogDistributionEvent = "log_distribution_event"
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 10 * time.Second
)

var ErrUnknownTask = errors.New("unknown task")

// Task is the envelope written to a queue.
type Task struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

func NewTask(name string, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return Task{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Handler executes one task and returns a short human-readable report.
type Handler func(ctx context.Context, payload json.RawMessage) (string, error)

// Queue accepts tasks for asynchronous execution.
type Queue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Registry maps task names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}
