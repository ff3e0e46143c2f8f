package tasks

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// InlineQueue runs tasks in the enqueuing process. In async mode each task
// gets its own goroutine detached from the request context.
type InlineQueue struct {
	runner *Runner
	async  bool
	wg     sync.WaitGroup
}

func NewInlineQueue(runner *Runner, async bool) *InlineQueue {
	return &InlineQueue{runner: runner, async: async}
}

func (q *InlineQueue) Enqueue(ctx context.Context, name string, payload any) error {
	task, err := NewTask(name, payload)
	if err != nil {
		return err
	}

	if !q.async {
		_, err := q.runner.Run(ctx, task)
		return err
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if _, err := q.runner.Run(context.WithoutCancel(ctx), task); err != nil {
			q.runner.Logger.Error("inline task failed", zap.String("task", name), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every async task has finished.
func (q *InlineQueue) Wait() {
	q.wg.Wait()
}
