package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaQueue publishes tasks to a Kafka topic keyed by task name.
type KafkaQueue struct {
	writer *kafka.Writer
}

func NewKafkaQueue(brokers []string, topic string) *KafkaQueue {
	return &KafkaQueue{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, name string, payload any) error {
	task, err := NewTask(name, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := q.writer.WriteMessages(ctx, kafka.Message{Key: []byte(name), Value: value}); err != nil {
		return fmt.Errorf("publish task %s: %w", name, err)
	}
	return nil
}

func (q *KafkaQueue) Close() error {
	return q.writer.Close()
}

// MessageReader is the subset of *kafka.Reader used by Worker.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
}

// Worker consumes tasks from Kafka. Messages are committed after the
// runner finishes, so delivery is at-least-once.
type Worker struct {
	reader MessageReader
	runner *Runner

	Logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(reader MessageReader, runner *Runner) *Worker {
	return &Worker{reader: reader, runner: runner, Logger: zap.NewNop()}
}

// WithLogger sets the logger for the worker.
func (w *Worker) WithLogger(log *zap.Logger) {
	w.Logger = log.With(zap.String("service", "task-worker"))
}

// Open starts consuming in the background.
func (w *Worker) Open(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}
	w.Logger.Info("Starting task worker")

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.consume(ctx)
	return nil
}

// Close stops the worker and closes the reader.
func (w *Worker) Close() error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	w.wg.Wait()
	w.cancel = nil
	return w.reader.Close()
}

func (w *Worker) consume(ctx context.Context) {
	defer w.wg.Done()

	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.Logger.Info("Terminating task worker")
				return
			}
			w.Logger.Error("Failed to fetch task", zap.Error(err))
			if sleepContext(ctx, time.Second) != nil {
				return
			}
			continue
		}

		w.handle(ctx, msg)

		if err := w.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			w.Logger.Error("Failed to commit task", zap.Error(err), zap.Int64("offset", msg.Offset))
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) {
	var task Task
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		w.Logger.Error("Dropping malformed task", zap.Error(err), zap.Int64("offset", msg.Offset))
		return
	}
	report, err := w.runner.Run(ctx, task)
	if err != nil {
		w.Logger.Error("Task failed", zap.String("task", task.Name), zap.Error(err))
		return
	}
	w.Logger.Info("Task done", zap.String("task", task.Name), zap.String("report", report))
}
