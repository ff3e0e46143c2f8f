package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestRunnerSucceedsAfterTransientFailures(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Register(AggregateVotes, func(ctx context.Context, _ json.RawMessage) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("database is locked")
		}
		return "ok", nil
	})
	r := NewRunner(reg, 3, 10*time.Second)
	var delays []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	task, err := NewTask(AggregateVotes, map[string]uint{"poll_id": 1})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "ok", report)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, delays)
}

func TestRunnerGivesUpAfterMaxRetries(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Register(AggregateVotes, func(context.Context, json.RawMessage) (string, error) {
		calls++
		return "", errors.New("boom")
	})
	r := NewRunner(reg, 3, time.Second)
	r.sleep = noSleep

	task, _ := NewTask(AggregateVotes, nil)
	_, err := r.Run(context.Background(), task)
	require.Error(t, err)
	assert.Equal(t, 4, calls, "one attempt plus three retries")
}

func TestRunnerDoesNotRetryPermanentErrors(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Register(AggregateVotes, func(context.Context, json.RawMessage) (string, error) {
		calls++
		return "", Permanent(errors.New("Poll 9 not found."))
	})
	r := NewRunner(reg, 3, time.Second)
	r.sleep = noSleep

	task, _ := NewTask(AggregateVotes, nil)
	report, err := r.Run(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "Poll 9 not found.", report)
	assert.Equal(t, 1, calls)
}

func TestRunnerUnknownTask(t *testing.T) {
	r := NewRunner(NewRegistry(), 3, time.Second)
	task, _ := NewTask("nope", nil)
	_, err := r.Run(context.Background(), task)
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestInlineQueueAsync(t *testing.T) {
	reg := NewRegistry()
	var mu sync.Mutex
	var got []string
	reg.Register(LogDistributionEvent, func(_ context.Context, raw json.RawMessage) (string, error) {
		var p struct{ Event string }
		require.NoError(t, json.Unmarshal(raw, &p))
		mu.Lock()
		got = append(got, p.Event)
		mu.Unlock()
		return "logged", nil
	})
	q := NewInlineQueue(NewRunner(reg, 0, 0), true)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Enqueue(ctx, LogDistributionEvent, map[string]string{"Event": "QR_SCAN"}))
	cancel()
	q.Wait()

	assert.Equal(t, []string{"QR_SCAN"}, got)
}

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.msgs) > 0 {
		m := f.msgs[0]
		f.msgs = f.msgs[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func (f *fakeReader) committedOffsets() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

func TestWorkerRunsAndCommits(t *testing.T) {
	reg := NewRegistry()
	done := make(chan string, 2)
	reg.Register(SendPollNotification, func(_ context.Context, raw json.RawMessage) (string, error) {
		done <- string(raw)
		return "sent", nil
	})

	task, err := NewTask(SendPollNotification, map[string]any{"poll_id": 3, "type": "closed"})
	require.NoError(t, err)
	value, _ := json.Marshal(task)

	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: []byte("not json")},
		{Offset: 2, Value: value},
	}}
	w := NewWorker(reader, NewRunner(reg, 0, 0))
	require.NoError(t, w.Open(context.Background()))

	select {
	case payload := <-done:
		assert.JSONEq(t, `{"poll_id":3,"type":"closed"}`, payload)
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed")
	}

	assert.Eventually(t, func() bool { return len(reader.committedOffsets()) == 2 }, time.Second, 10*time.Millisecond)
	require.NoError(t, w.Close())
	assert.True(t, reader.closed)
	assert.Equal(t, []int64{1, 2}, reader.committedOffsets())
}
