package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	gorilla "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub, ctx
}

func dial(t *testing.T, hub *Hub, pollID uint, initial []byte) *gorilla.Conn {
	t.Helper()
	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, upgrader, w, r, pollID, initial)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, ctx context.Context, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients(ctx) == n }, time.Second, 10*time.Millisecond)
}

func readMessage(t *testing.T, conn *gorilla.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastsToPollRoom(t *testing.T) {
	hub, ctx := startHub(t)
	initial, err := NewResultsMessage(1, map[string]int{"total_votes": 0})
	require.NoError(t, err)

	watcher := dial(t, hub, 1, initial)
	other := dial(t, hub, 2, nil)
	waitClients(t, hub, ctx, 2)

	first := readMessage(t, watcher)
	assert.Equal(t, MessagePollResults, first.Type)
	assert.JSONEq(t, `{"total_votes":0}`, string(first.Data))

	require.NoError(t, hub.PublishPollResults(ctx, 1, map[string]int{"total_votes": 3}))
	msg := readMessage(t, watcher)
	assert.Equal(t, uint(1), msg.PollID)
	assert.JSONEq(t, `{"total_votes":3}`, string(msg.Data))

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, ctx := startHub(t)
	conn := dial(t, hub, 5, nil)
	waitClients(t, hub, ctx, 1)

	conn.Close()
	waitClients(t, hub, ctx, 0)
}

func TestPollIDFromChannel(t *testing.T) {
	id, err := PollIDFromChannel("poll:42:results")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = PollIDFromChannel("poll:x:results")
	assert.Error(t, err)
	_, err = PollIDFromChannel("chat:1:messages")
	assert.Error(t, err)
}

func TestRelayFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub, ctx := startHub(t)
	pubsub := rdb.PSubscribe(ctx, "poll:*:results")
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)
	go hub.Relay(ctx, pubsub)

	conn := dial(t, hub, 7, nil)
	waitClients(t, hub, ctx, 1)

	require.NoError(t, rdb.Publish(ctx, "poll:7:results", `{"poll_slug":"abc"}`).Err())
	msg := readMessage(t, conn)
	assert.Equal(t, uint(7), msg.PollID)
	assert.JSONEq(t, `{"poll_slug":"abc"}`, string(msg.Data))
}
