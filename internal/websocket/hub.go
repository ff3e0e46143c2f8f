// Package websocket streams live poll results to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type broadcast struct {
	pollID uint
	data   []byte
}

// Hub fans results out to the clients watching each poll. All room state is
// owned by the Run goroutine.
type Hub struct {
	rooms map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	count      chan chan int
	done       chan struct{}

	Logger *zap.Logger
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, 64),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		Logger:     zap.NewNop(),
	}
}

// WithLogger sets the logger for the hub.
func (h *Hub) WithLogger(log *zap.Logger) {
	h.Logger = log.With(zap.String("service", "websocket"))
}

// Run processes hub events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			room := h.rooms[c.pollID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[c.pollID] = room
			}
			room[c] = true
			h.Logger.Debug("client registered", zap.String("client_id", c.id), zap.Uint("poll_id", c.pollID))

		case c := <-h.unregister:
			h.remove(c)

		case b := <-h.broadcast:
			for c := range h.rooms[b.pollID] {
				select {
				case c.send <- b.data:
				default:
					// slow consumer
					h.remove(c)
				}
			}

		case reply := <-h.count:
			n := 0
			for _, room := range h.rooms {
				n += len(room)
			}
			reply <- n

		case <-ctx.Done():
			for _, room := range h.rooms {
				for c := range room {
					h.remove(c)
				}
			}
			h.Logger.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	room, ok := h.rooms[c.pollID]
	if !ok || !room[c] {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.pollID)
	}
	close(c.send)
	h.Logger.Debug("client unregistered", zap.String("client_id", c.id), zap.Uint("poll_id", c.pollID))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
}

// PublishPollResults delivers results to the poll's local watchers.
func (h *Hub) PublishPollResults(ctx context.Context, pollID uint, results any) error {
	data, err := NewResultsMessage(pollID, results)
	if err != nil {
		return err
	}
	return h.send(ctx, pollID, data)
}

func (h *Hub) send(ctx context.Context, pollID uint, data []byte) error {
	select {
	case h.broadcast <- broadcast{pollID: pollID, data: data}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PollIDFromChannel extracts the id from a "poll:{id}:results" channel name.
func PollIDFromChannel(channel string) (uint, error) {
	parts := strings.Split(channel, ":")
	if len(parts) != 3 || parts[0] != "poll" || parts[2] != "results" {
		return 0, fmt.Errorf("unexpected channel %q", channel)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected channel %q: %w", channel, err)
	}
	return uint(id), nil
}

// Relay forwards results published on Redis by any process to local
// watchers.
func (h *Hub) Relay(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()
	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			pollID, err := PollIDFromChannel(msg.Channel)
			if err != nil {
				h.Logger.Warn("ignoring pubsub message", zap.Error(err))
				continue
			}
			data, err := NewResultsMessage(pollID, json.RawMessage(msg.Payload))
			if err != nil {
				h.Logger.Warn("ignoring malformed results", zap.Uint("poll_id", pollID), zap.Error(err))
				continue
			}
			if err := h.send(ctx, pollID, data); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
