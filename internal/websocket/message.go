package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	MessagePollResults MessageType = "poll_results"
	MessageError       MessageType = "error"
)

// Message is the envelope written to websocket clients.
type Message struct {
	Type      MessageType     `json:"type"`
	PollID    uint            `json:"poll_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

func NewResultsMessage(pollID uint, results any) ([]byte, error) {
	data, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:      MessagePollResults,
		PollID:    pollID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}
