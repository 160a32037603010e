package models

import "time"

// SocketEnvelope frames every message exchanged over a websocket.
type SocketEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Activity is an entry in the live activity feed, broadcast to all
// connected clients and published to the event bus.
type Activity struct {
	Type      string    `json:"type"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingSignal identifies the peer on a typing start/stop relay.
type TypingSignal struct {
	From int `json:"from"`
}
