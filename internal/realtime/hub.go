// Package realtime pushes server events to connected dashboards over
// websockets. A single Hub goroutine owns the set of connections; handlers
// publish through it and never touch a connection directly.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
)

// Message types pushed to clients.
const (
	TypeBroadcast           = "broadcast"
	TypeConversationUpdated = "conversation_updated"
)

// ErrStopped is returned by Publish after the hub has stopped.
var ErrStopped = errors.New("realtime: hub stopped")

// Message is the frame written to every socket.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage encodes payload into a frame of the given type.
func NewMessage(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: typ, Payload: raw})
}

// Target selects which connections receive a message.
type Target func(*Client) bool

func ToAll() Target { return func(*Client) bool { return true } }

func ToRole(role string) Target {
	return func(c *Client) bool { return c.Role == role }
}

func ToUser(userID string) Target {
	return func(c *Client) bool { return c.UserID == userID }
}

type outgoing struct {
	data      []byte
	to        Target
	delivered chan int
}

// Hub tracks connected clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outgoing
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outgoing),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		h.count.Store(0)
		close(h.done)
	}()
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug("websocket connected", "userId", c.UserID, "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.count.Store(int64(len(h.clients)))
				h.logger.Debug("websocket disconnected", "userId", c.UserID, "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			n := 0
			for c := range h.clients {
				if !msg.to(c) {
					continue
				}
				select {
				case c.send <- msg.data:
					n++
				default:
					// slow consumer; drop it rather than stall the hub
					close(c.send)
					delete(h.clients, c)
					h.count.Store(int64(len(h.clients)))
				}
			}
			msg.delivered <- n
		case <-ctx.Done():
			return
		}
	}
}

// Count is the number of connected clients.
func (h *Hub) Count() int { return int(h.count.Load()) }

// Publish sends a typed message to every client matching to and returns how
// many received it.
func (h *Hub) Publish(ctx context.Context, to Target, typ string, payload any) (int, error) {
	data, err := NewMessage(typ, payload)
	if err != nil {
		return 0, err
	}
	msg := outgoing{data: data, to: to, delivered: make(chan int, 1)}
	select {
	case h.broadcast <- msg:
	case <-h.done:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-msg.delivered, nil
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
