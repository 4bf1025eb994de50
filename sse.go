package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// Run event types sent to subscribers of a board.
const (
	eventRunState    = "run_state"
	eventRunStarted  = "run_started"
	eventRunFinished = "run_finished"
	eventRunFailed   = "run_failed"
)

// RunEvent is one message on a board's event stream.
type RunEvent struct {
	Type       string `json:"type"`
	BoardID    string `json:"board_id"`
	Running    bool   `json:"running"`
	Words      int    `json:"words,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// client represents a single SSE connection.
type client struct {
	ch      chan string
	boardID string
}

// Broadcaster manages SSE clients grouped by board.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
	}
}

// Register adds a client for a board and returns it.
func (b *Broadcaster) Register(boardID string) *client {
	c := &client{
		ch:      make(chan string, sseChannelBuffer),
		boardID: boardID,
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends a message to all clients of a board.
func (b *Broadcaster) Broadcast(boardID, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.boardID == boardID {
			select {
			case c.ch <- data:
			default:
				// Channel full, skip slow client.
			}
		}
	}
}

// Publish encodes evt and broadcasts it to the subscribers of its board.
func (b *Broadcaster) Publish(evt RunEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	b.Broadcast(evt.BoardID, string(data))
}

// ClientCount returns the number of connected clients for a board.
func (b *Broadcaster) ClientCount(boardID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.boardID == boardID {
			n++
		}
	}
	return n
}

// ServeSSE handles an SSE connection for a board.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, boardID string, onConnect func(c *client)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(boardID)
	defer b.Unregister(c)

	if onConnect != nil {
		onConnect(c)
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
