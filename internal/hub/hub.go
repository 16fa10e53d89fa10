// Package hub streams gamepad state to inspector clients over WebSocket.
// Each client follows one gamepad and receives a full state when it selects
// it, deltas while it changes and periodic full syncs.
package hub

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Hub manages WebSocket clients.
type Hub struct {
	clients map[*Client]bool
	done    chan struct{}
	mu      sync.RWMutex
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		done:    make(chan struct{}),
		log:     log,
	}
}

// Register adds a client. It reports false once Run has returned.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		return false
	default:
	}
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("total", n).Msg("client connected")
	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("total", n).Msg("client disconnected")
}

// BroadcastToGamepad sends msg to every client following gamepad id.
func (h *Hub) BroadcastToGamepad(msg []byte, id uint8) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.Gamepad() != id {
			continue
		}
		select {
		case client.send <- msg:
		default:
			// send buffer full, drop the client
			go h.Unregister(client)
		}
	}
}

// SendTo queues msg for one client if it is still registered.
func (h *Hub) SendTo(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run waits for ctx, then disconnects every client and refuses new ones.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.mu.Lock()
	close(h.done)
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}
