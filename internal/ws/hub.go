package ws

import (
	"log/slog"
	"sync"

	"github.com/gridmatch/gridmatch/internal/model"
)

// sender is the subset of the client used by the hub: enqueue a message,
// tear the connection down
type sender interface {
	Enqueue(msg any) bool
	Shutdown()
}

// Hub tracks the single live connection per player. A second connection for
// the same player replaces the first; sends to players with no connection
// are silently dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.PlayerID]sender
	logger  *slog.Logger
}

// NewHub creates an empty connection hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.PlayerID]sender),
		logger:  logger.With(slog.String("component", "ws_hub")),
	}
}

// Attach registers the player's connection, displacing any previous one
func (h *Hub) Attach(playerID model.PlayerID, client sender) {
	h.mu.Lock()
	previous := h.clients[playerID]
	h.clients[playerID] = client
	h.mu.Unlock()

	if previous != nil && previous != client {
		h.logger.Info("replacing existing connection",
			slog.String("player_id", string(playerID)))
		previous.Shutdown()
	}
}

// Detach removes the player's connection, but only if it is still the one
// given: a replaced connection detaching late must not evict its successor
func (h *Hub) Detach(playerID model.PlayerID, client sender) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[playerID] != client {
		return false
	}
	delete(h.clients, playerID)
	return true
}

// Send enqueues a message for the player's connection. A player without a
// connection, or one whose outbound queue is full, loses the message.
func (h *Hub) Send(playerID model.PlayerID, msg any) {
	h.mu.RLock()
	client := h.clients[playerID]
	h.mu.RUnlock()

	if client == nil {
		return
	}
	if !client.Enqueue(msg) {
		h.logger.Warn("dropping message for slow client",
			slog.String("player_id", string(playerID)))
	}
}

// Connected reports whether the player currently has a live connection
func (h *Hub) Connected(playerID model.PlayerID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[playerID]
	return ok
}
