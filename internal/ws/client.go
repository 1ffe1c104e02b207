package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gridmatch/gridmatch/internal/model"
)

const (
	// writeWait bounds a single write to the peer
	writeWait = 10 * time.Second

	// pongWait is how long the connection survives without a pong
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer bounds the outbound queue; a client that falls this far
	// behind starts losing broadcasts
	sendBuffer = 16
)

// EventHandler receives the events a connection produces. Implemented by the
// game manager.
type EventHandler interface {
	OnMove(ctx context.Context, playerID model.PlayerID, matchID model.MatchID, row, col int) error
	OnDisconnect(ctx context.Context, playerID model.PlayerID) error
}

// Client owns one websocket connection for one player: a read pump feeding
// the event handler and a write pump draining the outbound queue
type Client struct {
	conn     *websocket.Conn
	hub      *Hub
	handler  EventHandler
	playerID model.PlayerID
	logger   *slog.Logger

	send chan any
	done chan struct{}
	once sync.Once
}

// NewClient wraps an upgraded connection. The caller attaches it to the hub
// and starts the pumps.
func NewClient(
	conn *websocket.Conn,
	hub *Hub,
	handler EventHandler,
	playerID model.PlayerID,
	logger *slog.Logger,
) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		handler:  handler,
		playerID: playerID,
		logger: logger.With(
			slog.String("component", "ws_client"),
			slog.String("player_id", string(playerID)),
		),
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
	}
}

// Enqueue queues a message for the write pump. Returns false when the queue
// is full or the client is shutting down.
func (c *Client) Enqueue(msg any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Shutdown stops both pumps and closes the connection. Safe to call more
// than once.
func (c *Client) Shutdown() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// ReadPump consumes client messages until the connection drops, then tears
// the player down. Disconnect handling only runs when this connection is
// still the player's current one; a connection displaced by a newer attach
// must not discard the player it no longer represents.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		current := c.hub.Detach(c.playerID, c)
		c.Shutdown()
		if current {
			if err := c.handler.OnDisconnect(ctx, c.playerID); err != nil {
				c.logger.Error("disconnect handling failed",
					slog.String("error", err.Error()))
			}
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		switch msg.Type {
		case TypeMove:
			if err := c.handler.OnMove(ctx, c.playerID, msg.SessionID, msg.Row, msg.Col); err != nil {
				c.logger.Error("move handling failed",
					slog.String("match_id", string(msg.SessionID)),
					slog.String("error", err.Error()))
			}
		default:
			c.logger.Debug("ignoring unknown message type",
				slog.String("type", msg.Type))
		}
	}
}

// WritePump drains the outbound queue to the peer and keeps the connection
// alive with pings. Runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Shutdown()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
