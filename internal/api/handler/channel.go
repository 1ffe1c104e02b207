package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/match"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/ws"
)

// ChannelHandler upgrades websocket connections and runs their pumps
type ChannelHandler struct {
	registry *registry.Service
	matches  *match.Controller
	hub      *ws.Hub
	events   ws.EventHandler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewChannelHandler creates a new websocket channel handler
func NewChannelHandler(
	reg *registry.Service,
	matches *match.Controller,
	hub *ws.Hub,
	events ws.EventHandler,
	logger *slog.Logger,
) *ChannelHandler {
	return &ChannelHandler{
		registry: reg,
		matches:  matches,
		hub:      hub,
		events:   events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// clients connect from arbitrary origins; the player id is the
			// only credential
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "channel")),
	}
}

// Serve handles GET /ws/{player_id}. The upgrade happens before the player
// lookup so an unknown id can be answered with a websocket close frame
// rather than an HTTP error.
func (h *ChannelHandler) Serve(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	player, err := h.registry.Lookup(r.Context(), playerID)
	if err != nil {
		h.logger.Info("rejecting channel for unknown player",
			slog.String("player_id", string(playerID)))
		closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Player not found")
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		conn.WriteMessage(websocket.CloseMessage, closeMsg)
		conn.Close()
		return
	}

	client := ws.NewClient(conn, h.hub, h.events, playerID, h.logger)
	h.hub.Attach(playerID, client)
	go client.WritePump()

	client.Enqueue(ws.NewConnectedMessage(playerID))

	// a player connecting while already paired gets the live state right away
	if player.CurrentMatch != nil {
		if m, err := h.matches.Get(r.Context(), *player.CurrentMatch); err == nil {
			client.Enqueue(ws.NewGameStateMessage(m, playerID))
		}
	}

	// the connection outlives the request context; event handling must not
	// be cut short by its cancellation
	client.ReadPump(context.Background())
}
