package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gridmatch/gridmatch/internal/api/apierr"
	"github.com/gridmatch/gridmatch/internal/api/request"
	"github.com/gridmatch/gridmatch/internal/api/response"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/manager"
)

// QueueHandler handles matchmaking queue entry
type QueueHandler struct {
	manager *manager.Manager
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(mgr *manager.Manager) *QueueHandler {
	return &QueueHandler{
		manager: mgr,
	}
}

// Join handles POST /api/v1/queue/join. The response is always "waiting";
// when a second player is available the pairing is pushed over the websocket
// channel, possibly before this response is read.
func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.manager.OnJoinQueue(r.Context(), model.PlayerID(req.PlayerID)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QueueStatus{Status: "waiting"})
}
