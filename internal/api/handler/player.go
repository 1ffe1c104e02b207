package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gridmatch/gridmatch/internal/api/apierr"
	"github.com/gridmatch/gridmatch/internal/api/request"
	"github.com/gridmatch/gridmatch/internal/api/response"
	"github.com/gridmatch/gridmatch/internal/services/registry"
)

// PlayerHandler handles player registration
type PlayerHandler struct {
	registry *registry.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Service) *PlayerHandler {
	return &PlayerHandler{
		registry: reg,
	}
}

// Create handles POST /api/v1/players. Registration is anonymous and always
// succeeds; the name may be empty.
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.registry.Register(r.Context(), req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}
