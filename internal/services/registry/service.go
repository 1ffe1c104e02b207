package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/storage"
)

// Service is the player registry: identity lookup and the non-owning
// player-to-match back-reference. Connection handles are not held here; the
// websocket hub attaches and detaches them as transports come and go.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new registry service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// Register creates a player with a fresh id. Names are not unique and may be
// empty; registration always succeeds.
func (s *Service) Register(ctx context.Context, name string) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: name,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", name),
	)

	return player, nil
}

// Lookup retrieves a player by id, returning model.ErrPlayerNotFound for
// unknown ids
func (s *Service) Lookup(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// Remove deletes a player. Removing an unknown id is a no-op.
func (s *Service) Remove(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("player removed", slog.String("player_id", string(id)))
	return nil
}

// SetCurrentMatch records the match a player belongs to
func (s *Service) SetCurrentMatch(ctx context.Context, playerID model.PlayerID, matchID model.MatchID) error {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	player.CurrentMatch = &matchID
	return s.storage.SavePlayer(ctx, player)
}

// ClearCurrentMatch drops a player's back-reference, but only while it still
// points at the given match. Clearing for an unknown player is a no-op: the
// player may already have disconnected by the time a match is torn down.
func (s *Service) ClearCurrentMatch(ctx context.Context, playerID model.PlayerID, matchID model.MatchID) error {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}
	if player.CurrentMatch == nil || *player.CurrentMatch != matchID {
		return nil
	}
	player.CurrentMatch = nil
	return s.storage.SavePlayer(ctx, player)
}
