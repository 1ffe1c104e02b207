package storage

import (
	"context"

	"github.com/gridmatch/gridmatch/internal/model"
)

// Storage defines the persistence boundary for players and matches
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// DeletePlayer is idempotent; deleting an unknown id is a no-op
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	// DeleteMatch is idempotent; deleting an unknown id is a no-op
	DeleteMatch(ctx context.Context, id model.MatchID) error
}
