package manager

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/match"
	"github.com/gridmatch/gridmatch/internal/services/matchmaking"
	"github.com/gridmatch/gridmatch/internal/services/registry"
)

// ReasonOpponentDisconnected is the reason sent to the remaining participant
// when the other side drops mid-match
const ReasonOpponentDisconnected = "Opponent disconnected"

// Notifier is the outbound side of the manager: state broadcasts, termination
// notices, and cleanup timer control. Implemented by the websocket
// broadcaster; tests substitute a recording fake.
type Notifier interface {
	PublishState(ctx context.Context, matchID model.MatchID)
	NotifyEnded(playerID model.PlayerID, reason string)
	CancelCleanup(matchID model.MatchID)
}

// Manager orchestrates the client-facing events: joining the queue, moving,
// and disconnecting
type Manager struct {
	registry *registry.Service
	queue    *matchmaking.Queue
	matches  *match.Controller
	notifier Notifier
	logger   *slog.Logger
}

// New creates a new game manager
func New(
	reg *registry.Service,
	queue *matchmaking.Queue,
	matches *match.Controller,
	notifier Notifier,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		registry: reg,
		queue:    queue,
		matches:  matches,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "manager")),
	}
}

// OnJoinQueue validates the player, enqueues them, and starts a match as soon
// as two players are waiting. Returns model.ErrPlayerNotFound for unknown
// ids; that is the only failure surfaced to the request boundary.
func (m *Manager) OnJoinQueue(ctx context.Context, playerID model.PlayerID) error {
	if _, err := m.registry.Lookup(ctx, playerID); err != nil {
		return err
	}

	m.queue.Enqueue(playerID)

	first, second, ok := m.queue.TryPair()
	if !ok {
		return nil
	}

	mt, err := m.matches.Create(ctx, first, second)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			// one side disconnected between pairing and creation; put
			// whoever is still registered back in the queue
			m.requeueIfRegistered(ctx, first)
			m.requeueIfRegistered(ctx, second)
			return nil
		}
		return err
	}

	m.notifier.PublishState(ctx, mt.ID)
	return nil
}

func (m *Manager) requeueIfRegistered(ctx context.Context, playerID model.PlayerID) {
	if _, err := m.registry.Lookup(ctx, playerID); err == nil {
		m.queue.Enqueue(playerID)
	}
}

// OnMove applies a move event. A move referencing an unknown match is
// ignored, and a rejected move is dropped without a reply: the client infers
// rejection from the absence of a follow-up state broadcast. Only internal
// failures (storage errors) propagate.
func (m *Manager) OnMove(ctx context.Context, playerID model.PlayerID, matchID model.MatchID, row, col int) error {
	_, err := m.matches.ApplyMove(ctx, matchID, playerID, row, col)
	switch {
	case err == nil:
		m.notifier.PublishState(ctx, matchID)
		return nil
	case errors.Is(err, model.ErrMatchNotFound):
		return nil
	case errors.Is(err, model.ErrMatchOver),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrInvalidPosition),
		errors.Is(err, model.ErrCellOccupied):
		m.logger.Debug("move rejected",
			slog.String("match_id", string(matchID)),
			slog.String("player_id", string(playerID)),
			slog.String("reason", err.Error()),
		)
		return nil
	default:
		return err
	}
}

// OnDisconnect tears down the disconnecting player's presence: the queue slot
// if still waiting, the match if one is in progress (the opponent is told
// why), and finally the registry entry. Registry removal happens last no
// matter which earlier branches ran.
func (m *Manager) OnDisconnect(ctx context.Context, playerID model.PlayerID) error {
	m.queue.RemoveIfWaiting(playerID)

	if player, err := m.registry.Lookup(ctx, playerID); err == nil && player.CurrentMatch != nil {
		m.endAbandonedMatch(ctx, playerID, *player.CurrentMatch)
	}

	return m.registry.Remove(ctx, playerID)
}

// endAbandonedMatch terminates the match a disconnecting player leaves
// behind, but only while it is still in progress; a finished match is left
// to its grace-period cleanup so the opponent keeps the final state. The
// status check and removal are atomic, so a winning move landing at the
// same instant as the disconnect never produces a stray termination notice.
func (m *Manager) endAbandonedMatch(ctx context.Context, playerID model.PlayerID, matchID model.MatchID) {
	mt, terminated, err := m.matches.TerminateIfInProgress(ctx, matchID)
	if err != nil {
		m.logger.Error("failed to terminate abandoned match",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
		return
	}
	if !terminated {
		return
	}

	m.notifier.CancelCleanup(matchID)
	m.notifier.NotifyEnded(mt.Opponent(playerID), ReasonOpponentDisconnected)

	m.logger.Info("match abandoned",
		slog.String("match_id", string(matchID)),
		slog.String("player_id", string(playerID)),
	)
}
