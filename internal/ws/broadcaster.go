package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/match"
)

// DefaultGracePeriod is how long a finished match lingers so clients can
// render the final board before the session is discarded
const DefaultGracePeriod = 5 * time.Second

// Broadcaster pushes match state to connected participants and owns the
// grace-period cleanup timers for finished matches
type Broadcaster struct {
	hub     *Hub
	matches *match.Controller
	grace   time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	timers map[model.MatchID]*time.Timer
}

// NewBroadcaster creates a broadcaster. A non-positive grace falls back to
// DefaultGracePeriod.
func NewBroadcaster(hub *Hub, matches *match.Controller, grace time.Duration, logger *slog.Logger) *Broadcaster {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Broadcaster{
		hub:     hub,
		matches: matches,
		grace:   grace,
		logger:  logger.With(slog.String("component", "broadcaster")),
		timers:  make(map[model.MatchID]*time.Timer),
	}
}

// PublishState sends the match's current state to each connected
// participant, with the turn flag computed per recipient. A terminal state
// also arms the cleanup timer. Nothing happens for a match that no longer
// exists.
func (b *Broadcaster) PublishState(ctx context.Context, matchID model.MatchID) {
	m, err := b.matches.Get(ctx, matchID)
	if err != nil {
		b.logger.Debug("skipping publish for missing match",
			slog.String("match_id", string(matchID)))
		return
	}

	b.hub.Send(m.PlayerA, NewGameStateMessage(m, m.PlayerA))
	b.hub.Send(m.PlayerB, NewGameStateMessage(m, m.PlayerB))

	if m.Status != model.MatchInProgress {
		b.scheduleCleanup(matchID)
	}
}

// NotifyEnded sends a game_ended notice to the player, if connected
func (b *Broadcaster) NotifyEnded(playerID model.PlayerID, reason string) {
	b.hub.Send(playerID, NewGameEndedMessage(reason))
}

// CancelCleanup disarms the match's cleanup timer, if armed. Used when the
// match is being torn down ahead of the grace period.
func (b *Broadcaster) CancelCleanup(matchID model.MatchID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if timer, ok := b.timers[matchID]; ok {
		timer.Stop()
		delete(b.timers, matchID)
	}
}

// Stop disarms every pending cleanup timer. Called on server shutdown.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, timer := range b.timers {
		timer.Stop()
		delete(b.timers, id)
	}
}

// scheduleCleanup arms a one-shot termination timer for a finished match.
// Repeat terminal publishes reuse the already-armed timer. A timer that
// fires after the match was removed some other way is absorbed by the
// idempotent terminate.
func (b *Broadcaster) scheduleCleanup(matchID model.MatchID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.timers[matchID]; ok {
		return
	}

	b.timers[matchID] = time.AfterFunc(b.grace, func() {
		b.mu.Lock()
		delete(b.timers, matchID)
		b.mu.Unlock()

		if err := b.matches.Terminate(context.Background(), matchID); err != nil {
			b.logger.Error("grace period cleanup failed",
				slog.String("match_id", string(matchID)),
				slog.String("error", err.Error()))
			return
		}
		b.logger.Info("cleaned up finished match",
			slog.String("match_id", string(matchID)))
	})
}
