package matchmaking

import (
	"log/slog"
	"sync"

	"github.com/gridmatch/gridmatch/internal/model"
)

// Queue is the FIFO set of players waiting for an opponent. It is a single
// shared resource: every operation runs under one mutex, so two concurrent
// joins can never both claim the same waiting player.
type Queue struct {
	mu      sync.Mutex
	waiting []model.PlayerID
	logger  *slog.Logger
}

// New creates an empty matchmaking queue
func New(logger *slog.Logger) *Queue {
	return &Queue{
		logger: logger.With(slog.String("component", "matchmaking")),
	}
}

// Enqueue inserts the player at the tail. A player already waiting is left
// in place, keeping the operation idempotent.
func (q *Queue) Enqueue(playerID model.PlayerID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, id := range q.waiting {
		if id == playerID {
			return
		}
	}
	q.waiting = append(q.waiting, playerID)

	q.logger.Info("player queued",
		slog.String("player_id", string(playerID)),
		slog.Int("waiting", len(q.waiting)),
	)
}

// TryPair pops the two longest-waiting players and returns them in arrival
// order. It reports false, leaving the queue untouched, when fewer than two
// players are waiting.
func (q *Queue) TryPair() (first, second model.PlayerID, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiting) < 2 {
		return "", "", false
	}

	first, second = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	return first, second, true
}

// RemoveIfWaiting removes the player if present; used when a player
// disconnects before a match forms
func (q *Queue) RemoveIfWaiting(playerID model.PlayerID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, id := range q.waiting {
		if id == playerID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			q.logger.Info("player left queue", slog.String("player_id", string(playerID)))
			return
		}
	}
}

// Len returns the number of waiting players
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
