package match

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
	"github.com/gridmatch/gridmatch/internal/dependencies/random"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/storage"
)

const (
	// MatchIDLength is the length of generated match ids
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match ids
	MatchIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller is the session directory: it owns the set of live matches and
// serializes mutation of each one. The serialization granularity is a mutex
// per match id, not a global lock, so independent matches stay concurrently
// mutable.
type Controller struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[model.MatchID]*sync.Mutex
}

// NewController creates a new match controller
func NewController(
	store storage.Storage,
	reg *registry.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  store,
		registry: reg,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "match")),
		locks:    make(map[model.MatchID]*sync.Mutex),
	}
}

// Create allocates a new match between the two players in arrival order:
// playerA receives X and the first turn. Both players' back-references are
// set before the match is persisted, so a participant vanishing mid-create
// fails the whole operation without leaving an orphan match behind.
func (c *Controller) Create(ctx context.Context, playerA, playerB model.PlayerID) (*model.Match, error) {
	id := model.MatchID(c.random.String(MatchIDLength, MatchIDAlphabet))
	m := model.NewMatch(id, playerA, playerB, c.clock.Now())

	if err := c.registry.SetCurrentMatch(ctx, playerA, id); err != nil {
		return nil, err
	}
	if err := c.registry.SetCurrentMatch(ctx, playerB, id); err != nil {
		_ = c.registry.ClearCurrentMatch(ctx, playerA, id)
		return nil, err
	}
	if err := c.storage.SaveMatch(ctx, m); err != nil {
		_ = c.registry.ClearCurrentMatch(ctx, playerA, id)
		_ = c.registry.ClearCurrentMatch(ctx, playerB, id)
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(id)),
		slog.String("player_a", string(playerA)),
		slog.String("player_b", string(playerB)),
	)

	return m, nil
}

// Get retrieves a match by id
func (c *Controller) Get(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, id)
}

// ApplyMove applies one move under the match's lock, so two near-simultaneous
// attempts on the same match never interleave: exactly one transition wins
// and the loser is validated against the post-transition state.
func (c *Controller) ApplyMove(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, row, col int) (*model.Match, error) {
	lock := c.lockFor(matchID)
	lock.Lock()
	defer lock.Unlock()

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := m.ApplyMove(playerID, row, col); err != nil {
		return nil, err
	}
	m.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	if m.Status != model.MatchInProgress {
		c.logger.Info("match finished",
			slog.String("match_id", string(matchID)),
			slog.String("status", string(m.Status)),
			slog.String("winner", string(m.Winner)),
		)
	}

	return m, nil
}

// Terminate removes a match and clears the participants' back-references.
// It is idempotent: terminating an id that is unknown or already removed is
// a silent no-op, which lets a pending cleanup timer fire harmlessly after a
// disconnect has already torn the match down.
func (c *Controller) Terminate(ctx context.Context, matchID model.MatchID) error {
	_, _, err := c.remove(ctx, matchID, false)
	return err
}

// TerminateIfInProgress removes the match only while it is still running.
// The status check and the removal happen under the same lock that
// serializes moves, so a final move and a disconnect racing each other
// resolve to exactly one outcome: either the move lands first and the match
// survives as finished, or the teardown wins and the move sees
// ErrMatchNotFound. Returns the removed match when it tore the match down.
func (c *Controller) TerminateIfInProgress(ctx context.Context, matchID model.MatchID) (*model.Match, bool, error) {
	return c.remove(ctx, matchID, true)
}

func (c *Controller) remove(ctx context.Context, matchID model.MatchID, onlyInProgress bool) (*model.Match, bool, error) {
	lock := c.lockFor(matchID)
	lock.Lock()

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		lock.Unlock()
		if errors.Is(err, model.ErrMatchNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if onlyInProgress && m.Status != model.MatchInProgress {
		lock.Unlock()
		return nil, false, nil
	}

	if err := c.storage.DeleteMatch(ctx, matchID); err != nil {
		lock.Unlock()
		return nil, false, err
	}
	lock.Unlock()
	c.dropLock(matchID)

	if err := c.registry.ClearCurrentMatch(ctx, m.PlayerA, matchID); err != nil {
		return nil, false, err
	}
	if err := c.registry.ClearCurrentMatch(ctx, m.PlayerB, matchID); err != nil {
		return nil, false, err
	}

	c.logger.Info("match terminated", slog.String("match_id", string(matchID)))
	return m, true, nil
}

// lockFor returns the mutex guarding the given match, creating it on first use
func (c *Controller) lockFor(matchID model.MatchID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[matchID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[matchID] = lock
	}
	return lock
}

// dropLock discards the mutex for a removed match. A goroutine still holding
// the stale mutex only observes ErrMatchNotFound on its next lookup.
func (c *Controller) dropLock(matchID model.MatchID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, matchID)
}
