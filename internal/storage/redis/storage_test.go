package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/gridmatch/gridmatch/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour
	cfg.MatchTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	matchID := model.MatchID("match-1")
	player := &model.Player{
		ID:           "player-1",
		DisplayName:  "Alice",
		CurrentMatch: &matchID,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.Require().NotNil(retrieved.CurrentMatch)
	s.Equal(matchID, *retrieved.CurrentMatch)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayerUnknownIsNoOp() {
	s.NoError(s.storage.DeletePlayer(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestPlayerHasTTL() {
	player := &model.Player{ID: "player-1"}
	_ = s.storage.SavePlayer(s.ctx, player)

	ttl := s.mini.TTL(playerKey(player.ID))
	s.True(ttl > 0, "player entries should expire")
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	match := model.NewMatch("match-1", "a", "b", time.Now().UTC())
	match.Board[0][0] = model.MarkX

	err := s.storage.SaveMatch(s.ctx, match)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatch(s.ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(match.ID, retrieved.ID)
	s.Equal(model.MarkX, retrieved.Board[0][0])
	s.Equal(model.PlayerID("a"), retrieved.Turn)
	s.Equal(model.MatchInProgress, retrieved.Status)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestDeleteMatchIsIdempotent() {
	match := model.NewMatch("match-1", "a", "b", time.Now().UTC())
	_ = s.storage.SaveMatch(s.ctx, match)

	s.NoError(s.storage.DeleteMatch(s.ctx, "match-1"))
	s.NoError(s.storage.DeleteMatch(s.ctx, "match-1"))

	_, err := s.storage.GetMatch(s.ctx, "match-1")
	s.ErrorIs(err, model.ErrMatchNotFound)
}
