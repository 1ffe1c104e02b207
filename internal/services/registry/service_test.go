package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gridmatch/gridmatch/internal/dependencies/mocks"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/storage/memory"
	"github.com/gridmatch/gridmatch/internal/testutil"
)

type RegistryTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *mocks.MockClock
	service *registry.Service
}

func (s *RegistryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = registry.New(memory.New(), s.clock, testutil.NopLogger())
}

func (s *RegistryTestSuite) TestRegisterAndLookup() {
	player, err := s.service.Register(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(player.ID)
	s.Equal("alice", player.DisplayName)
	s.Equal(s.clock.Now(), player.CreatedAt)
	s.Nil(player.CurrentMatch)

	found, err := s.service.Lookup(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, found.ID)
}

func (s *RegistryTestSuite) TestRegisterEmptyNameSucceeds() {
	player, err := s.service.Register(s.ctx, "")
	s.Require().NoError(err)
	s.NotEmpty(player.ID)
	s.Empty(player.DisplayName)
}

func (s *RegistryTestSuite) TestRegisterDuplicateNamesGetDistinctIDs() {
	first, err := s.service.Register(s.ctx, "alice")
	s.Require().NoError(err)
	second, err := s.service.Register(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
}

func (s *RegistryTestSuite) TestLookupUnknown() {
	_, err := s.service.Lookup(s.ctx, "nope")
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RegistryTestSuite) TestRemoveIsIdempotent() {
	player, err := s.service.Register(s.ctx, "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Remove(s.ctx, player.ID))
	s.Require().NoError(s.service.Remove(s.ctx, player.ID))

	_, err = s.service.Lookup(s.ctx, player.ID)
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RegistryTestSuite) TestCurrentMatchRoundTrip() {
	player, err := s.service.Register(s.ctx, "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.SetCurrentMatch(s.ctx, player.ID, "M1"))
	found, err := s.service.Lookup(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.CurrentMatch)
	s.Equal(model.MatchID("M1"), *found.CurrentMatch)

	s.Require().NoError(s.service.ClearCurrentMatch(s.ctx, player.ID, "M1"))
	found, err = s.service.Lookup(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Nil(found.CurrentMatch)
}

func (s *RegistryTestSuite) TestClearOnlyMatchingBackReference() {
	player, err := s.service.Register(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.service.SetCurrentMatch(s.ctx, player.ID, "M2"))

	// a stale clear for an older match must not wipe the newer reference
	s.Require().NoError(s.service.ClearCurrentMatch(s.ctx, player.ID, "M1"))

	found, err := s.service.Lookup(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.CurrentMatch)
	s.Equal(model.MatchID("M2"), *found.CurrentMatch)
}

func (s *RegistryTestSuite) TestClearForUnknownPlayerIsNoop() {
	s.Require().NoError(s.service.ClearCurrentMatch(s.ctx, "ghost", "M1"))
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
