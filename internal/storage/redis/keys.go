package redis

import (
	"fmt"

	"github.com/gridmatch/gridmatch/internal/model"
)

// Key prefix for all stored data
const keyPrefix = "gridmatch"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}
