package response

import "github.com/gridmatch/gridmatch/internal/model"

// Player represents a registered player in API responses
type Player struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		PlayerID: string(p.ID),
		Name:     p.DisplayName,
	}
}

// QueueStatus is the response for joining the matchmaking queue. The status
// is always "waiting"; pairing results arrive over the websocket channel.
type QueueStatus struct {
	Status string `json:"status"`
}
