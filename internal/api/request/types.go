package request

// CreatePlayerRequest is the request body for registering a player.
// An empty name is accepted; registration never fails on input.
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// JoinQueueRequest is the request body for entering the matchmaking queue
type JoinQueueRequest struct {
	PlayerID string `json:"player_id"`
}
