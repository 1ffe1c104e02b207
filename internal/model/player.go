package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered participant.
//
// The live connection handle is deliberately not part of the model; it is
// owned by the websocket hub and exists only while the player is connected.
type Player struct {
	ID          PlayerID
	DisplayName string

	// CurrentMatch is a back-reference to the match the player belongs to,
	// or nil when idle. It is a lookup key only; ownership of the match
	// stays with the session directory.
	CurrentMatch *MatchID

	CreatedAt time.Time
}
