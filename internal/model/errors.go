package model

import "errors"

// Common errors used across the application.
//
// The move rejection errors (ErrMatchOver, ErrNotYourTurn,
// ErrInvalidPosition, ErrCellOccupied) are absorbed by the orchestration
// layer rather than surfaced to clients: a rejected move simply produces no
// state broadcast.
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match errors
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchOver       = errors.New("match is already over")
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrInvalidPosition = errors.New("position is off the board")
	ErrCellOccupied    = errors.New("cell is already occupied")
)
