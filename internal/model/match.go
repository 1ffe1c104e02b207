package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// Mark is the symbol a participant writes into a cell.
// The zero value means the cell is empty.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X" // first participant
	MarkO     Mark = "O" // second participant
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchInProgress MatchStatus = "in_progress"
	MatchWon        MatchStatus = "won"
	MatchDraw       MatchStatus = "draw"
)

// BoardSize is fixed at 3; larger grids are out of scope
const BoardSize = 3

// Match is the per-game state machine: board, turn holder, and terminal
// status. It has no transport or storage dependencies. It is not safe for
// concurrent use; the session directory serializes access per match.
//
// Invariants: a cell never transitions back to empty, the turn holder only
// advances on an accepted move while the match is in progress, and the
// status moves from in_progress to a terminal value exactly once.
type Match struct {
	ID    MatchID
	Board [BoardSize][BoardSize]Mark

	PlayerA PlayerID // first to arrive, plays X, moves first
	PlayerB PlayerID // plays O

	Turn   PlayerID
	Status MatchStatus
	Winner PlayerID // set only when Status is MatchWon

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMatch creates an in-progress match between the two players, in their
// arrival order. PlayerA is assigned X and holds the first turn.
func NewMatch(id MatchID, playerA, playerB PlayerID, now time.Time) *Match {
	return &Match{
		ID:        id,
		PlayerA:   playerA,
		PlayerB:   playerB,
		Turn:      playerA,
		Status:    MatchInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkOf returns the mark assigned to the given participant, or MarkEmpty
// for a player that is not part of the match
func (m *Match) MarkOf(playerID PlayerID) Mark {
	switch playerID {
	case m.PlayerA:
		return MarkX
	case m.PlayerB:
		return MarkO
	default:
		return MarkEmpty
	}
}

// Opponent returns the other participant, or "" if playerID is not in the match
func (m *Match) Opponent(playerID PlayerID) PlayerID {
	switch playerID {
	case m.PlayerA:
		return m.PlayerB
	case m.PlayerB:
		return m.PlayerA
	default:
		return ""
	}
}

// HasParticipant reports whether playerID is one of the two participants
func (m *Match) HasParticipant(playerID PlayerID) bool {
	return playerID == m.PlayerA || playerID == m.PlayerB
}

// ApplyMove validates and applies a single move. Preconditions are checked
// in a fixed order: the match must be in progress (ErrMatchOver), it must be
// the caller's turn (ErrNotYourTurn), the coordinates must be on the board
// (ErrInvalidPosition), and the target cell must be empty (ErrCellOccupied).
//
// On acceptance the caller's mark is written, the terminal condition is
// evaluated, and the turn flips to the opponent only if the match is still
// in progress afterwards.
func (m *Match) ApplyMove(playerID PlayerID, row, col int) error {
	if m.Status != MatchInProgress {
		return ErrMatchOver
	}
	if playerID != m.Turn {
		return ErrNotYourTurn
	}
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return ErrInvalidPosition
	}
	if m.Board[row][col] != MarkEmpty {
		return ErrCellOccupied
	}

	m.Board[row][col] = m.MarkOf(playerID)
	m.evaluateStatus()

	if m.Status == MatchInProgress {
		m.Turn = m.Opponent(m.Turn)
	}
	return nil
}

// evaluateStatus scans the three rows, then the three columns, then the main
// and anti diagonals. The first complete line decides the winner and stops
// the scan, keeping the outcome deterministic even for constructed boards
// holding more than one complete line. A full board with no winner is a draw.
func (m *Match) evaluateStatus() {
	for r := 0; r < BoardSize; r++ {
		if mk := m.Board[r][0]; mk != MarkEmpty && mk == m.Board[r][1] && mk == m.Board[r][2] {
			m.declareWinner(mk)
			return
		}
	}
	for c := 0; c < BoardSize; c++ {
		if mk := m.Board[0][c]; mk != MarkEmpty && mk == m.Board[1][c] && mk == m.Board[2][c] {
			m.declareWinner(mk)
			return
		}
	}
	if mk := m.Board[0][0]; mk != MarkEmpty && mk == m.Board[1][1] && mk == m.Board[2][2] {
		m.declareWinner(mk)
		return
	}
	if mk := m.Board[0][2]; mk != MarkEmpty && mk == m.Board[1][1] && mk == m.Board[2][0] {
		m.declareWinner(mk)
		return
	}

	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if m.Board[r][c] == MarkEmpty {
				return
			}
		}
	}
	m.Status = MatchDraw
}

func (m *Match) declareWinner(mk Mark) {
	m.Status = MatchWon
	if mk == MarkX {
		m.Winner = m.PlayerA
	} else {
		m.Winner = m.PlayerB
	}
}
