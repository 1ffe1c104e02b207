package ws

import "github.com/gridmatch/gridmatch/internal/model"

// Message type discriminators shared with the browser client
const (
	TypeConnected = "connected"
	TypeGameState = "game_state"
	TypeGameEnded = "game_ended"
	TypeMove      = "move"
)

// ConnectedMessage acknowledges a successful websocket attachment
type ConnectedMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"playerId"`
}

// GameStateData is the board snapshot shared by both recipients of a
// game_state broadcast
type GameStateData struct {
	ID             model.MatchID     `json:"id"`
	Board          [][]string        `json:"board"`
	Turn           model.PlayerID    `json:"turn"`
	Winner         model.PlayerID    `json:"winner,omitempty"`
	IsDraw         bool              `json:"isDraw"`
	ParticipantA   model.PlayerID    `json:"participantA"`
	ParticipantB   model.PlayerID    `json:"participantB"`
	MarkAssignment map[string]string `json:"markAssignment"`
}

// GameStateMessage carries the match state plus the per-recipient turn flag
type GameStateMessage struct {
	Type     string        `json:"type"`
	Data     GameStateData `json:"data"`
	YourTurn bool          `json:"yourTurn"`
}

// GameEndedMessage tells a participant their match is over and why
type GameEndedMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ClientMessage is the envelope for everything a client sends over the
// channel. Only move messages are defined today; unknown types are dropped.
type ClientMessage struct {
	Type      string        `json:"type"`
	SessionID model.MatchID `json:"sessionId"`
	Row       int           `json:"row"`
	Col       int           `json:"col"`
}

// NewConnectedMessage builds the attachment acknowledgement for a player
func NewConnectedMessage(playerID model.PlayerID) ConnectedMessage {
	return ConnectedMessage{Type: TypeConnected, PlayerID: playerID}
}

// NewGameStateMessage builds the state broadcast for one recipient. YourTurn
// reflects the turn holder regardless of match status, matching what the
// client renders.
func NewGameStateMessage(m *model.Match, recipient model.PlayerID) GameStateMessage {
	board := make([][]string, model.BoardSize)
	for r := range m.Board {
		board[r] = make([]string, model.BoardSize)
		for c := range m.Board[r] {
			board[r][c] = string(m.Board[r][c])
		}
	}

	return GameStateMessage{
		Type: TypeGameState,
		Data: GameStateData{
			ID:           m.ID,
			Board:        board,
			Turn:         m.Turn,
			Winner:       m.Winner,
			IsDraw:       m.Status == model.MatchDraw,
			ParticipantA: m.PlayerA,
			ParticipantB: m.PlayerB,
			MarkAssignment: map[string]string{
				string(m.PlayerA): string(model.MarkX),
				string(m.PlayerB): string(model.MarkO),
			},
		},
		YourTurn: m.Turn == recipient,
	}
}

// NewGameEndedMessage builds the termination notice for a participant
func NewGameEndedMessage(reason string) GameEndedMessage {
	return GameEndedMessage{Type: TypeGameEnded, Reason: reason}
}
