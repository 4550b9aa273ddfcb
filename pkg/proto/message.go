package proto

import "ctchen222/tictactoe-history/internal/game"

// Client message types
const (
	TypeMove    = "move"
	TypeJump    = "jump"
	TypeRestart = "restart"
)

// Server message types
const (
	TypeSession = "session"
	TypeUpdate  = "update"
	TypeError   = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type string `json:"type" validate:"required,oneof=move jump restart"`
	Cell *int   `json:"cell,omitempty" validate:"omitempty,min=0,max=8"`
	Step *int   `json:"step,omitempty" validate:"omitempty,min=0"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string     `json:"type" validate:"required"`
	Reason string     `json:"reason,omitempty"`
	State  *game.View `json:"state,omitempty"`
}

// SessionAssignmentMessage tells a viewer which session it joined.
type SessionAssignmentMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
}

// NewUpdate wraps a view in an update message.
func NewUpdate(view game.View) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeUpdate, State: &view}
}

// NewError builds an error reply for a rejected request.
func NewError(err error) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: err.Error()}
}
