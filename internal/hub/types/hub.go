package types

import (
	"context"
	"ctchen222/tictactoe-history/internal/player"
)

// RegistrationRequest asks the hub to attach a viewer to a session.
type RegistrationRequest struct {
	Player    *player.Player
	SessionID string // empty or unknown creates a new session
	Ctx       context.Context
}

// PlayerMove is a raw message read from a viewer's connection.
type PlayerMove struct {
	Player  *player.Player
	Message []byte
}
