package models

import "ctchen222/tictactoe-history/internal/game"

// MoveRequest is the body of POST /api/sessions/:id/moves.
type MoveRequest struct {
	Cell *int `json:"cell" binding:"required"`
}

// JumpRequest is the body of POST /api/sessions/:id/jump.
type JumpRequest struct {
	Step *int `json:"step" binding:"required"`
}

// SessionResponse is a session id with the state its viewers see.
type SessionResponse struct {
	ID      string    `json:"id"`
	Viewers int       `json:"viewers"`
	State   game.View `json:"state"`
}
