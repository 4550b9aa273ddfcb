package player

import "time"

// PlayerStatus tracks whether a viewer's connection is usable.
type PlayerStatus string

const (
	StatusConnected    PlayerStatus = "connected"
	StatusDisconnected PlayerStatus = "disconnected"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is one viewer attached to a session. In a hot-seat game both marks
// are played from the same screen, so a Player is a screen, not a side.
type Player struct {
	ID        string
	SessionID string
	Conn      Connection
	Status    PlayerStatus
	LastSeen  time.Time
}

// NewPlayer creates a connected player.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{
		ID:       id,
		Conn:     conn,
		Status:   StatusConnected,
		LastSeen: time.Now(),
	}
}

// MarkDisconnected records that the connection is gone.
func (p *Player) MarkDisconnected() {
	p.Status = StatusDisconnected
	p.LastSeen = time.Now()
}
