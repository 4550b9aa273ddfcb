package session

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var errConnClosed = errors.New("connection closed")

// fakeConn stands in for a websocket connection. Tests push client frames
// through reads and inspect what the session wrote.
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	pings   int

	reads     chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan []byte),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if messageType == websocket.PingMessage {
		c.pings++
		return nil
	}
	c.written = append(c.written, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.reads:
		return websocket.TextMessage, msg, nil
	case <-c.closed:
		return 0, nil, errConnClosed
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

// frame decodes the i-th written message into out.
func (c *fakeConn) frame(t *testing.T, i int, out any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	require.Greater(t, len(c.written), i, "only %d frames written", len(c.written))
	require.NoError(t, json.Unmarshal(c.written[i], out))
}
