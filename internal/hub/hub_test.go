package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ctchen222/tictactoe-history/internal/hub/types"
	"ctchen222/tictactoe-history/internal/player"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

// stubConn accepts every write and blocks reads until closed.
type stubConn struct {
	closed    chan struct{}
	closeOnce sync.Once
}

func newStubConn() *stubConn {
	return &stubConn{closed: make(chan struct{})}
}

func (c *stubConn) WriteMessage(int, []byte) error { return nil }

func (c *stubConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("closed")
}

func (c *stubConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func runHub(t *testing.T, idleTimeout time.Duration) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(idleTimeout)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h, cancel
}

func TestHub_CreateSession(t *testing.T) {
	h := NewHub(time.Minute)

	s := h.CreateSession(context.Background())
	t.Cleanup(s.Close)

	got, ok := h.Session(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, h.SessionCount())

	_, ok = h.Session("missing")
	assert.False(t, ok)
}

func TestHub_RegisterJoinsExistingSession(t *testing.T) {
	h, _ := runHub(t, time.Minute)
	s := h.CreateSession(context.Background())

	h.Register() <- &types.RegistrationRequest{
		Player:    player.NewPlayer("viewer-1", newStubConn()),
		SessionID: s.ID,
		Ctx:       context.Background(),
	}

	require.Eventually(t, func() bool { return s.PlayerCount() == 1 }, waitFor, tick)
	assert.Equal(t, 1, h.SessionCount())
}

func TestHub_RegisterUnknownSessionStartsANewOne(t *testing.T) {
	h, _ := runHub(t, time.Minute)

	h.Register() <- &types.RegistrationRequest{
		Player:    player.NewPlayer("viewer-1", newStubConn()),
		SessionID: "missing",
	}

	require.Eventually(t, func() bool { return h.SessionCount() == 1 }, waitFor, tick)
	_, ok := h.Session("missing")
	assert.False(t, ok)
}

func TestHub_DisconnectRemovesPlayerButKeepsSession(t *testing.T) {
	h, _ := runHub(t, time.Minute)
	s := h.CreateSession(context.Background())
	conn := newStubConn()

	h.Register() <- &types.RegistrationRequest{
		Player:    player.NewPlayer("viewer-1", conn),
		SessionID: s.ID,
	}
	require.Eventually(t, func() bool { return s.PlayerCount() == 1 }, waitFor, tick)

	conn.Close()

	require.Eventually(t, func() bool { return s.PlayerCount() == 0 }, waitFor, tick)
	assert.Equal(t, 1, h.SessionCount())
}

func TestHub_CloseIdle(t *testing.T) {
	h := NewHub(time.Minute)
	ctx := context.Background()
	idle := h.CreateSession(ctx)
	watched := h.CreateSession(ctx)
	watched.AddPlayer(ctx, player.NewPlayer("viewer-1", newStubConn()))
	t.Cleanup(watched.Close)

	assert.Equal(t, 0, h.closeIdle(ctx, time.Now()), "nothing is idle yet")

	closed := h.closeIdle(ctx, time.Now().Add(2*time.Minute))

	assert.Equal(t, 1, closed)
	_, ok := h.Session(idle.ID)
	assert.False(t, ok)
	_, ok = h.Session(watched.ID)
	assert.True(t, ok, "sessions with viewers are kept")

	select {
	case <-idle.Done:
	default:
		t.Fatal("idle session must be closed")
	}
}

func TestHub_RunClosesSessionsOnShutdown(t *testing.T) {
	h, cancel := runHub(t, time.Minute)
	s := h.CreateSession(context.Background())

	cancel()

	select {
	case <-s.Done:
	case <-time.After(waitFor):
		t.Fatal("session was not closed on shutdown")
	}
	assert.Equal(t, 0, h.SessionCount())
}
