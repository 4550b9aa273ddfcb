package hub

import (
	"context"
	"ctchen222/tictactoe-history/internal/hub/types"
	"ctchen222/tictactoe-history/internal/player"
	"ctchen222/tictactoe-history/internal/session"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const maxCleanupInterval = time.Minute

var (
	tracer = otel.Tracer("hub")
	meter  = otel.Meter("hub")

	activeSessions, _ = meter.Int64UpDownCounter("sessions.active", metric.WithDescription("Sessions currently held in memory"))
)

// Hub owns every live session and routes viewers to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	register    chan *types.RegistrationRequest
	unregister  chan *player.Player
	idleTimeout time.Duration
}

// NewHub creates a hub that drops sessions left without viewers for longer
// than idleTimeout. A zero idleTimeout keeps sessions forever.
func NewHub(idleTimeout time.Duration) *Hub {
	return &Hub{
		sessions:    make(map[string]*session.Session),
		register:    make(chan *types.RegistrationRequest),
		unregister:  make(chan *player.Player),
		idleTimeout: idleTimeout,
	}
}

// Run starts the hub and blocks until ctx is cancelled. All sessions are
// closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	var cleanup <-chan time.Time
	if h.idleTimeout > 0 {
		ticker := time.NewTicker(h.cleanupInterval())
		defer ticker.Stop()
		cleanup = ticker.C
	}

	slog.InfoContext(ctx, "Hub started", "session.idle_timeout", h.idleTimeout)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			slog.Info("Hub stopped")
			return

		case req := <-h.register:
			h.handleRegistration(req)

		case p := <-h.unregister:
			h.handleUnregistration(p)

		case now := <-cleanup:
			h.closeIdle(ctx, now)
		}
	}
}

func (h *Hub) cleanupInterval() time.Duration {
	if h.idleTimeout > maxCleanupInterval {
		return maxCleanupInterval
	}
	return h.idleTimeout
}

// CreateSession starts a new, empty session.
func (h *Hub) CreateSession(ctx context.Context) *session.Session {
	_, span := tracer.Start(ctx, "hub.CreateSession")
	defer span.End()

	s := session.NewSession(uuid.New().String(), h.unregister)
	span.SetAttributes(attribute.String("session.id", s.ID))

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	activeSessions.Add(ctx, 1)
	slog.InfoContext(ctx, "Session created", "session.id", s.ID)
	return s
}

// Session looks a session up by id.
func (h *Hub) Session(id string) (*session.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Unregister returns the unregister channel.
func (h *Hub) Unregister() chan<- *player.Player {
	return h.unregister
}

func (h *Hub) removeSession(ctx context.Context, id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	activeSessions.Add(ctx, -1)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session.Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	activeSessions.Add(context.Background(), -int64(len(sessions)))
}
