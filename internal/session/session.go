package session

import (
	"context"
	"ctchen222/tictactoe-history/internal/game"
	"ctchen222/tictactoe-history/internal/hub/types"
	"ctchen222/tictactoe-history/internal/player"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 10 * time.Second
	incomingBuffer    = 16
)

var (
	tracer = otel.Tracer("session")
	meter  = otel.Meter("session")

	moveCounter, _    = meter.Int64Counter("game.moves", metric.WithDescription("Moves submitted, by result"))
	rewindCounter, _  = meter.Int64Counter("game.rewinds", metric.WithDescription("Accepted time-travel jumps"))
	restartCounter, _ = meter.Int64Counter("game.restarts", metric.WithDescription("Games restarted from scratch"))
)

// Session is one shared game with every viewer attached to it. All access to
// the game goes through the session lock.
type Session struct {
	ID      string
	Players []*player.Player

	mu          sync.Mutex
	game        *game.Game
	unsubscribe func()
	lastActive  time.Time

	incoming   chan *types.PlayerMove
	unregister chan<- *player.Player
	Done       chan struct{}
	closeOnce  sync.Once
}

// NewSession creates a session holding a fresh game and starts its loop.
// Viewers whose connection fails are sent to unregister.
func NewSession(id string, unregister chan<- *player.Player) *Session {
	s := &Session{
		ID:         id,
		Players:    make([]*player.Player, 0, 2),
		lastActive: time.Now(),
		incoming:   make(chan *types.PlayerMove, incomingBuffer),
		unregister: unregister,
		Done:       make(chan struct{}),
	}
	s.attachGame(game.NewGame())

	go s.run()
	return s
}

// attachGame swaps in g and routes its notifications to the viewers.
// Callers hold s.mu or own s exclusively.
func (s *Session) attachGame(g *game.Game) {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.game = g
	s.unsubscribe = g.Subscribe(game.ObserverFunc(s.broadcastView))
}

// run is the main loop for the session.
func (s *Session) run() {
	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.Done:
			slog.Info("Session run goroutine stopping.", "session.id", s.ID)
			return

		case msg := <-s.incoming:
			s.HandleMessage(msg.Player, msg.Message)

		case <-pingTicker.C:
			s.mu.Lock()
			for _, p := range s.Players {
				if p.Status != player.StatusConnected {
					continue
				}
				if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					slog.Warn("Failed to send ping to player, assuming disconnect", "player.id", p.ID, "error", err)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Move plays cell for whoever is next. Every viewer receives the new state.
func (s *Session) Move(ctx context.Context, cell int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.move(ctx, cell)
}

func (s *Session) move(ctx context.Context, cell int) error {
	ctx, span := tracer.Start(ctx, "session.Move", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.cell", cell),
	))
	defer span.End()

	if err := s.game.Move(cell); err != nil {
		slog.WarnContext(ctx, "rejected move", "session.id", s.ID, "cell", cell, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		moveCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "rejected")))
		return err
	}

	span.SetAttributes(attribute.Bool("move.valid", true))
	moveCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "accepted")))
	s.touch()
	return nil
}

// JumpTo shows an earlier (or later) step of the game to every viewer.
func (s *Session) JumpTo(ctx context.Context, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jumpTo(ctx, step)
}

func (s *Session) jumpTo(ctx context.Context, step int) error {
	ctx, span := tracer.Start(ctx, "session.JumpTo", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("jump.step", step),
	))
	defer span.End()

	if err := s.game.JumpTo(step); err != nil {
		slog.WarnContext(ctx, "rejected jump", "session.id", s.ID, "step", step, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid jump")
		return err
	}

	rewindCounter.Add(ctx, 1)
	s.touch()
	return nil
}

// Restart throws the game away, history included, and starts a new one.
func (s *Session) Restart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restart(ctx)
}

func (s *Session) restart(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.Restart", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.attachGame(game.NewGame())
	restartCounter.Add(ctx, 1)
	s.touch()

	slog.InfoContext(ctx, "Game restarted", "session.id", s.ID)
	s.broadcastView(s.game.View())
}

// View returns the state shown to viewers.
func (s *Session) View() game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.View()
}

// PlayerCount returns the number of attached viewers.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Players)
}

// IdleSince returns the time of the last accepted change or viewer change.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// RemovePlayer detaches p and closes its connection. It reports whether p
// was attached.
func (s *Session) RemovePlayer(p *player.Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.Players, p)
	if i < 0 {
		return false
	}
	s.Players = slices.Delete(s.Players, i, i+1)
	p.MarkDisconnected()
	p.Conn.Close()
	s.touch()

	slog.Info("Player removed from session", "player.id", p.ID, "session.id", s.ID)
	return true
}

// Close stops the loop and drops every viewer. It is safe to call twice.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.Done)

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, p := range s.Players {
			p.MarkDisconnected()
			p.Conn.Close()
		}
		s.Players = nil
		s.unsubscribe()
	})
}
