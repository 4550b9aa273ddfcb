package session

import (
	"context"
	"ctchen222/tictactoe-history/internal/game"
	"ctchen222/tictactoe-history/internal/hub/types"
	"ctchen222/tictactoe-history/internal/player"
	"ctchen222/tictactoe-history/pkg/proto"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AddPlayer attaches p, tells it which session it joined, sends the current
// state and starts reading its messages.
func (s *Session) AddPlayer(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "session.AddPlayer", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	p.SessionID = s.ID
	s.Players = append(s.Players, p)
	s.touch()

	s.sendTo(ctx, p, &proto.SessionAssignmentMessage{
		Type:      proto.TypeSession,
		SessionID: s.ID,
		PlayerID:  p.ID,
	})
	s.sendTo(ctx, p, proto.NewUpdate(s.game.View()))
	s.mu.Unlock()

	slog.InfoContext(ctx, "Player joined session", "player.id", p.ID, "session.id", s.ID)
	go s.ReadPump(p)
}

// broadcastView is subscribed to the game, so it runs with s.mu held.
func (s *Session) broadcastView(view game.View) {
	s.broadcast(proto.NewUpdate(view))
}

// broadcast sends a message to all connected players in the session.
func (s *Session) broadcast(message *proto.ServerToClientMessage) {
	ctx := context.Background()
	ctx, span := tracer.Start(ctx, "session.Broadcast", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	for _, p := range s.Players {
		if p.Status != player.StatusConnected {
			continue
		}
		if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Error writing message to player")
		}
	}
}

// sendTo writes one message to a single player. Callers hold s.mu.
func (s *Session) sendTo(ctx context.Context, p *player.Player, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return
	}
	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "session.id", s.ID, "error", err)
	}
}

// ReadPump pumps messages from the websocket connection to the session's
// incoming channel until the connection fails.
func (s *Session) ReadPump(p *player.Player) {
	ctx, span := tracer.Start(context.Background(), "session.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	defer func() {
		slog.InfoContext(ctx, "Player disconnected", "player.id", p.ID, "session.id", s.ID)
		select {
		case s.unregister <- p:
		case <-s.Done:
		}
	}()

	for {
		_, msg, err := p.Conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", p.ID, "session.id", s.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Player connection error")
			return
		}

		select {
		case s.incoming <- &types.PlayerMove{Player: p, Message: msg}:
		case <-s.Done:
			return
		}
	}
}
