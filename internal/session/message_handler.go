package session

import (
	"context"
	"ctchen222/tictactoe-history/internal/player"
	"ctchen222/tictactoe-history/internal/validator"
	"ctchen222/tictactoe-history/pkg/proto"
	"encoding/json"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errMissingCell      = errors.New("cell is required")
	errMissingStep      = errors.New("step is required")
)

// HandleMessage handles a message from a player. It acts as a dispatcher.
// Whatever goes wrong is reported to the sender only.
func (s *Session) HandleMessage(p *player.Player, rawMessage []byte) {
	ctx := context.Background()
	ctx, span := tracer.Start(ctx, "session.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Status == player.StatusDisconnected {
		slog.WarnContext(ctx, "ignoring message from disconnected player", "player.id", p.ID)
		span.SetStatus(codes.Error, "Message from disconnected player")
		return
	}

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		s.sendTo(ctx, p, proto.NewError(errMalformedMessage))
		return
	}

	if err := validator.Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		s.sendTo(ctx, p, proto.NewError(err))
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	var err error
	switch message.Type {
	case proto.TypeMove:
		if message.Cell == nil {
			err = errMissingCell
			break
		}
		err = s.move(ctx, *message.Cell)
	case proto.TypeJump:
		if message.Step == nil {
			err = errMissingStep
			break
		}
		err = s.jumpTo(ctx, *message.Step)
	case proto.TypeRestart:
		s.restart(ctx)
	}

	if err != nil {
		s.sendTo(ctx, p, proto.NewError(err))
	}
}
