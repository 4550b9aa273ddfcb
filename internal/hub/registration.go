package hub

import (
	"context"
	"ctchen222/tictactoe-history/internal/hub/types"
	"ctchen222/tictactoe-history/internal/player"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// handleRegistration attaches the viewer to the session it asked for. An
// unknown or empty session id starts a fresh session.
func (h *Hub) handleRegistration(req *types.RegistrationRequest) {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.Start(ctx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.String("session.requested", req.SessionID),
	))
	defer span.End()

	s, ok := h.Session(req.SessionID)
	if !ok {
		if req.SessionID != "" {
			slog.InfoContext(ctx, "Requested session not found, starting a new one", "session.requested", req.SessionID, "player.id", req.Player.ID)
		}
		s = h.CreateSession(ctx)
	}
	span.SetAttributes(attribute.String("session.id", s.ID))

	s.AddPlayer(ctx, req.Player)
}

// handleUnregistration detaches a viewer whose connection went away. The
// session itself stays until the idle sweep removes it.
func (h *Hub) handleUnregistration(p *player.Player) {
	s, ok := h.Session(p.SessionID)
	if !ok {
		slog.Info("Player disconnected from a session that no longer exists", "player.id", p.ID, "session.id", p.SessionID)
		return
	}
	s.RemovePlayer(p)
}
