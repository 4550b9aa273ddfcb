package hub

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// closeIdle removes sessions that have had no viewers and no activity for
// longer than the idle timeout. It returns how many were removed.
func (h *Hub) closeIdle(ctx context.Context, now time.Time) int {
	ctx, span := tracer.Start(ctx, "hub.closeIdle")
	defer span.End()

	h.mu.RLock()
	var idle []string
	for id, s := range h.sessions {
		if s.PlayerCount() == 0 && now.Sub(s.IdleSince()) > h.idleTimeout {
			idle = append(idle, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range idle {
		h.removeSession(ctx, id)
		slog.InfoContext(ctx, "Session closed after idling", "session.id", id)
	}

	span.SetAttributes(attribute.Int("sessions.closed", len(idle)))
	return len(idle)
}
