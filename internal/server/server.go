package server

import (
	"context"
	"ctchen222/tictactoe-history/internal/api/controller"
	"ctchen222/tictactoe-history/internal/hub"
	"ctchen222/tictactoe-history/internal/hub/types"
	"ctchen222/tictactoe-history/internal/player"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub      *hub.Hub
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer wires the REST routes, the websocket endpoint and, when
// staticDir exists, the browser client.
func NewServer(h *hub.Hub, sessions *controller.SessionController, staticDir string) *Server {
	s := &Server{
		hub:    h,
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes(sessions, staticDir)
	return s
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes(sessions *controller.SessionController, staticDir string) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.hub.SessionCount()})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api/sessions")
	api.POST("", sessions.Create)
	api.GET("/:id", sessions.Get)
	api.POST("/:id/moves", sessions.Move)
	api.POST("/:id/jump", sessions.Jump)
	api.POST("/:id/restart", sessions.Restart)

	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))
	} else {
		slog.Info("Static directory not found, serving API only", "static.dir", staticDir)
	}
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	// Get playerID from URL, or generate a new one.
	playerID := c.Query("playerId")
	if playerID == "" {
		playerID = uuid.New().String()
	}
	sessionID := c.Query("session")
	span.SetAttributes(
		attribute.String("player.id", playerID),
		attribute.String("session.requested", sessionID),
	)

	// The request context ends with this handler.
	req := &types.RegistrationRequest{
		Player:    player.NewPlayer(playerID, conn),
		SessionID: sessionID,
		Ctx:       context.WithoutCancel(ctx),
	}
	s.hub.Register() <- req
}
