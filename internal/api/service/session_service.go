package service

import (
	"context"
	"ctchen222/tictactoe-history/internal/api/models"
	"ctchen222/tictactoe-history/internal/session"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is where live sessions are kept. *hub.Hub satisfies it.
type SessionStore interface {
	CreateSession(ctx context.Context) *session.Session
	Session(id string) (*session.Session, bool)
}

// SessionService defines the interface for session-related business logic.
type SessionService interface {
	Create(ctx context.Context) (*models.SessionResponse, error)
	Get(ctx context.Context, id string) (*models.SessionResponse, error)
	Move(ctx context.Context, id string, cell int) (*models.SessionResponse, error)
	Jump(ctx context.Context, id string, step int) (*models.SessionResponse, error)
	Restart(ctx context.Context, id string) (*models.SessionResponse, error)
}

type sessionService struct {
	store SessionStore
}

// NewSessionService creates a new SessionService.
func NewSessionService(store SessionStore) SessionService {
	return &sessionService{store: store}
}

func (s *sessionService) Create(ctx context.Context) (*models.SessionResponse, error) {
	return toResponse(s.store.CreateSession(ctx)), nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.SessionResponse, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return toResponse(sess), nil
}

func (s *sessionService) Move(ctx context.Context, id string, cell int) (*models.SessionResponse, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Move(ctx, cell); err != nil {
		return nil, err
	}
	return toResponse(sess), nil
}

func (s *sessionService) Jump(ctx context.Context, id string, step int) (*models.SessionResponse, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := sess.JumpTo(ctx, step); err != nil {
		return nil, err
	}
	return toResponse(sess), nil
}

func (s *sessionService) Restart(ctx context.Context, id string) (*models.SessionResponse, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	sess.Restart(ctx)
	return toResponse(sess), nil
}

func (s *sessionService) find(id string) (*session.Session, error) {
	sess, ok := s.store.Session(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func toResponse(sess *session.Session) *models.SessionResponse {
	return &models.SessionResponse{
		ID:      sess.ID,
		Viewers: sess.PlayerCount(),
		State:   sess.View(),
	}
}
