package memory

import (
	"context"
	"sync"

	"github.com/quizparty/quizparty/internal/model"
	"github.com/quizparty/quizparty/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// This is the only backend: the room table is process-wide state that
// is deliberately lost on restart.
type Storage struct {
	mu sync.RWMutex

	sessions map[model.RoomCode]*model.Session
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.RoomCode]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Code] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.RoomCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[code]
	return ok, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]model.RoomCode, 0, len(s.sessions))
	for code := range s.sessions {
		codes = append(codes, code)
	}
	return codes, nil
}
