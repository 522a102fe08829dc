package storage

import (
	"context"

	"github.com/quizparty/quizparty/internal/model"
)

// Storage defines the interface for session persistence. Sessions
// live only in process memory; everything is lost on restart.
type Storage interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, code model.RoomCode) (*model.Session, error)
	DeleteSession(ctx context.Context, code model.RoomCode) error
	SessionExists(ctx context.Context, code model.RoomCode) (bool, error)

	// ListSessions returns the codes of all live sessions
	ListSessions(ctx context.Context) ([]model.RoomCode, error)
}
