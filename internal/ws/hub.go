package ws

import (
	"log/slog"
	"sync"

	"github.com/quizparty/quizparty/internal/model"
)

// Sender is the subset of connection capabilities the hub and router
// need. *Client implements it; tests substitute a recording fake.
type Sender interface {
	// ID returns the connection's identity
	ID() model.ConnectionID

	// Send queues a message for delivery. It must never block; it
	// reports false if the message was dropped.
	Send(payload []byte) bool

	// CloseSend signals that no further messages will be sent
	CloseSend()
}

// Hub tracks which connections are bound to which room and delivers
// room-scoped broadcasts. Membership changes only happen on the
// router's dispatch goroutine; the lock is for concurrent reads.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[model.RoomCode]map[model.ConnectionID]Sender
	logger *slog.Logger
}

// NewHub constructs a ready-to-use Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[model.RoomCode]map[model.ConnectionID]Sender),
		logger: logger.With(slog.String("component", "hub")),
	}
}

// Join adds a connection to a room's broadcast group
func (h *Hub) Join(code model.RoomCode, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[model.ConnectionID]Sender)
	}
	h.rooms[code][s.ID()] = s
}

// Leave removes a connection from a room's broadcast group. Leaving a
// room the connection is not in is a no-op.
func (h *Hub) Leave(code model.RoomCode, id model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[code]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.rooms, code)
	}
}

// CloseRoom removes a whole room's broadcast group
func (h *Hub) CloseRoom(code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, code)
}

// Broadcast sends the payload to every connection currently bound to
// the room
func (h *Hub) Broadcast(code model.RoomCode, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[code]
	if !ok {
		return
	}

	dropped := 0
	for _, s := range members {
		if !s.Send(payload) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("broadcast partial failure",
			slog.String("room", string(code)),
			slog.Int("sent", len(members)-dropped),
			slog.Int("dropped", dropped))
	}
}

// RoomSize returns the number of connections bound to a room
func (h *Hub) RoomSize(code model.RoomCode) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}
