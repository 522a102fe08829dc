package response

import (
	"time"

	"github.com/quizparty/quizparty/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Room represents a session snapshot in API responses
type Room struct {
	Code      string    `json:"code"`
	Phase     string    `json:"phase"`
	Players   []Player  `json:"players"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomIndex lists the codes of all live rooms
type RoomIndex struct {
	Rooms []string `json:"rooms"`
	Count int      `json:"count"`
}

// RoomIndexFromCodes builds a RoomIndex from room codes
func RoomIndexFromCodes(codes []model.RoomCode) RoomIndex {
	rooms := make([]string, len(codes))
	for i, code := range codes {
		rooms[i] = string(code)
	}
	return RoomIndex{Rooms: rooms, Count: len(rooms)}
}

// RoomFromModel converts a model.Session to a response Room
func RoomFromModel(s *model.Session) Room {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = Player{
			ID:    string(p.ConnectionID),
			Name:  p.Name,
			Score: p.Score,
		}
	}
	return Room{
		Code:      string(s.Code),
		Phase:     string(s.Phase),
		Players:   players,
		Count:     len(players),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
