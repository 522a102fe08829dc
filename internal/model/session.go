package model

import (
	"sort"
	"time"
)

// RoomCode is the 6-digit identifier players use to join a session
type RoomCode string

// ConnectionID uniquely identifies a live transport connection.
// It is only meaningful while the connection is open; session state
// referring to a closed connection must be pruned on disconnect.
type ConnectionID string

// Phase represents where a session is in its lifecycle
type Phase string

const (
	PhaseLobby  Phase = "lobby"  // accepting joins
	PhaseActive Phase = "active" // game running, joins rejected
	PhaseEnded  Phase = "ended"  // leaderboard shown; advisory, not enforced
)

// Role distinguishes the session creator from joined players
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// Player is one joined participant in a session
type Player struct {
	ConnectionID ConnectionID
	Name         string
	Score        int
}

// Session is one game instance: a host, joined players, and a phase.
// Players are kept in join order.
type Session struct {
	Code             RoomCode
	HostConnectionID ConnectionID
	Players          []Player
	Phase            Phase
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FindPlayer returns the player owned by the given connection, or nil
func (s *Session) FindPlayer(id ConnectionID) *Player {
	for i := range s.Players {
		if s.Players[i].ConnectionID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// HasName reports whether any player already uses the given display
// name (exact, case-sensitive match)
func (s *Session) HasName(name string) bool {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return true
		}
	}
	return false
}

// RemovePlayer removes the player owned by the given connection and
// reports whether a player was removed. Join order of the remaining
// players is preserved.
func (s *Session) RemovePlayer(id ConnectionID) bool {
	for i := range s.Players {
		if s.Players[i].ConnectionID == id {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return true
		}
	}
	return false
}

// Leaderboard returns the players sorted by score descending. The
// sort is stable so equal scores keep their join order.
func (s *Session) Leaderboard() []Player {
	board := make([]Player, len(s.Players))
	copy(board, s.Players)
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	return board
}
