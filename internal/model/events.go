package model

// EventType identifies a named event on the wire
type EventType string

// Client -> server events
const (
	EventCreateGame   EventType = "createGame"
	EventJoinGame     EventType = "joinGame"
	EventStartGame    EventType = "startGame"
	EventSubmitAnswer EventType = "submitAnswer"
	EventEndGame      EventType = "endGame"
)

// Server -> client events
const (
	EventGameCreated      EventType = "gameCreated"
	EventJoinedGame       EventType = "joinedGame"
	EventPlayerList       EventType = "playerList"
	EventGameStarted      EventType = "gameStarted"
	EventScoreUpdated     EventType = "scoreUpdated"
	EventGameEnded        EventType = "gameEnded"
	EventHostDisconnected EventType = "hostDisconnected"
	EventError            EventType = "error"
)

// PlayerInfo is the wire representation of a player
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayerInfoFromModel converts a Player to its wire form
func PlayerInfoFromModel(p Player) PlayerInfo {
	return PlayerInfo{
		ID:    string(p.ConnectionID),
		Name:  p.Name,
		Score: p.Score,
	}
}

// PlayerInfosFromModel converts a player slice to wire form,
// preserving order
func PlayerInfosFromModel(players []Player) []PlayerInfo {
	infos := make([]PlayerInfo, len(players))
	for i, p := range players {
		infos[i] = PlayerInfoFromModel(p)
	}
	return infos
}

// JoinGamePayload is the body of a joinGame event
type JoinGamePayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// SubmitAnswerPayload is the body of a submitAnswer event. Points are
// applied as submitted; the server does not validate them against the
// question index.
type SubmitAnswerPayload struct {
	QuestionIndex int `json:"questionIndex"`
	Points        int `json:"points"`
}

// GameCreatedPayload confirms room creation to the host
type GameCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

// JoinedGamePayload confirms a successful join to the joining player
type JoinedGamePayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// PlayerListPayload carries the full member list after a change
type PlayerListPayload struct {
	Players []PlayerInfo `json:"players"`
	Count   int          `json:"count"`
}

// GameStartedPayload announces the game start to the whole room
type GameStartedPayload struct {
	Message string       `json:"message"`
	Players []PlayerInfo `json:"players"`
}

// ScoreUpdatedPayload announces one player's new total to the room
type ScoreUpdatedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// GameEndedPayload carries the final leaderboard, best score first
type GameEndedPayload struct {
	Leaderboard []PlayerInfo `json:"leaderboard"`
}

// HostDisconnectedPayload tells remaining players the session is gone
type HostDisconnectedPayload struct {
	Message string `json:"message"`
}

// ErrorPayload reports a rejected transition to the caller only
type ErrorPayload struct {
	Message string `json:"message"`
}
