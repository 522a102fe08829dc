package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/quizparty/quizparty/internal/model"
	"github.com/quizparty/quizparty/internal/services/session"
)

// Broadcast message texts
const (
	gameStartedMessage      = "The game has started!"
	hostDisconnectedMessage = "The host has disconnected, so the game is over!"
)

// routerMsg is the set of messages the dispatch loop consumes
type routerMsg interface{ isRouterMsg() }

type connected struct{ sender Sender }

type disconnected struct{ id model.ConnectionID }

type inbound struct {
	id  model.ConnectionID
	env Envelope
}

type snapshotReq struct {
	code  model.RoomCode
	reply chan *model.Session
}

type listReq struct {
	reply chan []model.RoomCode
}

type shutdown struct{}

func (connected) isRouterMsg()    {}
func (disconnected) isRouterMsg() {}
func (inbound) isRouterMsg()      {}
func (snapshotReq) isRouterMsg()  {}
func (listReq) isRouterMsg()      {}
func (shutdown) isRouterMsg()     {}

// binding is the per-connection state the router keeps: which room
// the connection is in and in what role. It is the only thing
// consulted to resolve an inbound event, so dispatch stays O(1).
type binding struct {
	sender      Sender
	roomCode    model.RoomCode
	role        model.Role
	displayName string
}

// Router owns all per-connection bindings and serializes every
// session transition onto a single dispatch goroutine. Transport
// goroutines only ever post to the inbox, so no two transitions can
// interleave and no locks are needed around session state.
type Router struct {
	inbox      chan routerMsg
	bindings   map[model.ConnectionID]*binding
	controller *session.Controller
	hub        *Hub
	logger     *slog.Logger
}

// NewRouter creates a Router. Call Run to start dispatching.
func NewRouter(controller *session.Controller, hub *Hub, logger *slog.Logger) *Router {
	return &Router{
		inbox:      make(chan routerMsg, 256),
		bindings:   make(map[model.ConnectionID]*binding),
		controller: controller,
		hub:        hub,
		logger:     logger.With(slog.String("component", "router")),
	}
}

// Connected registers a new connection with an empty binding
func (r *Router) Connected(s Sender) {
	r.inbox <- connected{sender: s}
}

// Disconnected tells the router a connection is gone
func (r *Router) Disconnected(id model.ConnectionID) {
	r.inbox <- disconnected{id: id}
}

// Inbound posts a decoded client event for dispatch
func (r *Router) Inbound(id model.ConnectionID, env Envelope) {
	r.inbox <- inbound{id: id, env: env}
}

// Snapshot returns a copy of a session's current state, read on the
// dispatch goroutine so it never observes a half-applied transition.
func (r *Router) Snapshot(ctx context.Context, code model.RoomCode) (*model.Session, error) {
	reply := make(chan *model.Session, 1)
	select {
	case r.inbox <- snapshotReq{code: code, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case snap := <-reply:
		if snap == nil {
			return nil, model.ErrRoomNotFound
		}
		return snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ListRooms returns the codes of all live rooms, read on the dispatch
// goroutine like Snapshot.
func (r *Router) ListRooms(ctx context.Context) ([]model.RoomCode, error) {
	reply := make(chan []model.RoomCode, 1)
	select {
	case r.inbox <- listReq{reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case codes := <-reply:
		return codes, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run processes messages one at a time to completion until the
// context is cancelled. Every mutation of session or binding state
// happens here.
func (r *Router) Run(ctx context.Context) {
	r.logger.Info("router started")
	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case connected:
				r.bindings[msg.sender.ID()] = &binding{sender: msg.sender}
				r.logger.Info("connection opened", slog.String("conn", string(msg.sender.ID())))

			case disconnected:
				r.handleDisconnect(ctx, msg.id)

			case inbound:
				r.dispatch(ctx, msg.id, msg.env)

			case snapshotReq:
				msg.reply <- r.snapshot(ctx, msg.code)

			case listReq:
				msg.reply <- r.listRooms(ctx)

			case shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// Shutdown stops the dispatch loop and closes all connections
func (r *Router) Shutdown() {
	r.inbox <- shutdown{}
}

func (r *Router) shutdown() {
	for id, b := range r.bindings {
		b.sender.CloseSend()
		delete(r.bindings, id)
	}
	r.logger.Info("router stopped")
}

func (r *Router) dispatch(ctx context.Context, id model.ConnectionID, env Envelope) {
	b, ok := r.bindings[id]
	if !ok {
		// Disconnect already processed; late event from a dead pump.
		return
	}

	switch env.Event {
	case model.EventCreateGame:
		r.handleCreateGame(ctx, b)
	case model.EventJoinGame:
		r.handleJoinGame(ctx, b, env.Data)
	case model.EventStartGame:
		r.handleStartGame(ctx, b)
	case model.EventSubmitAnswer:
		r.handleSubmitAnswer(ctx, b, env.Data)
	case model.EventEndGame:
		r.handleEndGame(ctx, b)
	default:
		r.unicastError(b, "unknown event")
	}
}

func (r *Router) handleCreateGame(ctx context.Context, b *binding) {
	sess, err := r.controller.CreateSession(ctx, b.sender.ID())
	if err != nil {
		r.unicastError(b, err.Error())
		return
	}

	// A connection holds at most one session/role at a time.
	if b.roomCode != "" {
		r.hub.Leave(b.roomCode, b.sender.ID())
	}

	b.roomCode = sess.Code
	b.role = model.RoleHost
	b.displayName = ""
	r.hub.Join(sess.Code, b.sender)

	r.unicast(b, model.EventGameCreated, model.GameCreatedPayload{RoomCode: string(sess.Code)})
}

func (r *Router) handleJoinGame(ctx context.Context, b *binding, data json.RawMessage) {
	var payload model.JoinGamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.unicastError(b, "malformed joinGame payload")
		return
	}

	code := model.RoomCode(payload.RoomCode)
	sess, err := r.controller.JoinSession(ctx, code, b.sender.ID(), payload.PlayerName)
	if err != nil {
		r.unicastError(b, err.Error())
		return
	}

	if b.roomCode != "" {
		r.hub.Leave(b.roomCode, b.sender.ID())
	}

	b.roomCode = code
	b.role = model.RolePlayer
	b.displayName = payload.PlayerName
	r.hub.Join(code, b.sender)

	r.broadcast(code, model.EventPlayerList, model.PlayerListPayload{
		Players: model.PlayerInfosFromModel(sess.Players),
		Count:   len(sess.Players),
	})
	r.unicast(b, model.EventJoinedGame, model.JoinedGamePayload{
		RoomCode:   string(code),
		PlayerName: payload.PlayerName,
	})
}

func (r *Router) handleStartGame(ctx context.Context, b *binding) {
	if b.roomCode == "" {
		r.unicastError(b, model.ErrNotAuthorized.Error())
		return
	}

	sess, err := r.controller.StartGame(ctx, b.roomCode, b.sender.ID())
	if err != nil {
		r.unicastError(b, err.Error())
		return
	}

	r.broadcast(b.roomCode, model.EventGameStarted, model.GameStartedPayload{
		Message: gameStartedMessage,
		Players: model.PlayerInfosFromModel(sess.Players),
	})
}

func (r *Router) handleSubmitAnswer(ctx context.Context, b *binding, data json.RawMessage) {
	// Stale and unbound submissions are tolerated silently.
	if b.roomCode == "" {
		return
	}

	var payload model.SubmitAnswerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	player, err := r.controller.SubmitAnswer(ctx, b.roomCode, b.sender.ID(), payload.QuestionIndex, payload.Points)
	if err != nil {
		return
	}

	r.broadcast(b.roomCode, model.EventScoreUpdated, model.ScoreUpdatedPayload{
		PlayerID:   string(player.ConnectionID),
		PlayerName: player.Name,
		Score:      player.Score,
	})
}

func (r *Router) handleEndGame(ctx context.Context, b *binding) {
	// Non-host and stale calls are silent no-ops.
	if b.roomCode == "" {
		return
	}

	leaderboard, err := r.controller.EndGame(ctx, b.roomCode, b.sender.ID())
	if err != nil {
		return
	}

	r.broadcast(b.roomCode, model.EventGameEnded, model.GameEndedPayload{
		Leaderboard: model.PlayerInfosFromModel(leaderboard),
	})
}

func (r *Router) handleDisconnect(ctx context.Context, id model.ConnectionID) {
	b, ok := r.bindings[id]
	if !ok {
		return
	}
	delete(r.bindings, id)
	defer b.sender.CloseSend()

	r.logger.Info("connection closed", slog.String("conn", string(id)))

	if b.roomCode == "" {
		return
	}
	r.hub.Leave(b.roomCode, id)

	switch b.role {
	case model.RoleHost:
		// A session never survives host loss: tell the remaining
		// members and destroy the room.
		r.broadcast(b.roomCode, model.EventHostDisconnected, model.HostDisconnectedPayload{
			Message: hostDisconnectedMessage,
		})
		if err := r.controller.DestroySession(ctx, b.roomCode); err != nil {
			r.logger.Error("failed to destroy session",
				slog.String("room", string(b.roomCode)),
				slog.String("error", err.Error()))
		}
		r.hub.CloseRoom(b.roomCode)

	case model.RolePlayer:
		sess, err := r.controller.LeaveSession(ctx, b.roomCode, id)
		if err != nil {
			// Room already destroyed, or the player was never a
			// member; nothing to announce.
			return
		}
		r.broadcast(b.roomCode, model.EventPlayerList, model.PlayerListPayload{
			Players: model.PlayerInfosFromModel(sess.Players),
			Count:   len(sess.Players),
		})
	}
}

func (r *Router) snapshot(ctx context.Context, code model.RoomCode) *model.Session {
	sess, err := r.controller.GetSession(ctx, code)
	if err != nil {
		return nil
	}
	snap := *sess
	snap.Players = make([]model.Player, len(sess.Players))
	copy(snap.Players, sess.Players)
	return &snap
}

func (r *Router) listRooms(ctx context.Context) []model.RoomCode {
	codes, err := r.controller.ListSessions(ctx)
	if err != nil {
		r.logger.Error("failed to list sessions", slog.String("error", err.Error()))
		return nil
	}
	return codes
}

func (r *Router) unicast(b *binding, event model.EventType, payload any) {
	msg, err := Encode(event, payload)
	if err != nil {
		r.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}
	b.sender.Send(msg)
}

func (r *Router) unicastError(b *binding, message string) {
	r.unicast(b, model.EventError, model.ErrorPayload{Message: message})
}

func (r *Router) broadcast(code model.RoomCode, event model.EventType, payload any) {
	msg, err := Encode(event, payload)
	if err != nil {
		r.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}
	r.hub.Broadcast(code, msg)
}
