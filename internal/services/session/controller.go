package session

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/quizparty/quizparty/internal/dependencies/clock"
	"github.com/quizparty/quizparty/internal/dependencies/random"
	"github.com/quizparty/quizparty/internal/model"
	"github.com/quizparty/quizparty/internal/storage"
)

const (
	// Room codes are 6-digit numbers drawn from [codeMin, codeMin+codeSpan)
	codeMin  = 100000
	codeSpan = 900000
)

// Controller manages the session state machine: creation, membership,
// phase transitions, scoring and teardown. Callers are expected to
// serialize access (the ws router runs every transition on a single
// dispatch goroutine).
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new session Controller
func NewController(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "session")),
	}
}

// CreateSession allocates a fresh room code and creates a session in
// the lobby phase with the given connection as host.
func (c *Controller) CreateSession(ctx context.Context, host model.ConnectionID) (*model.Session, error) {
	now := c.clock.Now()

	// Generate a code not currently in use. Codes are reusable once a
	// room is destroyed, so no history is kept.
	var code model.RoomCode
	for {
		code = model.RoomCode(strconv.Itoa(codeMin + c.random.Intn(codeSpan)))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		c.logger.Debug("room code collision, regenerating", slog.String("code", string(code)))
	}

	session := &model.Session{
		Code:             code,
		HostConnectionID: host,
		Players:          []model.Player{},
		Phase:            model.PhaseLobby,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("code", string(code)),
		slog.String("host", string(host)))

	return session, nil
}

// GetSession retrieves a session by code
func (c *Controller) GetSession(ctx context.Context, code model.RoomCode) (*model.Session, error) {
	return c.storage.GetSession(ctx, code)
}

// ListSessions returns the codes of all live sessions in ascending
// order
func (c *Controller) ListSessions(ctx context.Context) ([]model.RoomCode, error) {
	codes, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// JoinSession adds a player to a lobby-phase session. The display
// name must be unique within the session (exact match).
func (c *Controller) JoinSession(ctx context.Context, code model.RoomCode, conn model.ConnectionID, name string) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.Phase != model.PhaseLobby {
		return nil, model.ErrGameAlreadyStarted
	}

	if session.HasName(name) {
		return nil, model.ErrNameTaken
	}

	session.Players = append(session.Players, model.Player{
		ConnectionID: conn,
		Name:         name,
		Score:        0,
	})
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("code", string(code)),
		slog.String("name", name))

	return session, nil
}

// StartGame moves a session into the active phase. Only the host may
// start, and at least one player must have joined.
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.HostConnectionID != conn {
		return nil, model.ErrNotAuthorized
	}

	if len(session.Players) == 0 {
		return nil, model.ErrNoPlayers
	}

	session.Phase = model.PhaseActive
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("game started", slog.String("code", string(code)))

	return session, nil
}

// SubmitAnswer applies a score delta to the submitting player and
// returns the updated player. Points are trusted as submitted: no
// bounds check, no validation against the question index, negatives
// allowed. Stale submissions from connections that are no longer
// members return ErrNotAMember; callers treat that as a no-op.
func (c *Controller) SubmitAnswer(ctx context.Context, code model.RoomCode, conn model.ConnectionID, questionIndex, points int) (*model.Player, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	player := session.FindPlayer(conn)
	if player == nil {
		return nil, model.ErrNotAMember
	}

	player.Score += points
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Debug("score updated",
		slog.String("code", string(code)),
		slog.String("name", player.Name),
		slog.Int("question", questionIndex),
		slog.Int("score", player.Score))

	updated := *player
	return &updated, nil
}

// EndGame computes the leaderboard and marks the session ended. The
// ended phase is advisory: the session stays in the store and further
// transitions are still accepted, matching the permissive lifecycle
// where only host disconnect destroys a room. Only the host may end.
func (c *Controller) EndGame(ctx context.Context, code model.RoomCode, conn model.ConnectionID) ([]model.Player, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.HostConnectionID != conn {
		return nil, model.ErrNotAuthorized
	}

	session.Phase = model.PhaseEnded
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("game ended", slog.String("code", string(code)))

	return session.Leaderboard(), nil
}

// LeaveSession removes the player owned by the given connection and
// returns the updated session. Used when a non-host connection drops.
func (c *Controller) LeaveSession(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if !session.RemovePlayer(conn) {
		return nil, model.ErrNotAMember
	}
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("player left", slog.String("code", string(code)))

	return session, nil
}

// DestroySession removes a session entirely. Used when the host
// disconnects: a session never survives host loss.
func (c *Controller) DestroySession(ctx context.Context, code model.RoomCode) error {
	if err := c.storage.DeleteSession(ctx, code); err != nil {
		return err
	}

	c.logger.Info("session destroyed", slog.String("code", string(code)))
	return nil
}
