package session

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizparty/quizparty/internal/dependencies/mocks"
	"github.com/quizparty/quizparty/internal/dependencies/random"
	"github.com/quizparty/quizparty/internal/model"
	"github.com/quizparty/quizparty/internal/storage/memory"
	"github.com/quizparty/quizparty/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// createSession is a helper that creates a session with a fixed code
func (s *ControllerSuite) createSession(code string, host model.ConnectionID) *model.Session {
	s.random.QueueIntn(mustCodeOffset(code))
	sess, err := s.controller.CreateSession(s.ctx, host)
	s.Require().NoError(err)
	s.Require().Equal(model.RoomCode(code), sess.Code)
	return sess
}

// mustCodeOffset maps a 6-digit code to the Intn result producing it
func mustCodeOffset(code string) int {
	n := 0
	for _, r := range code {
		n = n*10 + int(r-'0')
	}
	return n - codeMin
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSessionSucceeds() {
	s.random.QueueIntn(23456)

	sess, err := s.controller.CreateSession(s.ctx, "host-conn")
	s.Require().NoError(err)

	s.Equal(model.RoomCode("123456"), sess.Code)
	s.Equal(model.ConnectionID("host-conn"), sess.HostConnectionID)
	s.Equal(model.PhaseLobby, sess.Phase)
	s.Empty(sess.Players)
	s.Equal(s.clock.Now(), sess.CreatedAt)
}

func (s *ControllerSuite) TestCreateSessionIsStored() {
	s.random.QueueIntn(23456)

	sess, _ := s.controller.CreateSession(s.ctx, "host-conn")

	stored, err := s.controller.GetSession(s.ctx, sess.Code)
	s.Require().NoError(err)
	s.Equal(sess.Code, stored.Code)
}

func (s *ControllerSuite) TestCreateSessionRetriesOnCodeCollision() {
	s.createSession("123456", "host-1")

	// Second creation draws the same code first, then a fresh one
	s.random.QueueIntn(23456, 54321)
	sess, err := s.controller.CreateSession(s.ctx, "host-2")
	s.Require().NoError(err)

	s.Equal(model.RoomCode("154321"), sess.Code)
}

func (s *ControllerSuite) TestCodeIsReusableAfterDestroy() {
	s.createSession("123456", "host-1")
	s.Require().NoError(s.controller.DestroySession(s.ctx, "123456"))

	sess := s.createSession("123456", "host-2")
	s.Equal(model.ConnectionID("host-2"), sess.HostConnectionID)
}

func (s *ControllerSuite) TestGeneratedCodesAreSixDigitsAndDistinct() {
	// Use the real generator to exercise the full range
	controller := NewController(s.storage, s.clock, random.New(), testutil.NopLogger())

	codePattern := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	seen := make(map[model.RoomCode]bool)
	for i := 0; i < 50; i++ {
		sess, err := controller.CreateSession(s.ctx, model.ConnectionID("host"))
		s.Require().NoError(err)
		s.Regexp(codePattern, string(sess.Code))
		s.False(seen[sess.Code], "code %s generated twice while still active", sess.Code)
		seen[sess.Code] = true
	}
}

// JoinSession tests

func (s *ControllerSuite) TestJoinSessionAppendsInJoinOrder() {
	s.createSession("123456", "host-conn")

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.controller.JoinSession(s.ctx, "123456", model.ConnectionID("conn-"+name), name)
		s.Require().NoError(err)
	}

	sess, _ := s.controller.GetSession(s.ctx, "123456")
	s.Require().Len(sess.Players, 3)
	s.Equal("alice", sess.Players[0].Name)
	s.Equal("bob", sess.Players[1].Name)
	s.Equal("carol", sess.Players[2].Name)
	for _, p := range sess.Players {
		s.Equal(0, p.Score)
	}
}

func (s *ControllerSuite) TestJoinSessionUnknownCodeFails() {
	_, err := s.controller.JoinSession(s.ctx, "999999", "conn-1", "alice")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestJoinSessionDuplicateNameFails() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, "123456", "conn-2", "alice")
	s.ErrorIs(err, model.ErrNameTaken)

	// The failed join must not mutate the member list
	sess, _ := s.controller.GetSession(s.ctx, "123456")
	s.Len(sess.Players, 1)
}

func (s *ControllerSuite) TestJoinSessionNameMatchIsCaseSensitive() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, "123456", "conn-2", "Alice")
	s.NoError(err)
}

func (s *ControllerSuite) TestJoinSessionAfterStartFails() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, "123456", "conn-2", "bob")
	s.ErrorIs(err, model.ErrGameAlreadyStarted)
}

func (s *ControllerSuite) TestJoinSessionAfterEndFails() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)
	_, err = s.controller.EndGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, "123456", "conn-2", "bob")
	s.ErrorIs(err, model.ErrGameAlreadyStarted)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameSucceeds() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	sess, err := s.controller.StartGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)
	s.Equal(model.PhaseActive, sess.Phase)
}

func (s *ControllerSuite) TestStartGameRequiresHost() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, "123456", "conn-1")
	s.ErrorIs(err, model.ErrNotAuthorized)

	sess, _ := s.controller.GetSession(s.ctx, "123456")
	s.Equal(model.PhaseLobby, sess.Phase)
}

func (s *ControllerSuite) TestStartGameWithNoPlayersFails() {
	s.createSession("123456", "host-conn")

	_, err := s.controller.StartGame(s.ctx, "123456", "host-conn")
	s.ErrorIs(err, model.ErrNoPlayers)

	sess, _ := s.controller.GetSession(s.ctx, "123456")
	s.Equal(model.PhaseLobby, sess.Phase)
}

// SubmitAnswer tests

func (s *ControllerSuite) TestSubmitAnswerAccumulatesScore() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	player, err := s.controller.SubmitAnswer(s.ctx, "123456", "conn-1", 0, 100)
	s.Require().NoError(err)
	s.Equal(100, player.Score)

	player, err = s.controller.SubmitAnswer(s.ctx, "123456", "conn-1", 1, 50)
	s.Require().NoError(err)
	s.Equal(150, player.Score)
}

func (s *ControllerSuite) TestSubmitAnswerNegativePointsAccepted() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	player, err := s.controller.SubmitAnswer(s.ctx, "123456", "conn-1", 0, -30)
	s.Require().NoError(err)
	s.Equal(-30, player.Score)
}

func (s *ControllerSuite) TestSubmitAnswerFromNonMemberFails() {
	s.createSession("123456", "host-conn")

	_, err := s.controller.SubmitAnswer(s.ctx, "123456", "stranger", 0, 100)
	s.ErrorIs(err, model.ErrNotAMember)
}

func (s *ControllerSuite) TestSubmitAnswerUnknownRoomFails() {
	_, err := s.controller.SubmitAnswer(s.ctx, "999999", "conn-1", 0, 100)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// EndGame tests

func (s *ControllerSuite) TestEndGameLeaderboardSortedByScore() {
	s.createSession("123456", "host-conn")
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.controller.JoinSession(s.ctx, "123456", model.ConnectionID("conn-"+name), name)
		s.Require().NoError(err)
	}
	_, err := s.controller.SubmitAnswer(s.ctx, "123456", "conn-bob", 0, 200)
	s.Require().NoError(err)
	_, err = s.controller.SubmitAnswer(s.ctx, "123456", "conn-alice", 0, 100)
	s.Require().NoError(err)

	leaderboard, err := s.controller.EndGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)

	s.Require().Len(leaderboard, 3)
	s.Equal("bob", leaderboard[0].Name)
	s.Equal("alice", leaderboard[1].Name)
	s.Equal("carol", leaderboard[2].Name)
}

func (s *ControllerSuite) TestEndGameTiesKeepJoinOrder() {
	s.createSession("123456", "host-conn")
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.controller.JoinSession(s.ctx, "123456", model.ConnectionID("conn-"+name), name)
		s.Require().NoError(err)
	}
	_, err := s.controller.SubmitAnswer(s.ctx, "123456", "conn-alice", 0, 10)
	s.Require().NoError(err)
	_, err = s.controller.SubmitAnswer(s.ctx, "123456", "conn-bob", 0, 10)
	s.Require().NoError(err)
	_, err = s.controller.SubmitAnswer(s.ctx, "123456", "conn-carol", 0, 5)
	s.Require().NoError(err)

	leaderboard, err := s.controller.EndGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)

	s.Equal("alice", leaderboard[0].Name)
	s.Equal("bob", leaderboard[1].Name)
	s.Equal("carol", leaderboard[2].Name)
}

func (s *ControllerSuite) TestEndGameRequiresHost() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.controller.EndGame(s.ctx, "123456", "conn-1")
	s.ErrorIs(err, model.ErrNotAuthorized)
}

func (s *ControllerSuite) TestEndGameLeavesSessionInStore() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.controller.EndGame(s.ctx, "123456", "host-conn")
	s.Require().NoError(err)

	sess, err := s.controller.GetSession(s.ctx, "123456")
	s.Require().NoError(err)
	s.Equal(model.PhaseEnded, sess.Phase)

	// The ended phase is advisory: late submissions still land
	player, err := s.controller.SubmitAnswer(s.ctx, "123456", "conn-1", 5, 25)
	s.Require().NoError(err)
	s.Equal(25, player.Score)
}

// LeaveSession / DestroySession tests

func (s *ControllerSuite) TestLeaveSessionRemovesOnlyThatPlayer() {
	s.createSession("123456", "host-conn")
	for _, name := range []string{"alice", "bob"} {
		_, err := s.controller.JoinSession(s.ctx, "123456", model.ConnectionID("conn-"+name), name)
		s.Require().NoError(err)
	}
	_, err := s.controller.SubmitAnswer(s.ctx, "123456", "conn-bob", 0, 40)
	s.Require().NoError(err)

	sess, err := s.controller.LeaveSession(s.ctx, "123456", "conn-alice")
	s.Require().NoError(err)

	s.Require().Len(sess.Players, 1)
	s.Equal("bob", sess.Players[0].Name)
	s.Equal(40, sess.Players[0].Score)
	s.Equal(model.ConnectionID("host-conn"), sess.HostConnectionID)
}

func (s *ControllerSuite) TestLeaveSessionUnknownConnectionFails() {
	s.createSession("123456", "host-conn")

	_, err := s.controller.LeaveSession(s.ctx, "123456", "stranger")
	s.ErrorIs(err, model.ErrNotAMember)
}

func (s *ControllerSuite) TestDestroySessionRemovesRoom() {
	s.createSession("123456", "host-conn")
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.DestroySession(s.ctx, "123456"))

	_, err = s.controller.GetSession(s.ctx, "123456")
	s.ErrorIs(err, model.ErrRoomNotFound)

	// Joining the destroyed room fails like any unknown code
	_, err = s.controller.JoinSession(s.ctx, "123456", "conn-2", "bob")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// ListSessions tests

func (s *ControllerSuite) TestListSessionsEmptyStore() {
	codes, err := s.controller.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Empty(codes)
}

func (s *ControllerSuite) TestListSessionsSortedByCode() {
	s.createSession("654321", "host-1")
	s.createSession("123456", "host-2")
	s.createSession("333333", "host-3")

	codes, err := s.controller.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.RoomCode{"123456", "333333", "654321"}, codes)
}

func (s *ControllerSuite) TestListSessionsExcludesDestroyed() {
	s.createSession("123456", "host-1")
	s.createSession("654321", "host-2")
	s.Require().NoError(s.controller.DestroySession(s.ctx, "123456"))

	codes, err := s.controller.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.RoomCode{"654321"}, codes)
}

// Timestamp tests

func (s *ControllerSuite) TestTransitionsTouchUpdatedAt() {
	sess := s.createSession("123456", "host-conn")
	created := sess.CreatedAt

	s.clock.Advance(5 * time.Minute)
	_, err := s.controller.JoinSession(s.ctx, "123456", "conn-1", "alice")
	s.Require().NoError(err)

	stored, err := s.controller.GetSession(s.ctx, "123456")
	s.Require().NoError(err)
	s.Equal(created, stored.CreatedAt)
	s.Equal(created.Add(5*time.Minute), stored.UpdatedAt)

	s.clock.Advance(time.Minute)
	_, err = s.controller.SubmitAnswer(s.ctx, "123456", "conn-1", 0, 10)
	s.Require().NoError(err)

	stored, err = s.controller.GetSession(s.ctx, "123456")
	s.Require().NoError(err)
	s.Equal(created.Add(6*time.Minute), stored.UpdatedAt)
}
