package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/logs"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

// Test: a player connects, plays, is kicked, and shows up in the snapshot
func (s *IntegrationSuite) TestPlayerLifecycle() {
	t0 := s.app.MockClock.Now()

	player, err := s.app.PlayerService.GetOrCreate(s.ctx, "76561198000000042")
	s.Require().NoError(err)

	s.Require().NoError(s.app.NameService.RecordObservation(s.ctx, player, "Rookie", t0))
	_, err = s.app.SessionService.RecordStart(s.ctx, player, t0)
	s.Require().NoError(err)

	s.app.MockClock.Advance(30 * time.Minute)
	s.Require().NoError(s.app.NameService.RecordObservation(s.ctx, player, "Veteran", s.app.MockClock.Now()))
	_, err = s.app.PenaltyService.RecordAction(s.ctx, player, "KICK", "teamkilling", TestOperator, s.app.MockClock.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.app.SessionService.RecordEnd(s.ctx, player, s.app.MockClock.Now()))

	snap, err := s.app.PlayerService.Snapshot(s.ctx, player, s.app.SessionLimit)
	s.Require().NoError(err)
	s.Equal(1, snap.SessionsCount)
	s.Equal(int64(1800), snap.TotalPlaytimeSeconds)
	s.Equal(int64(0), snap.CurrentPlaytimeSeconds)
	s.Equal(1, snap.PenaltyCount[model.ActionKick])
	s.Require().Len(snap.Names, 2)
	s.Equal("Veteran", snap.Names[0].Name)

	s.Equal([]events.Type{
		events.TypePlayerCreated,
		events.TypeSessionStarted,
		events.TypeActionRecorded,
		events.TypeSessionEnded,
	}, s.app.MockPublisher.Types())
}

// Test: ingested log lines keep their text after the player is deleted
func (s *IntegrationSuite) TestLogLinesSurvivePlayerDeletion() {
	line, err := s.app.LogService.Ingest(s.ctx, logs.Entry{
		Version:        logs.CurrentVersion,
		EventTime:      s.app.MockClock.Now(),
		Type:           "chat",
		Player1Name:    "Talker",
		Player1SteamID: "76561198000000043",
		Raw:            "CHAT[Team][Talker(Allies/76561198000000043)]: hello",
		Content:        "hello",
	})
	s.Require().NoError(err)
	s.Require().NotNil(line.Player1ID)

	player, err := s.app.PlayerService.Resolve(s.ctx, "76561198000000043")
	s.Require().NoError(err)
	s.Require().NoError(s.app.PlayerService.Delete(s.ctx, player, TestOperator))

	lines, err := s.app.LogService.Query(s.ctx, logs.Query{})
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Nil(lines[0].Player1ID)
	s.Nil(lines[0].SteamID1)
	s.Equal("CHAT", lines[0].Action)
}

func (s *IntegrationSuite) TestOperatorLogin() {
	token := s.app.Login()
	session, err := s.app.AuthService.ValidateSession(token)
	s.Require().NoError(err)
	s.Equal(TestOperator, session.Operator)
}
