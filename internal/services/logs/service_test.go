package logs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/dependencies/mocks"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/testutil"
)

const (
	killer = "76561198000000001"
	victim = "76561198000000002"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	t0      time.Time
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.t0 = time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	s.storage = memory.New()
	s.service = New(s.storage, mocks.NewMockClock(s.t0), testutil.NopLogger())
}

func (s *ServiceSuite) kill(offset time.Duration, weapon string) Entry {
	return Entry{
		EventTime:      s.t0.Add(offset),
		Type:           "kill",
		Player1Name:    "Able",
		Player1SteamID: killer,
		Player2Name:    "Baker",
		Player2SteamID: victim,
		Raw:            "KILL: Able(Allies/" + killer + ") -> Baker(Axis/" + victim + ") with " + weapon,
		Server:         "1",
	}
}

func (s *ServiceSuite) TestIngestCreatesIdentities() {
	line, err := s.service.Ingest(s.ctx, s.kill(0, "M1 GARAND"))
	s.Require().NoError(err)
	s.Equal(CurrentVersion, line.Version)
	s.Equal("KILL", line.Type)
	s.Require().NotNil(line.Player1ID)
	s.Require().NotNil(line.Player2ID)

	p, err := s.storage.GetPlayerBySteamID(s.ctx, victim)
	s.Require().NoError(err)
	s.Equal(p.ID, *line.Player2ID)
}

func (s *ServiceSuite) TestIngestDuplicate() {
	_, err := s.service.Ingest(s.ctx, s.kill(0, "M1 GARAND"))
	s.Require().NoError(err)
	_, err = s.service.Ingest(s.ctx, s.kill(0, "M1 GARAND"))
	s.ErrorIs(err, model.ErrDuplicateLogLine)
}

func (s *ServiceSuite) TestIngestWithoutPlayers() {
	line, err := s.service.Ingest(s.ctx, Entry{
		EventTime: s.t0,
		Type:      "MATCH START",
		Raw:       "MATCH START FOY WARFARE",
	})
	s.Require().NoError(err)
	s.Nil(line.Player1ID)
	s.Nil(line.Player2ID)
}

func (s *ServiceSuite) TestIngestRejectsEmptyRaw() {
	_, err := s.service.Ingest(s.ctx, Entry{EventTime: s.t0})
	s.Error(err)
}

func (s *ServiceSuite) TestQueryCompatibleProjection() {
	_, err := s.service.Ingest(s.ctx, s.kill(0, "M1 GARAND"))
	s.Require().NoError(err)
	_, err = s.service.Ingest(s.ctx, Entry{
		EventTime:      s.t0.Add(time.Minute),
		Type:           "CHAT[Allies]",
		Player1Name:    "Able",
		Player1SteamID: killer,
		Raw:            "CHAT[Allies][Able(" + killer + ")]: gg",
		Content:        "gg",
	})
	s.Require().NoError(err)

	lines, err := s.service.Query(s.ctx, Query{SteamID: killer})
	s.Require().NoError(err)
	s.Require().Len(lines, 2)

	chat := lines[0]
	s.Equal("gg", chat.Message)
	s.Empty(chat.Weapon)
	s.Nil(chat.SteamID2)

	kill := lines[1]
	s.Equal("M1 GARAND", kill.Weapon)
	s.Equal(s.t0.UnixMilli(), kill.TimestampMS)
	s.Require().NotNil(kill.SteamID1)
	s.Equal(killer, *kill.SteamID1)
	s.Require().NotNil(kill.SteamID2)
	s.Equal(victim, *kill.SteamID2)
}

func (s *ServiceSuite) TestQueryFilters() {
	_, err := s.service.Ingest(s.ctx, s.kill(0, "M1 GARAND"))
	s.Require().NoError(err)
	_, err = s.service.Ingest(s.ctx, s.kill(time.Minute, "KAR98K"))
	s.Require().NoError(err)

	lines, err := s.service.Query(s.ctx, Query{Type: "kill", Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal("KAR98K", lines[0].Weapon)

	lines, err = s.service.Query(s.ctx, Query{Since: s.t0.Add(30 * time.Second)})
	s.Require().NoError(err)
	s.Len(lines, 1)

	_, err = s.service.Query(s.ctx, Query{SteamID: "76561198999999999"})
	s.ErrorIs(err, model.ErrUnknownIdentity)
}

func (s *ServiceSuite) TestQueryAfterIdentityDeleted() {
	line, err := s.service.Ingest(s.ctx, s.kill(0, "M1 GARAND"))
	s.Require().NoError(err)
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, *line.Player2ID))

	lines, err := s.service.Query(s.ctx, Query{})
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Nil(lines[0].Player2ID)
	s.Nil(lines[0].SteamID2)
	s.Require().NotNil(lines[0].SteamID1)
}
