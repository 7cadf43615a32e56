package names

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	player  *model.Player
	base    time.Time
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())

	var err error
	s.player, err = s.storage.GetOrCreatePlayer(s.ctx, "76561198000000001", s.base)
	s.Require().NoError(err)
}

func (s *ServiceSuite) names() []string {
	var out []string
	for n, err := range s.service.All(s.ctx, s.player.ID) {
		s.Require().NoError(err)
		out = append(out, n.Name)
	}
	return out
}

func (s *ServiceSuite) TestRecordObservationTwiceKeepsOneRecord() {
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Alice", s.base))
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Alice", s.base.Add(time.Hour)))

	names, err := s.service.List(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Require().Len(names, 1)
	s.Equal(s.base.Add(time.Hour), *names[0].LastSeen)
	s.Equal(s.base, names[0].FirstSeen)
}

func (s *ServiceSuite) TestRecordObservationTrimsName() {
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "  Alice ", s.base))
	s.Equal([]string{"Alice"}, s.names())
}

func (s *ServiceSuite) TestRecordObservationRejectsBlankName() {
	err := s.service.RecordObservation(s.ctx, s.player, "   ", s.base)
	s.ErrorIs(err, model.ErrInvalidName)
}

func (s *ServiceSuite) TestRecordObservationUnknownIdentity() {
	ghost := &model.Player{ID: 999, SteamID64: "ghost"}
	err := s.service.RecordObservation(s.ctx, ghost, "Alice", s.base)
	s.ErrorIs(err, model.ErrUnknownIdentity)
}

func (s *ServiceSuite) TestMostRecent() {
	_, ok, err := s.service.MostRecent(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Alice", s.base))
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Bob", s.base.Add(time.Minute)))

	rec, ok, err := s.service.MostRecent(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("Bob", rec.Name)
}

func (s *ServiceSuite) TestAllIsRestartable() {
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Alice", s.base))
	s.Equal([]string{"Alice"}, s.names())

	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Bob", s.base.Add(time.Minute)))
	s.Equal([]string{"Bob", "Alice"}, s.names())
}

func (s *ServiceSuite) TestAllStopsEarly() {
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Alice", s.base))
	s.Require().NoError(s.service.RecordObservation(s.ctx, s.player, "Bob", s.base.Add(time.Minute)))

	count := 0
	for range s.service.All(s.ctx, s.player.ID) {
		count++
		break
	}
	s.Equal(1, count)
}

func (s *ServiceSuite) TestAllReportsUnknownIdentity() {
	for _, err := range s.service.All(s.ctx, 999) {
		s.ErrorIs(err, model.ErrUnknownIdentity)
	}
}
