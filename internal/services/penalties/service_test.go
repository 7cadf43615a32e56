package penalties

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/dependencies/mocks"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	publisher *mocks.MockPublisher
	service   *Service
	player    *model.Player
	t0        time.Time
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.storage = memory.New()
	s.publisher = mocks.NewMockPublisher()
	s.service = New(s.storage, s.publisher, mocks.NewMockIDs(), testutil.NopLogger())

	var err error
	s.player, err = s.storage.GetOrCreatePlayer(s.ctx, "76561198000000001", s.t0)
	s.Require().NoError(err)
}

func (s *ServiceSuite) record(category string, offset time.Duration) {
	_, err := s.service.RecordAction(s.ctx, s.player, category, "reason", "admin", s.t0.Add(offset))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestPenaltyCountsWithNoActions() {
	counts, err := s.service.PenaltyCounts(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(map[model.ActionType]int{
		model.ActionKick:     0,
		model.ActionPunish:   0,
		model.ActionTempBan:  0,
		model.ActionPermaBan: 0,
	}, counts)
}

func (s *ServiceSuite) TestPenaltyCountsScenario() {
	s.record("PERMABAN", 0)
	s.record("PERMABAN", time.Minute)
	s.record("PERMABAN", 2*time.Minute)
	s.record("KICK", 3*time.Minute)

	counts, err := s.service.PenaltyCounts(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(map[model.ActionType]int{
		model.ActionKick:     1,
		model.ActionPunish:   0,
		model.ActionTempBan:  0,
		model.ActionPermaBan: 3,
	}, counts)
}

func (s *ServiceSuite) TestOtherCategoriesListedButNotCounted() {
	s.record("message", 0)
	s.record("KICK", time.Minute)

	counts, err := s.service.PenaltyCounts(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(1, counts[model.ActionKick])
	s.Len(counts, 4)

	var types []model.ActionType
	for a, err := range s.service.All(s.ctx, s.player.ID) {
		s.Require().NoError(err)
		types = append(types, a.Type)
	}
	s.Equal([]model.ActionType{model.ActionKick, model.ActionMessage}, types)
}

func (s *ServiceSuite) TestRecordActionNeverMerges() {
	s.record("KICK", 0)
	s.record("KICK", 0)

	actions, err := s.service.List(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Len(actions, 2)
	s.NotEqual(actions[0].ID, actions[1].ID)
}

func (s *ServiceSuite) TestRecordActionRejectsEmptyCategory() {
	_, err := s.service.RecordAction(s.ctx, s.player, " ", "", "admin", s.t0)
	s.ErrorIs(err, model.ErrInvalidActionType)
}

func (s *ServiceSuite) TestRecordActionPublishesEvent() {
	s.record("tempban", 0)

	evts := s.publisher.Events()
	s.Require().Len(evts, 1)
	s.Equal(events.TypeActionRecorded, evts[0].Type)
	s.Equal("admin", evts[0].Actor)
	s.Equal(model.ActionTempBan, evts[0].Data["action_type"])
	s.Equal("id-1", evts[0].ID)
}

func (s *ServiceSuite) TestRecordActionUnknownIdentity() {
	_, err := s.service.RecordAction(s.ctx, &model.Player{ID: 404}, "KICK", "", "admin", s.t0)
	s.ErrorIs(err, model.ErrUnknownIdentity)
	s.Empty(s.publisher.Events())
}
