package maps

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
	publisher *mocks.MockPublisher
	service   *Service
	t0        time.Time
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.t0 = time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	s.publisher = mocks.NewMockPublisher()
	s.service = New(memory.New(), s.publisher, mocks.NewMockIDs(), testutil.NopLogger())
}

func (s *ServiceSuite) TestStartClosesRunningMap() {
	_, err := s.service.Start(s.ctx, 1, "foy_warfare", s.t0)
	s.Require().NoError(err)
	_, err = s.service.Start(s.ctx, 1, "carentan_offensive_us", s.t0.Add(90*time.Minute))
	s.Require().NoError(err)

	maps, err := s.service.List(s.ctx, 1, 0)
	s.Require().NoError(err)
	s.Require().Len(maps, 2)
	s.Equal("carentan_offensive_us", maps[0].MapName)
	s.Nil(maps[0].End)
	s.Require().NotNil(maps[1].End)
	s.True(maps[1].End.Equal(s.t0.Add(90 * time.Minute)))
}

func (s *ServiceSuite) TestServersAreIndependent() {
	_, err := s.service.Start(s.ctx, 1, "foy_warfare", s.t0)
	s.Require().NoError(err)
	_, err = s.service.Start(s.ctx, 2, "hill400_warfare", s.t0)
	s.Require().NoError(err)

	s.Require().NoError(s.service.End(s.ctx, 2, s.t0.Add(time.Hour)))
	s.ErrorIs(s.service.End(s.ctx, 2, s.t0.Add(time.Hour)), model.ErrNoOpenMap)

	one, err := s.service.List(s.ctx, 1, 0)
	s.Require().NoError(err)
	s.Require().Len(one, 1)
	s.Nil(one[0].End)

	all, err := s.service.List(s.ctx, -1, 0)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ServiceSuite) TestStartRejectsBlankName() {
	_, err := s.service.Start(s.ctx, 1, "  ", s.t0)
	s.ErrorIs(err, model.ErrInvalidMapName)
}

func (s *ServiceSuite) TestPublishesEvents() {
	_, err := s.service.Start(s.ctx, 1, "foy_warfare", s.t0)
	s.Require().NoError(err)
	s.Require().NoError(s.service.End(s.ctx, 1, s.t0.Add(time.Hour)))

	s.Equal([]events.Type{events.TypeMapStarted, events.TypeMapEnded}, s.publisher.Types())
}
