package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/dependencies/mocks"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/locking"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
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
	s.clock = mocks.NewMockClock(s.t0)
	s.publisher = mocks.NewMockPublisher()
	s.service = New(s.storage, locking.NewKeyedMutex(), s.clock, s.publisher, mocks.NewMockIDs(), testutil.NopLogger())

	var err error
	s.player, err = s.storage.GetOrCreatePlayer(s.ctx, "76561198000000001", s.t0)
	s.Require().NoError(err)
}

// RecordStart / RecordEnd tests

func (s *ServiceSuite) TestRecordStartOpensSession() {
	sid, err := s.service.RecordStart(s.ctx, s.player, s.t0)
	s.Require().NoError(err)

	sessions, err := s.service.OrderedSessions(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Equal(sid, sessions[0].ID)
	s.Equal(s.t0, *sessions[0].Start)
	s.Equal(s.t0, sessions[0].CreatedAt)
	s.True(sessions[0].IsOpen())

	s.Equal([]events.Type{events.TypeSessionStarted}, s.publisher.Types())
	s.Equal("76561198000000001", s.publisher.Events()[0].SteamID64)
}

func (s *ServiceSuite) TestRecordEndWithNoSessions() {
	err := s.service.RecordEnd(s.ctx, s.player, s.t0)
	s.ErrorIs(err, model.ErrNoOpenSession)
	s.Empty(s.publisher.Events())
}

func (s *ServiceSuite) TestRecordEndTwice() {
	_, err := s.service.RecordStart(s.ctx, s.player, s.t0)
	s.Require().NoError(err)
	s.Require().NoError(s.service.RecordEnd(s.ctx, s.player, s.t0.Add(time.Hour)))

	err = s.service.RecordEnd(s.ctx, s.player, s.t0.Add(2*time.Hour))
	s.ErrorIs(err, model.ErrNoOpenSession)

	s.Equal([]events.Type{events.TypeSessionStarted, events.TypeSessionEnded}, s.publisher.Types())
}

func (s *ServiceSuite) TestBackdatedStartPublishesNothing() {
	_, err := s.service.RecordStart(s.ctx, s.player, s.t0)
	s.Require().NoError(err)

	_, err = s.service.RecordStart(s.ctx, s.player, s.t0.Add(-time.Minute))
	s.ErrorIs(err, model.ErrSessionOutOfOrder)
	err = s.service.RecordEnd(s.ctx, s.player, s.t0.Add(-time.Minute))
	s.ErrorIs(err, model.ErrSessionOutOfOrder)

	s.Equal([]events.Type{events.TypeSessionStarted}, s.publisher.Types())
}

func (s *ServiceSuite) TestRecordStartUnknownIdentity() {
	_, err := s.service.RecordStart(s.ctx, &model.Player{ID: 42}, s.t0)
	s.ErrorIs(err, model.ErrUnknownIdentity)
}

func (s *ServiceSuite) TestPublishFailureDoesNotFailRecord() {
	s.publisher.Err = errors.New("broker down")

	_, err := s.service.RecordStart(s.ctx, s.player, s.t0)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestConcurrentStartsLeaveOneOpenSession() {
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.service.RecordStart(s.ctx, s.player, s.t0)
		}()
	}
	wg.Wait()

	sessions, err := s.service.OrderedSessions(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Len(sessions, 10)
	open := 0
	for i, rec := range sessions {
		if rec.IsOpen() {
			open++
			s.Equal(0, i)
		}
	}
	s.Equal(1, open)
}

// Playtime tests

func (s *ServiceSuite) TestPlaytimeScenario() {
	t1 := s.t0.Add(2 * time.Hour)

	_, err := s.service.RecordStart(s.ctx, s.player, s.t0)
	s.Require().NoError(err)
	s.Require().NoError(s.service.RecordEnd(s.ctx, s.player, s.t0.Add(time.Hour)))
	_, err = s.service.RecordStart(s.ctx, s.player, t1)
	s.Require().NoError(err)

	now := t1.Add(120 * time.Second)

	total, err := s.service.TotalPlaytimeSeconds(s.ctx, s.player.ID, now)
	s.Require().NoError(err)
	s.Equal(int64(3720), total)

	current, err := s.service.CurrentPlaytimeSeconds(s.ctx, s.player.ID, now)
	s.Require().NoError(err)
	s.Equal(int64(120), current)
}

func (s *ServiceSuite) TestCurrentPlaytimeWithoutSessions() {
	current, err := s.service.CurrentPlaytimeSeconds(s.ctx, s.player.ID, s.t0)
	s.Require().NoError(err)
	s.Zero(current)
}

func (s *ServiceSuite) TestCurrentPlaytimeOpenSession() {
	_, err := s.service.RecordStart(s.ctx, s.player, s.t0)
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Second)

	current, err := s.service.CurrentPlaytimeSeconds(s.ctx, s.player.ID, s.service.Now())
	s.Require().NoError(err)
	s.Equal(int64(10), current)
}

func (s *ServiceSuite) TestRecentLimitsAndCounts() {
	for i := range 3 {
		_, err := s.service.RecordStart(s.ctx, s.player, s.t0.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(err)
	}

	recent, total, err := s.service.Recent(s.ctx, s.player.ID, 2)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(recent, 2)

	count := 0
	for rec, err := range s.service.All(s.ctx, s.player.ID) {
		s.Require().NoError(err)
		s.Equal(s.player.ID, rec.PlayerID)
		count++
	}
	s.Equal(3, count)
}
