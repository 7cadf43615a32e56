package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/locking"
)

type LockerSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	locker *Locker
	ctx    context.Context
}

func TestLockerSuite(t *testing.T) {
	suite.Run(t, new(LockerSuite))
}

func (s *LockerSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.LockTTL = time.Second
	cfg.RetryInterval = 5 * time.Millisecond

	s.locker = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *LockerSuite) TearDownTest() {
	if s.locker != nil {
		_ = s.locker.Close()
	}
}

func (s *LockerSuite) TestLockSetsKeyWithTTL() {
	unlock, err := s.locker.Lock(s.ctx, locking.SessionKey(7))
	s.Require().NoError(err)

	s.True(s.mini.Exists("rcon:lock:session:7"))
	s.Equal(time.Second, s.mini.TTL("rcon:lock:session:7"))

	unlock()
	s.False(s.mini.Exists("rcon:lock:session:7"))
}

func (s *LockerSuite) TestLockBlocksUntilReleased() {
	unlock, err := s.locker.Lock(s.ctx, "k")
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Millisecond)
	defer cancel()
	_, err = s.locker.Lock(ctx, "k")
	s.ErrorIs(err, locking.ErrNotAcquired)

	unlock()

	again, err := s.locker.Lock(s.ctx, "k")
	s.Require().NoError(err)
	again()
}

func (s *LockerSuite) TestUnlockDoesNotReleaseForeignLock() {
	unlock, err := s.locker.Lock(s.ctx, "k")
	s.Require().NoError(err)

	// Simulate expiry and another holder taking over
	s.mini.FastForward(2 * time.Second)
	s.Require().NoError(s.mini.Set("rcon:lock:k", "someone-else"))

	unlock()

	got, err := s.mini.Get("rcon:lock:k")
	s.Require().NoError(err)
	s.Equal("someone-else", got)
}

func (s *LockerSuite) TestExpiredLockCanBeRetaken() {
	_, err := s.locker.Lock(s.ctx, "k")
	s.Require().NoError(err)

	s.mini.FastForward(2 * time.Second)

	unlock, err := s.locker.Lock(s.ctx, "k")
	s.Require().NoError(err)
	unlock()
}
