package sessions

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/dependencies/ids"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/history"
	"github.com/mcoot/rconstore/internal/locking"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Service records connection sessions and derives playtime from them.
// Start and end for one identity are serialized through the locker.
type Service struct {
	storage   storage.SessionStore
	locker    locking.Locker
	clock     clock.Clock
	publisher events.Publisher
	ids       ids.Generator
	logger    *slog.Logger
}

// New creates a new SessionHistory service
func New(
	storage storage.SessionStore,
	locker locking.Locker,
	clock clock.Clock,
	publisher events.Publisher,
	ids ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		locker:    locker,
		clock:     clock,
		publisher: publisher,
		ids:       ids,
		logger:    logger.With(slog.String("service", "sessions")),
	}
}

// RecordStart opens a new session at the given time
func (s *Service) RecordStart(ctx context.Context, player *model.Player, at time.Time) (model.SessionID, error) {
	unlock, err := s.locker.Lock(ctx, locking.SessionKey(player.ID))
	if err != nil {
		return 0, err
	}
	defer unlock()

	sid, err := s.storage.StartSession(ctx, player.ID, at)
	if err != nil {
		return 0, err
	}

	s.logger.Info("session started",
		slog.String("steam_id", player.SteamID64),
		slog.Int64("session_id", int64(sid)))
	s.publish(ctx, events.ForPlayer(s.ids.NewID(), events.TypeSessionStarted, player, at,
		map[string]any{"session_id": sid}))
	return sid, nil
}

// RecordEnd closes the newest session. It fails with model.ErrNoOpenSession
// when there is no session or the newest one has already ended.
func (s *Service) RecordEnd(ctx context.Context, player *model.Player, at time.Time) error {
	unlock, err := s.locker.Lock(ctx, locking.SessionKey(player.ID))
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.storage.EndSession(ctx, player.ID, at); err != nil {
		return err
	}

	s.logger.Info("session ended", slog.String("steam_id", player.SteamID64))
	s.publish(ctx, events.ForPlayer(s.ids.NewID(), events.TypeSessionEnded, player, at, nil))
	return nil
}

// OrderedSessions returns every session, newest created first
func (s *Service) OrderedSessions(ctx context.Context, id model.PlayerID) ([]model.SessionRecord, error) {
	sessions, _, err := s.storage.ListSessions(ctx, id, 0)
	return sessions, err
}

// Recent returns up to limit sessions newest first plus the total count
func (s *Service) Recent(ctx context.Context, id model.PlayerID, limit int) ([]model.SessionRecord, int, error) {
	return s.storage.ListSessions(ctx, id, limit)
}

// All yields sessions newest first, reading current rows on every range
func (s *Service) All(ctx context.Context, id model.PlayerID) iter.Seq2[model.SessionRecord, error] {
	return func(yield func(model.SessionRecord, error) bool) {
		sessions, err := s.OrderedSessions(ctx, id)
		if err != nil {
			yield(model.SessionRecord{}, err)
			return
		}
		for _, rec := range sessions {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// TotalPlaytimeSeconds sums session durations as of now
func (s *Service) TotalPlaytimeSeconds(ctx context.Context, id model.PlayerID, now time.Time) (int64, error) {
	sessions, err := s.OrderedSessions(ctx, id)
	if err != nil {
		return 0, err
	}
	return history.TotalPlaytimeSeconds(sessions, now), nil
}

// CurrentPlaytimeSeconds is the time elapsed since the newest session began
func (s *Service) CurrentPlaytimeSeconds(ctx context.Context, id model.PlayerID, now time.Time) (int64, error) {
	sessions, err := s.OrderedSessions(ctx, id)
	if err != nil {
		return 0, err
	}
	return history.CurrentPlaytimeSeconds(sessions, now), nil
}

// Now is the service clock's current time, used when callers omit a timestamp
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("event publish failed",
			slog.String("type", string(e.Type)),
			slog.Any("error", err))
	}
}
