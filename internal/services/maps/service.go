package maps

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/rconstore/internal/dependencies/ids"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Service records map rotations per game server
type Service struct {
	storage   storage.MapStore
	publisher events.Publisher
	ids       ids.Generator
	logger    *slog.Logger
}

// New creates a new map history service
func New(storage storage.MapStore, publisher events.Publisher, ids ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		publisher: publisher,
		ids:       ids,
		logger:    logger.With(slog.String("service", "maps")),
	}
}

// Start records a new map on the server, ending whatever was running there
func (s *Service) Start(ctx context.Context, server int, mapName string, at time.Time) (*model.MapRecord, error) {
	mapName = strings.TrimSpace(mapName)
	if mapName == "" {
		return nil, model.ErrInvalidMapName
	}

	rec, err := s.storage.StartMap(ctx, server, mapName, at)
	if err != nil {
		return nil, err
	}

	s.logger.Info("map started", slog.Int("server", server), slog.String("map", mapName))
	s.publish(ctx, events.TypeMapStarted, at, map[string]any{"server": server, "map": mapName})
	return rec, nil
}

// End finishes the running map on the server or fails with model.ErrNoOpenMap
func (s *Service) End(ctx context.Context, server int, at time.Time) error {
	if err := s.storage.EndMap(ctx, server, at); err != nil {
		return err
	}
	s.logger.Info("map ended", slog.Int("server", server))
	s.publish(ctx, events.TypeMapEnded, at, map[string]any{"server": server})
	return nil
}

// List returns maps newest first. A negative server lists every server.
func (s *Service) List(ctx context.Context, server int, limit int) ([]model.MapRecord, error) {
	return s.storage.ListMaps(ctx, server, limit)
}

func (s *Service) publish(ctx context.Context, t events.Type, at time.Time, data map[string]any) {
	e := events.Event{ID: s.ids.NewID(), Type: t, Time: at.UTC(), Data: data}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("event publish failed", slog.String("type", string(t)), slog.Any("error", err))
	}
}
