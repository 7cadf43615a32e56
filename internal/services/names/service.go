package names

import (
	"context"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/rconstore/internal/history"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Service records and reads the display names observed for identities
type Service struct {
	storage storage.NameStore
	logger  *slog.Logger
}

// New creates a new NameHistory service
func New(storage storage.NameStore, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("service", "names")),
	}
}

// RecordObservation notes that the player used name at observedAt. A repeat
// observation only moves last-seen forward.
func (s *Service) RecordObservation(ctx context.Context, player *model.Player, name string, observedAt time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrInvalidName
	}
	if err := s.storage.UpsertName(ctx, player.ID, name, observedAt); err != nil {
		return err
	}
	s.logger.Debug("name observed",
		slog.String("steam_id", player.SteamID64),
		slog.String("name", name))
	return nil
}

// MostRecent returns the name seen most recently, if any
func (s *Service) MostRecent(ctx context.Context, id model.PlayerID) (model.NameRecord, bool, error) {
	names, err := s.storage.ListNames(ctx, id)
	if err != nil {
		return model.NameRecord{}, false, err
	}
	rec, ok := history.MostRecentName(names)
	return rec, ok, nil
}

// List returns every name for the identity, most recent first
func (s *Service) List(ctx context.Context, id model.PlayerID) ([]model.NameRecord, error) {
	return s.storage.ListNames(ctx, id)
}

// All yields names most recent first. Each range over the sequence reads
// the current rows again.
func (s *Service) All(ctx context.Context, id model.PlayerID) iter.Seq2[model.NameRecord, error] {
	return func(yield func(model.NameRecord, error) bool) {
		names, err := s.storage.ListNames(ctx, id)
		if err != nil {
			yield(model.NameRecord{}, err)
			return
		}
		for _, n := range names {
			if !yield(n, nil) {
				return
			}
		}
	}
}
