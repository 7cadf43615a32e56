package penalties

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/mcoot/rconstore/internal/dependencies/ids"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/history"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Service records moderation actions and summarizes penalties
type Service struct {
	storage   storage.ActionStore
	publisher events.Publisher
	ids       ids.Generator
	logger    *slog.Logger
}

// New creates a new PenaltyHistory service
func New(storage storage.ActionStore, publisher events.Publisher, ids ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		publisher: publisher,
		ids:       ids,
		logger:    logger.With(slog.String("service", "penalties")),
	}
}

// RecordAction appends a new action. Every call creates a row; nothing is merged.
func (s *Service) RecordAction(
	ctx context.Context,
	player *model.Player,
	category string,
	reason string,
	actor string,
	at time.Time,
) (*model.ActionRecord, error) {
	actionType, err := model.ParseActionType(category)
	if err != nil {
		return nil, err
	}

	action := &model.ActionRecord{
		PlayerID: player.ID,
		Type:     actionType,
		Reason:   reason,
		By:       actor,
		Time:     at,
	}
	if err := s.storage.InsertAction(ctx, action); err != nil {
		return nil, err
	}

	s.logger.Info("action recorded",
		slog.String("steam_id", player.SteamID64),
		slog.String("action_type", string(actionType)),
		slog.String("by", actor))

	e := events.ForPlayer(s.ids.NewID(), events.TypeActionRecorded, player, at, map[string]any{
		"action_type": actionType,
		"reason":      reason,
	})
	e.Actor = actor
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("event publish failed", slog.String("type", string(e.Type)), slog.Any("error", err))
	}
	return action, nil
}

// PenaltyCounts counts KICK, PUNISH, TEMPBAN and PERMABAN actions. All four keys are always present.
func (s *Service) PenaltyCounts(ctx context.Context, id model.PlayerID) (map[model.ActionType]int, error) {
	actions, err := s.storage.ListActions(ctx, id)
	if err != nil {
		return nil, err
	}
	return history.PenaltyCounts(actions), nil
}

// List returns every action, newest first
func (s *Service) List(ctx context.Context, id model.PlayerID) ([]model.ActionRecord, error) {
	return s.storage.ListActions(ctx, id)
}

// All yields actions newest first, reading current rows on every range
func (s *Service) All(ctx context.Context, id model.PlayerID) iter.Seq2[model.ActionRecord, error] {
	return func(yield func(model.ActionRecord, error) bool) {
		actions, err := s.storage.ListActions(ctx, id)
		if err != nil {
			yield(model.ActionRecord{}, err)
			return
		}
		for _, a := range actions {
			if !yield(a, nil) {
				return
			}
		}
	}
}
