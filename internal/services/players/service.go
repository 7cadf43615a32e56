package players

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/dependencies/ids"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/history"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// DefaultSessionLimit is the number of sessions included in a snapshot
const DefaultSessionLimit = 5

// Store is the subset of storage used for identities and their attachments
type Store interface {
	storage.PlayerStore
	storage.AttachmentStore
}

// Service manages player identities and assembles their read model
type Service struct {
	storage   Store
	clock     clock.Clock
	publisher events.Publisher
	ids       ids.Generator
	logger    *slog.Logger
}

// New creates a new PlayerAggregate service
func New(
	storage Store,
	clock clock.Clock,
	publisher events.Publisher,
	ids ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		clock:     clock,
		publisher: publisher,
		ids:       ids,
		logger:    logger.With(slog.String("service", "players")),
	}
}

// Identity operations

// GetOrCreate returns the identity for the steam id, creating it if it has not been seen
func (s *Service) GetOrCreate(ctx context.Context, steamID string) (*model.Player, error) {
	steamID, err := model.NormalizeSteamID(steamID)
	if err != nil {
		return nil, err
	}

	player, err := s.storage.GetPlayerBySteamID(ctx, steamID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, model.ErrUnknownIdentity) {
		return nil, err
	}

	now := s.clock.Now()
	player, err = s.storage.GetOrCreatePlayer(ctx, steamID, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("steam_id", steamID),
		slog.Int64("player_id", int64(player.ID)))
	s.publish(ctx, events.ForPlayer(s.ids.NewID(), events.TypePlayerCreated, player, now, nil))
	return player, nil
}

// Resolve looks up an existing identity by steam id
func (s *Service) Resolve(ctx context.Context, steamID string) (*model.Player, error) {
	steamID, err := model.NormalizeSteamID(steamID)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPlayerBySteamID(ctx, steamID)
}

// Delete removes the identity along with every row it owns
func (s *Service) Delete(ctx context.Context, player *model.Player, actor string) error {
	if err := s.storage.DeletePlayer(ctx, player.ID); err != nil {
		return err
	}

	s.logger.Info("player deleted",
		slog.String("steam_id", player.SteamID64),
		slog.String("by", actor))
	e := events.ForPlayer(s.ids.NewID(), events.TypePlayerDeleted, player, s.clock.Now(), nil)
	e.Actor = actor
	s.publish(ctx, e)
	return nil
}

// Snapshot operations

// Snapshot assembles the read model for an identity from current rows.
// sessionLimit <= 0 uses DefaultSessionLimit.
func (s *Service) Snapshot(ctx context.Context, player *model.Player, sessionLimit int) (*Snapshot, error) {
	if sessionLimit <= 0 {
		sessionLimit = DefaultSessionLimit
	}

	h, err := s.storage.GetPlayerHistory(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	recent := h.Sessions
	if len(recent) > sessionLimit {
		recent = recent[:sessionLimit]
	}

	return &Snapshot{
		ID:                     h.Player.ID,
		SteamID64:              h.Player.SteamID64,
		Created:                h.Player.CreatedAt.UTC(),
		Names:                  NewNameViews(h.Player.SteamID64, h.Names),
		Sessions:               NewSessionViews(h.Player.SteamID64, recent),
		SessionsCount:          len(h.Sessions),
		TotalPlaytimeSeconds:   history.TotalPlaytimeSeconds(h.Sessions, now),
		CurrentPlaytimeSeconds: history.CurrentPlaytimeSeconds(h.Sessions, now),
		ReceivedActions:        NewActionViews(h.Actions),
		PenaltyCount:           history.PenaltyCounts(h.Actions),
		Blacklist:              NewBlacklistView(h.Blacklist),
		Flags:                  NewFlagViews(h.Flags),
		Watchlist:              NewWatchlistView(h.Watchlist),
		SteamInfo:              NewSteamInfoView(h.SteamInfo),
	}, nil
}

// Attachment operations

// SetBlacklist creates or replaces the blacklist status
func (s *Service) SetBlacklist(ctx context.Context, player *model.Player, blacklisted bool, reason, actor string) error {
	b := &model.Blacklist{
		PlayerID:      player.ID,
		IsBlacklisted: blacklisted,
		Reason:        reason,
		By:            actor,
	}
	if err := s.storage.PutBlacklist(ctx, b); err != nil {
		return err
	}

	s.logger.Info("blacklist changed",
		slog.String("steam_id", player.SteamID64),
		slog.Bool("blacklisted", blacklisted),
		slog.String("by", actor))
	e := events.ForPlayer(s.ids.NewID(), events.TypeBlacklistChanged, player, s.clock.Now(), map[string]any{
		"is_blacklisted": blacklisted,
		"reason":         reason,
	})
	e.Actor = actor
	s.publish(ctx, e)
	return nil
}

// SetWatchlist creates or replaces the watchlist status
func (s *Service) SetWatchlist(ctx context.Context, player *model.Player, watched bool, reason, comment, actor string) error {
	w := &model.Watchlist{
		PlayerID:  player.ID,
		IsWatched: watched,
		Reason:    reason,
		Comment:   comment,
	}
	if err := s.storage.PutWatchlist(ctx, w); err != nil {
		return err
	}

	s.logger.Info("watchlist changed",
		slog.String("steam_id", player.SteamID64),
		slog.Bool("watched", watched),
		slog.String("by", actor))
	e := events.ForPlayer(s.ids.NewID(), events.TypeWatchlistChanged, player, s.clock.Now(), map[string]any{
		"is_watched": watched,
		"reason":     reason,
	})
	e.Actor = actor
	s.publish(ctx, e)
	return nil
}

// SetSteamInfo replaces the cached profile wholesale
func (s *Service) SetSteamInfo(ctx context.Context, player *model.Player, profile json.RawMessage, country string, bans json.RawMessage) (*model.SteamInfo, error) {
	now := s.clock.Now()
	info := &model.SteamInfo{
		PlayerID:  player.ID,
		CreatedAt: now,
		UpdatedAt: &now,
		Profile:   profile,
		Country:   strings.ToUpper(strings.TrimSpace(country)),
		Bans:      bans,
	}
	if err := s.storage.PutSteamInfo(ctx, info); err != nil {
		return nil, err
	}
	s.logger.Debug("steam info refreshed", slog.String("steam_id", player.SteamID64))
	return info, nil
}

// Flag operations

// AddFlag attaches the flag or updates the comment of an existing one
func (s *Service) AddFlag(ctx context.Context, player *model.Player, flag, comment, actor string) (*model.PlayerFlag, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return nil, model.ErrInvalidFlag
	}

	f := &model.PlayerFlag{
		PlayerID: player.ID,
		Flag:     flag,
		Comment:  comment,
		Modified: s.clock.Now(),
	}
	if err := s.storage.PutFlag(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("flag added", slog.String("steam_id", player.SteamID64), slog.String("flag", flag))
	s.publishFlag(ctx, player, flag, "added", actor)
	return f, nil
}

// RemoveFlag detaches the flag or fails with model.ErrFlagNotFound
func (s *Service) RemoveFlag(ctx context.Context, player *model.Player, flag, actor string) error {
	if err := s.storage.DeleteFlag(ctx, player.ID, flag); err != nil {
		return err
	}

	s.logger.Info("flag removed", slog.String("steam_id", player.SteamID64), slog.String("flag", flag))
	s.publishFlag(ctx, player, flag, "removed", actor)
	return nil
}

func (s *Service) publishFlag(ctx context.Context, player *model.Player, flag, change, actor string) {
	e := events.ForPlayer(s.ids.NewID(), events.TypeFlagChanged, player, s.clock.Now(), map[string]any{
		"flag":   flag,
		"change": change,
	})
	e.Actor = actor
	s.publish(ctx, e)
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("event publish failed", slog.String("type", string(e.Type)), slog.Any("error", err))
	}
}

// Now returns the service clock's current time
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
