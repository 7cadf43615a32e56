package logs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// CurrentVersion is the log line format written by Ingest
const CurrentVersion = 1

// Store is the subset of storage used for log lines
type Store interface {
	storage.PlayerStore
	storage.LogLineStore
}

// Entry is one parsed game event as handed over by a log reader
type Entry struct {
	Version        int
	EventTime      time.Time
	Type           string
	Player1Name    string
	Player1SteamID string
	Player2Name    string
	Player2SteamID string
	Raw            string
	Content        string
	Server         string
}

// Query narrows a log line listing. SteamID matches either player slot.
type Query struct {
	SteamID string
	Type    string
	Server  string
	Since   time.Time
	Limit   int
}

// Line is the compatible projection of a stored log line
type Line struct {
	ID          int64           `json:"id"`
	Version     int             `json:"version"`
	TimestampMS int64           `json:"timestamp_ms"`
	EventTime   time.Time       `json:"event_time"`
	Raw         string          `json:"raw"`
	Action      string          `json:"action"`
	Player      string          `json:"player"`
	SteamID1    *string         `json:"steam_id_64_1"`
	Player1ID   *model.PlayerID `json:"player1_id"`
	Player2ID   *model.PlayerID `json:"player2_id"`
	Player2     string          `json:"player2"`
	SteamID2    *string         `json:"steam_id_64_2"`
	Weapon      string          `json:"weapon"`
	Message     string          `json:"message"`
	Server      string          `json:"server"`
}

// Service stores parsed game log lines and serves queries over them
type Service struct {
	storage Store
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new log line service
func New(storage Store, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("service", "logs")),
	}
}

// Ingest stores one line, creating identities for any steam ids it names.
// A repeated (event time, raw) pair fails with model.ErrDuplicateLogLine.
func (s *Service) Ingest(ctx context.Context, entry Entry) (*model.LogLine, error) {
	if strings.TrimSpace(entry.Raw) == "" || entry.EventTime.IsZero() {
		return nil, errors.New("log line needs raw text and an event time")
	}

	p1, err := s.resolve(ctx, entry.Player1SteamID)
	if err != nil {
		return nil, err
	}
	p2, err := s.resolve(ctx, entry.Player2SteamID)
	if err != nil {
		return nil, err
	}

	version := entry.Version
	if version == 0 {
		version = CurrentVersion
	}
	line := &model.LogLine{
		Version:     version,
		CreatedAt:   s.clock.Now(),
		EventTime:   entry.EventTime,
		Type:        strings.ToUpper(strings.TrimSpace(entry.Type)),
		Player1Name: entry.Player1Name,
		Player1ID:   p1,
		Player2Name: entry.Player2Name,
		Player2ID:   p2,
		Raw:         entry.Raw,
		Content:     entry.Content,
		Server:      entry.Server,
	}
	if err := s.storage.InsertLogLine(ctx, line); err != nil {
		return nil, err
	}
	s.logger.Debug("log line stored", slog.String("type", line.Type), slog.Int64("id", line.ID))
	return line, nil
}

func (s *Service) resolve(ctx context.Context, steamID string) (*model.PlayerID, error) {
	if strings.TrimSpace(steamID) == "" {
		return nil, nil
	}
	steamID, err := model.NormalizeSteamID(steamID)
	if err != nil {
		return nil, err
	}
	player, err := s.storage.GetOrCreatePlayer(ctx, steamID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &player.ID, nil
}

// Query returns matching lines newest first in the compatible projection
func (s *Service) Query(ctx context.Context, q Query) ([]Line, error) {
	filter := model.LogLineFilter{
		Type:   strings.TrimSpace(q.Type),
		Server: q.Server,
		Since:  q.Since,
		Limit:  q.Limit,
	}
	if q.SteamID != "" {
		steamID, err := model.NormalizeSteamID(q.SteamID)
		if err != nil {
			return nil, err
		}
		player, err := s.storage.GetPlayerBySteamID(ctx, steamID)
		if err != nil {
			return nil, err
		}
		filter.PlayerID = &player.ID
	}

	lines, err := s.storage.ListLogLines(ctx, filter)
	if err != nil {
		return nil, err
	}

	steamIDs := make(map[model.PlayerID]string)
	lookup := func(id *model.PlayerID) (*string, error) {
		if id == nil {
			return nil, nil
		}
		if sid, ok := steamIDs[*id]; ok {
			return &sid, nil
		}
		player, err := s.storage.GetPlayer(ctx, *id)
		if errors.Is(err, model.ErrUnknownIdentity) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		steamIDs[*id] = player.SteamID64
		return &player.SteamID64, nil
	}

	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		sid1, err := lookup(l.Player1ID)
		if err != nil {
			return nil, err
		}
		sid2, err := lookup(l.Player2ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Line{
			ID:          l.ID,
			Version:     l.Version,
			TimestampMS: l.EventTime.UnixMilli(),
			EventTime:   l.EventTime.UTC(),
			Raw:         l.Raw,
			Action:      l.Type,
			Player:      l.Player1Name,
			SteamID1:    sid1,
			Player1ID:   l.Player1ID,
			Player2ID:   l.Player2ID,
			Player2:     l.Player2Name,
			SteamID2:    sid2,
			Weapon:      l.Weapon(),
			Message:     l.Content,
			Server:      l.Server,
		})
	}
	return out, nil
}
