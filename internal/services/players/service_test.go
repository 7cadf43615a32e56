package players

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/dependencies/mocks"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/testutil"
)

const steamID = "76561198000000001"

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
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
	s.t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(s.t0)
	s.publisher = mocks.NewMockPublisher()
	s.service = New(s.storage, s.clock, s.publisher, mocks.NewMockIDs(), testutil.NopLogger())
}

func (s *ServiceSuite) createPlayer() *model.Player {
	player, err := s.service.GetOrCreate(s.ctx, steamID)
	s.Require().NoError(err)
	return player
}

// Identity

func (s *ServiceSuite) TestGetOrCreateIsIdempotent() {
	first := s.createPlayer()
	s.clock.Advance(time.Hour)
	second, err := s.service.GetOrCreate(s.ctx, "  "+steamID+" ")
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.True(second.CreatedAt.Equal(s.t0))
	s.Equal([]events.Type{events.TypePlayerCreated}, s.publisher.Types())
}

func (s *ServiceSuite) TestGetOrCreateRejectsInvalidSteamID() {
	_, err := s.service.GetOrCreate(s.ctx, "   ")
	s.ErrorIs(err, model.ErrInvalidSteamID)

	_, err = s.service.GetOrCreate(s.ctx, "7656 1198")
	s.ErrorIs(err, model.ErrInvalidSteamID)
}

func (s *ServiceSuite) TestResolveUnknown() {
	_, err := s.service.Resolve(s.ctx, steamID)
	s.ErrorIs(err, model.ErrUnknownIdentity)
}

func (s *ServiceSuite) TestDeleteRemovesIdentity() {
	player := s.createPlayer()
	s.Require().NoError(s.service.SetBlacklist(s.ctx, player, true, "cheating", "admin"))

	s.Require().NoError(s.service.Delete(s.ctx, player, "admin"))

	_, err := s.service.Resolve(s.ctx, steamID)
	s.ErrorIs(err, model.ErrUnknownIdentity)
	_, err = s.service.Snapshot(s.ctx, player, 0)
	s.ErrorIs(err, model.ErrUnknownIdentity)
	s.Equal(events.TypePlayerDeleted, s.publisher.Types()[2])
}

// Snapshot

func (s *ServiceSuite) TestSnapshotEmptyIdentity() {
	player := s.createPlayer()

	snap, err := s.service.Snapshot(s.ctx, player, 0)
	s.Require().NoError(err)

	s.Equal(player.ID, snap.ID)
	s.Equal(steamID, snap.SteamID64)
	s.NotNil(snap.Names)
	s.Empty(snap.Names)
	s.NotNil(snap.Sessions)
	s.Zero(snap.SessionsCount)
	s.Zero(snap.TotalPlaytimeSeconds)
	s.Zero(snap.CurrentPlaytimeSeconds)
	s.Len(snap.PenaltyCount, 4)
	s.Nil(snap.Blacklist)
	s.Nil(snap.Watchlist)
	s.Nil(snap.SteamInfo)
}

func (s *ServiceSuite) TestSnapshotScenario() {
	player := s.createPlayer()
	t1 := s.t0.Add(5 * time.Hour)

	_, err := s.storage.StartSession(s.ctx, player.ID, s.t0)
	s.Require().NoError(err)
	s.Require().NoError(s.storage.EndSession(s.ctx, player.ID, s.t0.Add(time.Hour)))
	_, err = s.storage.StartSession(s.ctx, player.ID, t1)
	s.Require().NoError(err)
	for i, category := range []model.ActionType{model.ActionPermaBan, model.ActionPermaBan, model.ActionPermaBan, model.ActionKick} {
		s.Require().NoError(s.storage.InsertAction(s.ctx, &model.ActionRecord{
			PlayerID: player.ID,
			Type:     category,
			By:       "admin",
			Time:     s.t0.Add(time.Duration(i) * time.Minute),
		}))
	}
	s.Require().NoError(s.storage.UpsertName(s.ctx, player.ID, "old", s.t0))
	s.Require().NoError(s.storage.UpsertName(s.ctx, player.ID, "new", t1))
	s.clock.Set(t1.Add(120 * time.Second))

	snap, err := s.service.Snapshot(s.ctx, player, 0)
	s.Require().NoError(err)

	s.Equal(int64(3720), snap.TotalPlaytimeSeconds)
	s.Equal(int64(120), snap.CurrentPlaytimeSeconds)
	s.Equal(2, snap.SessionsCount)
	s.Require().Len(snap.Sessions, 2)
	s.Nil(snap.Sessions[0].End)
	s.Equal(map[model.ActionType]int{
		model.ActionKick:     1,
		model.ActionPunish:   0,
		model.ActionTempBan:  0,
		model.ActionPermaBan: 3,
	}, snap.PenaltyCount)
	s.Len(snap.ReceivedActions, 4)
	s.Equal(model.ActionKick, snap.ReceivedActions[0].ActionType)
	s.Require().Len(snap.Names, 2)
	s.Equal("new", snap.Names[0].Name)
}

func (s *ServiceSuite) TestSnapshotLimitsSessionsButCountsAll() {
	player := s.createPlayer()
	for i := 0; i < 7; i++ {
		start := s.t0.Add(time.Duration(i) * time.Hour)
		_, err := s.storage.StartSession(s.ctx, player.ID, start)
		s.Require().NoError(err)
		s.Require().NoError(s.storage.EndSession(s.ctx, player.ID, start.Add(time.Minute)))
	}
	s.clock.Set(s.t0.Add(24 * time.Hour))

	snap, err := s.service.Snapshot(s.ctx, player, 0)
	s.Require().NoError(err)
	s.Len(snap.Sessions, DefaultSessionLimit)
	s.Equal(7, snap.SessionsCount)
	s.Equal(int64(7*60), snap.TotalPlaytimeSeconds)

	snap, err = s.service.Snapshot(s.ctx, player, 2)
	s.Require().NoError(err)
	s.Len(snap.Sessions, 2)
}

func (s *ServiceSuite) TestSnapshotAttachments() {
	player := s.createPlayer()
	s.Require().NoError(s.service.SetBlacklist(s.ctx, player, true, "cheating", "admin"))
	s.Require().NoError(s.service.SetWatchlist(s.ctx, player, true, "suspicious", "check aim", "admin"))
	_, err := s.service.SetSteamInfo(s.ctx, player, json.RawMessage(`{"name":"x"}`), " au ", json.RawMessage(`{"VACBanned":false}`))
	s.Require().NoError(err)
	_, err = s.service.AddFlag(s.ctx, player, "🚩", "watch closely", "admin")
	s.Require().NoError(err)

	snap, err := s.service.Snapshot(s.ctx, player, 0)
	s.Require().NoError(err)

	s.Require().NotNil(snap.Blacklist)
	s.True(snap.Blacklist.IsBlacklisted)
	s.Equal("admin", snap.Blacklist.By)
	s.Require().NotNil(snap.Watchlist)
	s.Equal("check aim", snap.Watchlist.Comment)
	s.Require().NotNil(snap.SteamInfo)
	s.Equal("AU", snap.SteamInfo.Country)
	s.Nil(snap.SteamInfo.Updated)
	s.Require().Len(snap.Flags, 1)
	s.Equal("🚩", snap.Flags[0].Flag)
}

func (s *ServiceSuite) TestSnapshotJSONShape() {
	player := s.createPlayer()

	snap, err := s.service.Snapshot(s.ctx, player, 0)
	s.Require().NoError(err)
	data, err := json.Marshal(snap)
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"id", "steam_id_64", "created", "names", "sessions", "sessions_count",
		"total_playtime_seconds", "current_playtime_seconds", "received_actions",
		"penalty_count", "blacklist", "flags", "watchlist", "steaminfo",
	} {
		s.Contains(decoded, key)
	}
	s.Len(decoded, 14)
	s.Nil(decoded["blacklist"])
	s.Equal("2024-01-01T12:00:00Z", decoded["created"])
	s.Equal(map[string]any{"KICK": 0.0, "PUNISH": 0.0, "TEMPBAN": 0.0, "PERMABAN": 0.0}, decoded["penalty_count"])
}

// Attachments

func (s *ServiceSuite) TestSetSteamInfoReplacesWholesale() {
	player := s.createPlayer()
	_, err := s.service.SetSteamInfo(s.ctx, player, json.RawMessage(`{"a":1}`), "AU", json.RawMessage(`{"b":2}`))
	s.Require().NoError(err)
	s.clock.Advance(time.Hour)

	info, err := s.service.SetSteamInfo(s.ctx, player, json.RawMessage(`{"c":3}`), "", nil)
	s.Require().NoError(err)

	s.True(info.CreatedAt.Equal(s.t0))
	s.Require().NotNil(info.UpdatedAt)
	s.True(info.UpdatedAt.Equal(s.t0.Add(time.Hour)))
	s.Empty(info.Country)
	s.Nil(info.Bans)
	s.JSONEq(`{"c":3}`, string(info.Profile))
}

func (s *ServiceSuite) TestBlacklistUpsertKeepsOneRow() {
	player := s.createPlayer()
	s.Require().NoError(s.service.SetBlacklist(s.ctx, player, true, "first", "a"))
	s.Require().NoError(s.service.SetBlacklist(s.ctx, player, false, "second", "b"))

	b, err := s.storage.GetBlacklist(s.ctx, player.ID)
	s.Require().NoError(err)
	s.False(b.IsBlacklisted)
	s.Equal("second", b.Reason)
}

func (s *ServiceSuite) TestAttachmentsUnknownIdentity() {
	ghost := &model.Player{ID: 999, SteamID64: "ghost"}

	s.ErrorIs(s.service.SetBlacklist(s.ctx, ghost, true, "", "admin"), model.ErrUnknownIdentity)
	s.ErrorIs(s.service.SetWatchlist(s.ctx, ghost, true, "", "", "admin"), model.ErrUnknownIdentity)
	_, err := s.service.AddFlag(s.ctx, ghost, "x", "", "admin")
	s.ErrorIs(err, model.ErrUnknownIdentity)
	s.Empty(s.publisher.Events())
}

// Flags

func (s *ServiceSuite) TestFlagLifecycle() {
	player := s.createPlayer()
	first, err := s.service.AddFlag(s.ctx, player, "vip", "", "admin")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	second, err := s.service.AddFlag(s.ctx, player, "vip", "donor", "admin")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	flags, err := s.storage.ListFlags(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Require().Len(flags, 1)
	s.Equal("donor", flags[0].Comment)

	s.Require().NoError(s.service.RemoveFlag(s.ctx, player, "vip", "admin"))
	s.ErrorIs(s.service.RemoveFlag(s.ctx, player, "vip", "admin"), model.ErrFlagNotFound)

	_, err = s.service.AddFlag(s.ctx, player, "  ", "", "admin")
	s.ErrorIs(err, model.ErrInvalidFlag)
}

func (s *ServiceSuite) TestPublishFailureDoesNotFailOperation() {
	s.publisher.Err = errors.New("broker down")
	player := s.createPlayer()

	s.NoError(s.service.SetBlacklist(s.ctx, player, true, "", "admin"))
	s.Len(s.publisher.Events(), 2)
}
