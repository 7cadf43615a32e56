// Package storagetest holds the behaviour every storage backend must share.
// Backend packages run Suite from their own tests.
package storagetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/history"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Suite exercises a storage.Storage implementation. New is called once
// per test and must return an empty store.
type Suite struct {
	suite.Suite
	New func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
	base  time.Time
}

func (s *Suite) SetupTest() {
	s.store = s.New(s.T())
	s.ctx = context.Background()
	s.base = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *Suite) at(offset time.Duration) time.Time {
	return s.base.Add(offset)
}

func (s *Suite) sameTime(want time.Time, got time.Time) {
	s.Truef(want.Equal(got), "want %s, got %s", want, got)
}

func (s *Suite) player(steamID string) model.PlayerID {
	p, err := s.store.GetOrCreatePlayer(s.ctx, steamID, s.base)
	s.Require().NoError(err)
	return p.ID
}

// Player tests

func (s *Suite) TestGetOrCreatePlayerIsIdempotent() {
	first, err := s.store.GetOrCreatePlayer(s.ctx, "76561198000000001", s.base)
	s.Require().NoError(err)
	second, err := s.store.GetOrCreatePlayer(s.ctx, "76561198000000001", s.at(time.Hour))
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.sameTime(s.base, second.CreatedAt)

	other, err := s.store.GetOrCreatePlayer(s.ctx, "76561198000000002", s.base)
	s.Require().NoError(err)
	s.NotEqual(first.ID, other.ID)
}

func (s *Suite) TestGetPlayer() {
	id := s.player("76561198000000001")

	p, err := s.store.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("76561198000000001", p.SteamID64)

	p, err = s.store.GetPlayerBySteamID(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.Equal(id, p.ID)
}

func (s *Suite) TestGetPlayerUnknown() {
	_, err := s.store.GetPlayer(s.ctx, 999)
	s.ErrorIs(err, model.ErrUnknownIdentity)

	_, err = s.store.GetPlayerBySteamID(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUnknownIdentity)
}

func (s *Suite) TestUnknownIdentityRejectedEverywhere() {
	const missing model.PlayerID = 4242

	s.ErrorIs(s.store.UpsertName(s.ctx, missing, "x", s.base), model.ErrUnknownIdentity)
	_, err := s.store.StartSession(s.ctx, missing, s.base)
	s.ErrorIs(err, model.ErrUnknownIdentity)
	s.ErrorIs(s.store.EndSession(s.ctx, missing, s.base), model.ErrUnknownIdentity)
	_, _, err = s.store.ListSessions(s.ctx, missing, 0)
	s.ErrorIs(err, model.ErrUnknownIdentity)
	s.ErrorIs(s.store.InsertAction(s.ctx, &model.ActionRecord{PlayerID: missing, Type: model.ActionKick, Time: s.base}), model.ErrUnknownIdentity)
	s.ErrorIs(s.store.PutBlacklist(s.ctx, &model.Blacklist{PlayerID: missing}), model.ErrUnknownIdentity)
	s.ErrorIs(s.store.PutFlag(s.ctx, &model.PlayerFlag{PlayerID: missing, Flag: "x", Modified: s.base}), model.ErrUnknownIdentity)
	_, err = s.store.GetPlayerHistory(s.ctx, missing)
	s.ErrorIs(err, model.ErrUnknownIdentity)
	s.ErrorIs(s.store.DeletePlayer(s.ctx, missing), model.ErrUnknownIdentity)
}

// Name tests

func (s *Suite) TestUpsertNameInsertsAndMovesLastSeenForward() {
	id := s.player("76561198000000001")

	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.base))
	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.at(time.Hour)))

	names, err := s.store.ListNames(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(names, 1)
	s.sameTime(s.base, names[0].FirstSeen)
	s.Require().NotNil(names[0].LastSeen)
	s.sameTime(s.at(time.Hour), *names[0].LastSeen)
}

func (s *Suite) TestUpsertNameNeverMovesLastSeenBackward() {
	id := s.player("76561198000000001")

	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.at(time.Hour)))
	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.base))

	names, err := s.store.ListNames(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(names, 1)
	s.sameTime(s.at(time.Hour), *names[0].LastSeen)
}

func (s *Suite) TestListNamesMostRecentFirst() {
	id := s.player("76561198000000001")

	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.base))
	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Bob", s.at(2*time.Hour)))
	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Carol", s.at(time.Hour)))

	names, err := s.store.ListNames(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(names, 3)
	s.Equal("Bob", names[0].Name)
	s.Equal("Carol", names[1].Name)
	s.Equal("Alice", names[2].Name)
}

func (s *Suite) TestNamesAreScopedToIdentity() {
	alice := s.player("76561198000000001")
	bob := s.player("76561198000000002")

	s.Require().NoError(s.store.UpsertName(s.ctx, alice, "Shared", s.base))
	s.Require().NoError(s.store.UpsertName(s.ctx, bob, "Shared", s.at(time.Minute)))

	names, err := s.store.ListNames(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(names, 1)
	s.sameTime(s.base, *names[0].LastSeen)
}

// Session tests

func (s *Suite) TestStartAndEndSession() {
	id := s.player("76561198000000001")

	sid, err := s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
	s.NotZero(sid)

	s.Require().NoError(s.store.EndSession(s.ctx, id, s.at(time.Hour)))

	sessions, total, err := s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(sessions, 1)
	s.Equal(sid, sessions[0].ID)
	s.Require().NotNil(sessions[0].Start)
	s.Require().NotNil(sessions[0].End)
	s.sameTime(s.base, *sessions[0].Start)
	s.sameTime(s.at(time.Hour), *sessions[0].End)
	s.sameTime(s.base, sessions[0].CreatedAt)
}

func (s *Suite) TestEndSessionWithoutSessions() {
	id := s.player("76561198000000001")
	s.ErrorIs(s.store.EndSession(s.ctx, id, s.base), model.ErrNoOpenSession)
}

func (s *Suite) TestEndSessionTwice() {
	id := s.player("76561198000000001")

	_, err := s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
	s.Require().NoError(s.store.EndSession(s.ctx, id, s.at(time.Hour)))

	s.ErrorIs(s.store.EndSession(s.ctx, id, s.at(2*time.Hour)), model.ErrNoOpenSession)

	sessions, _, err := s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.sameTime(s.at(time.Hour), *sessions[0].End)
}

func (s *Suite) TestStartSessionClosesOpenSession() {
	id := s.player("76561198000000001")

	first, err := s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
	second, err := s.store.StartSession(s.ctx, id, s.at(time.Hour))
	s.Require().NoError(err)

	sessions, total, err := s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal(second, sessions[0].ID)
	s.True(sessions[0].IsOpen())
	s.Equal(first, sessions[1].ID)
	s.Require().NotNil(sessions[1].End)
	s.sameTime(s.at(time.Hour), *sessions[1].End)
}

func (s *Suite) TestBackdatedStartIsRejected() {
	id := s.player("76561198000000001")

	_, err := s.store.StartSession(s.ctx, id, s.at(time.Hour))
	s.Require().NoError(err)
	_, err = s.store.StartSession(s.ctx, id, s.base)
	s.ErrorIs(err, model.ErrSessionOutOfOrder)

	// The open session is untouched and can still be closed
	sessions, total, err := s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.True(sessions[0].IsOpen())
	s.Require().NoError(s.store.EndSession(s.ctx, id, s.at(2*time.Hour)))

	sessions, _, err = s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.Equal(int64(3600), history.TotalPlaytimeSeconds(sessions, s.at(3*time.Hour)))
}

func (s *Suite) TestBackdatedStartAfterClosedSessionIsRejected() {
	id := s.player("76561198000000001")

	_, err := s.store.StartSession(s.ctx, id, s.at(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.store.EndSession(s.ctx, id, s.at(2*time.Hour)))

	_, err = s.store.StartSession(s.ctx, id, s.base)
	s.ErrorIs(err, model.ErrSessionOutOfOrder)

	_, total, err := s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.Equal(1, total)
}

func (s *Suite) TestEndBeforeStartIsRejected() {
	id := s.player("76561198000000001")

	_, err := s.store.StartSession(s.ctx, id, s.at(time.Hour))
	s.Require().NoError(err)
	s.ErrorIs(s.store.EndSession(s.ctx, id, s.base), model.ErrSessionOutOfOrder)

	sessions, _, err := s.store.ListSessions(s.ctx, id, 0)
	s.Require().NoError(err)
	s.True(sessions[0].IsOpen())
	s.Equal(int64(0), history.TotalPlaytimeSeconds(sessions, s.at(time.Hour)))
}

func (s *Suite) TestZeroLengthSessionIsAllowed() {
	id := s.player("76561198000000001")

	_, err := s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
	s.Require().NoError(s.store.EndSession(s.ctx, id, s.base))
	_, err = s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
}

func (s *Suite) TestListSessionsLimit() {
	id := s.player("76561198000000001")

	for i := range 4 {
		_, err := s.store.StartSession(s.ctx, id, s.at(time.Duration(i)*time.Hour))
		s.Require().NoError(err)
	}

	sessions, total, err := s.store.ListSessions(s.ctx, id, 2)
	s.Require().NoError(err)
	s.Equal(4, total)
	s.Require().Len(sessions, 2)
	s.sameTime(s.at(3*time.Hour), sessions[0].CreatedAt)
	s.sameTime(s.at(2*time.Hour), sessions[1].CreatedAt)
}

// Action tests

func (s *Suite) TestActionsNewestFirst() {
	id := s.player("76561198000000001")

	for i, t := range []model.ActionType{model.ActionKick, model.ActionPermaBan, model.ActionMessage} {
		action := &model.ActionRecord{
			PlayerID: id,
			Type:     t,
			Reason:   "reason",
			By:       "admin",
			Time:     s.at(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.store.InsertAction(s.ctx, action))
		s.NotZero(action.ID)
	}

	actions, err := s.store.ListActions(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(actions, 3)
	s.Equal(model.ActionMessage, actions[0].Type)
	s.Equal(model.ActionPermaBan, actions[1].Type)
	s.Equal(model.ActionKick, actions[2].Type)
	s.Equal("admin", actions[0].By)
}

func (s *Suite) TestListActionsEmpty() {
	id := s.player("76561198000000001")

	actions, err := s.store.ListActions(s.ctx, id)
	s.Require().NoError(err)
	s.NotNil(actions)
	s.Empty(actions)
}

// Attachment tests

func (s *Suite) TestBlacklistAndWatchlist() {
	id := s.player("76561198000000001")

	b, err := s.store.GetBlacklist(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(b)

	s.Require().NoError(s.store.PutBlacklist(s.ctx, &model.Blacklist{PlayerID: id, IsBlacklisted: true, Reason: "cheating", By: "admin"}))
	s.Require().NoError(s.store.PutBlacklist(s.ctx, &model.Blacklist{PlayerID: id, IsBlacklisted: false, Reason: "appeal", By: "lead"}))

	b, err = s.store.GetBlacklist(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(b)
	s.False(b.IsBlacklisted)
	s.Equal("appeal", b.Reason)
	s.Equal("lead", b.By)

	s.Require().NoError(s.store.PutWatchlist(s.ctx, &model.Watchlist{PlayerID: id, IsWatched: true, Reason: "toxic", Comment: "check chat"}))
	w, err := s.store.GetWatchlist(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(w)
	s.True(w.IsWatched)
	s.Equal("check chat", w.Comment)
}

func (s *Suite) TestSteamInfoReplacedWholesale() {
	id := s.player("76561198000000001")

	info := &model.SteamInfo{
		PlayerID:  id,
		CreatedAt: s.base,
		Profile:   json.RawMessage(`{"name":"alice"}`),
		Country:   "AU",
		Bans:      json.RawMessage(`{"vac":0}`),
	}
	s.Require().NoError(s.store.PutSteamInfo(s.ctx, info))

	got, err := s.store.GetSteamInfo(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Nil(got.UpdatedAt)
	s.Equal("AU", got.Country)

	later := s.at(time.Hour)
	s.Require().NoError(s.store.PutSteamInfo(s.ctx, &model.SteamInfo{
		PlayerID:  id,
		CreatedAt: later,
		UpdatedAt: &later,
		Profile:   json.RawMessage(`{"name":"alice2"}`),
	}))

	got, err = s.store.GetSteamInfo(s.ctx, id)
	s.Require().NoError(err)
	s.sameTime(s.base, got.CreatedAt)
	s.Require().NotNil(got.UpdatedAt)
	s.sameTime(later, *got.UpdatedAt)
	s.JSONEq(`{"name":"alice2"}`, string(got.Profile))
	s.Empty(got.Country)
	s.Empty(got.Bans)
}

func (s *Suite) TestFlags() {
	id := s.player("76561198000000001")

	s.Require().NoError(s.store.PutFlag(s.ctx, &model.PlayerFlag{PlayerID: id, Flag: "🚩", Comment: "first", Modified: s.base}))
	s.Require().NoError(s.store.PutFlag(s.ctx, &model.PlayerFlag{PlayerID: id, Flag: "🚩", Comment: "second", Modified: s.at(time.Minute)}))
	s.Require().NoError(s.store.PutFlag(s.ctx, &model.PlayerFlag{PlayerID: id, Flag: "VIP", Modified: s.base}))

	flags, err := s.store.ListFlags(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(flags, 2)
	byFlag := map[string]model.PlayerFlag{}
	for _, f := range flags {
		byFlag[f.Flag] = f
	}
	s.Equal("second", byFlag["🚩"].Comment)

	s.Require().NoError(s.store.DeleteFlag(s.ctx, id, "VIP"))
	s.ErrorIs(s.store.DeleteFlag(s.ctx, id, "VIP"), model.ErrFlagNotFound)

	flags, err = s.store.ListFlags(s.ctx, id)
	s.Require().NoError(err)
	s.Len(flags, 1)
}

// History and deletion tests

func (s *Suite) TestGetPlayerHistory() {
	id := s.player("76561198000000001")

	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.base))
	_, err := s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
	s.Require().NoError(s.store.InsertAction(s.ctx, &model.ActionRecord{PlayerID: id, Type: model.ActionKick, Time: s.base}))
	s.Require().NoError(s.store.PutWatchlist(s.ctx, &model.Watchlist{PlayerID: id, IsWatched: true}))

	h, err := s.store.GetPlayerHistory(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, h.Player.ID)
	s.Len(h.Names, 1)
	s.Len(h.Sessions, 1)
	s.Len(h.Actions, 1)
	s.Empty(h.Flags)
	s.Nil(h.Blacklist)
	s.Require().NotNil(h.Watchlist)
	s.True(h.Watchlist.IsWatched)
	s.Nil(h.SteamInfo)
}

func (s *Suite) TestDeletePlayerRemovesOwnedRows() {
	id := s.player("76561198000000001")

	s.Require().NoError(s.store.UpsertName(s.ctx, id, "Alice", s.base))
	_, err := s.store.StartSession(s.ctx, id, s.base)
	s.Require().NoError(err)
	s.Require().NoError(s.store.InsertAction(s.ctx, &model.ActionRecord{PlayerID: id, Type: model.ActionKick, Time: s.base}))
	s.Require().NoError(s.store.PutBlacklist(s.ctx, &model.Blacklist{PlayerID: id, IsBlacklisted: true}))
	s.Require().NoError(s.store.PutFlag(s.ctx, &model.PlayerFlag{PlayerID: id, Flag: "x", Modified: s.base}))
	line := &model.LogLine{EventTime: s.base, CreatedAt: s.base, Type: "KILL", Player1ID: &id, Raw: "a killed b with M1"}
	s.Require().NoError(s.store.InsertLogLine(s.ctx, line))

	s.Require().NoError(s.store.DeletePlayer(s.ctx, id))

	_, err = s.store.GetPlayer(s.ctx, id)
	s.ErrorIs(err, model.ErrUnknownIdentity)

	fresh := s.player("76561198000000001")
	h, err := s.store.GetPlayerHistory(s.ctx, fresh)
	s.Require().NoError(err)
	s.Empty(h.Names)
	s.Empty(h.Sessions)
	s.Empty(h.Actions)
	s.Empty(h.Flags)
	s.Nil(h.Blacklist)

	lines, err := s.store.ListLogLines(s.ctx, model.LogLineFilter{})
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Nil(lines[0].Player1ID)
}

// Audit tests

func (s *Suite) TestAuditEntries() {
	for i, user := range []string{"alice", "bob", "alice"} {
		entry := &model.AuditEntry{
			Username:  user,
			CreatedAt: s.at(time.Duration(i) * time.Minute),
			Command:   "kick",
			Arguments: `{"player":"x"}`,
			Result:    "ok",
		}
		s.Require().NoError(s.store.InsertAuditEntry(s.ctx, entry))
		s.NotZero(entry.ID)
	}

	all, err := s.store.ListAuditEntries(s.ctx, model.AuditFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.sameTime(s.at(2*time.Minute), all[0].CreatedAt)

	alice, err := s.store.ListAuditEntries(s.ctx, model.AuditFilter{Username: "alice", Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(alice, 1)
	s.Equal("alice", alice[0].Username)
	s.sameTime(s.at(2*time.Minute), alice[0].CreatedAt)
}

// Map tests

func (s *Suite) TestMapHistory() {
	first, err := s.store.StartMap(s.ctx, 1, "foy_warfare", s.base)
	s.Require().NoError(err)
	_, err = s.store.StartMap(s.ctx, 2, "carentan_warfare", s.base)
	s.Require().NoError(err)
	second, err := s.store.StartMap(s.ctx, 1, "hill400_warfare", s.at(time.Hour))
	s.Require().NoError(err)

	maps, err := s.store.ListMaps(s.ctx, 1, 0)
	s.Require().NoError(err)
	s.Require().Len(maps, 2)
	s.Equal(second.ID, maps[0].ID)
	s.Nil(maps[0].End)
	s.Equal(first.ID, maps[1].ID)
	s.Require().NotNil(maps[1].End)
	s.sameTime(s.at(time.Hour), *maps[1].End)

	s.Require().NoError(s.store.EndMap(s.ctx, 1, s.at(2*time.Hour)))
	s.ErrorIs(s.store.EndMap(s.ctx, 1, s.at(3*time.Hour)), model.ErrNoOpenMap)

	all, err := s.store.ListMaps(s.ctx, -1, 0)
	s.Require().NoError(err)
	s.Len(all, 3)

	limited, err := s.store.ListMaps(s.ctx, -1, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal("hill400_warfare", limited[0].MapName)
}

// Log line tests

func (s *Suite) TestLogLinesDeduplicated() {
	line := &model.LogLine{EventTime: s.base, CreatedAt: s.base, Type: "CHAT", Raw: "hello", Server: "1"}
	s.Require().NoError(s.store.InsertLogLine(s.ctx, line))
	s.NotZero(line.ID)

	dup := &model.LogLine{EventTime: s.base, CreatedAt: s.base, Type: "CHAT", Raw: "hello", Server: "1"}
	s.ErrorIs(s.store.InsertLogLine(s.ctx, dup), model.ErrDuplicateLogLine)

	again := &model.LogLine{EventTime: s.at(time.Second), CreatedAt: s.base, Type: "CHAT", Raw: "hello", Server: "1"}
	s.Require().NoError(s.store.InsertLogLine(s.ctx, again))
}

func (s *Suite) TestListLogLinesFilters() {
	alice := s.player("76561198000000001")
	bob := s.player("76561198000000002")

	lines := []*model.LogLine{
		{EventTime: s.at(0), Type: "KILL", Player1ID: &alice, Player2ID: &bob, Raw: "alice killed bob with M1", Server: "1"},
		{EventTime: s.at(time.Minute), Type: "CHAT", Player1ID: &bob, Raw: "gg", Server: "1"},
		{EventTime: s.at(2 * time.Minute), Type: "KILL", Player1ID: &bob, Raw: "bob killed x with MP40", Server: "2"},
	}
	for _, l := range lines {
		l.CreatedAt = s.base
		s.Require().NoError(s.store.InsertLogLine(s.ctx, l))
	}

	got, err := s.store.ListLogLines(s.ctx, model.LogLineFilter{PlayerID: &alice})
	s.Require().NoError(err)
	s.Len(got, 1)

	got, err = s.store.ListLogLines(s.ctx, model.LogLineFilter{PlayerID: &bob})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("bob killed x with MP40", got[0].Raw)

	got, err = s.store.ListLogLines(s.ctx, model.LogLineFilter{Type: "kill", Server: "1"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("M1", got[0].Weapon())

	got, err = s.store.ListLogLines(s.ctx, model.LogLineFilter{Since: s.at(time.Minute), Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("KILL", got[0].Type)
}

func (s *Suite) TestInsertLogLineUnknownPlayer() {
	missing := model.PlayerID(777)
	err := s.store.InsertLogLine(s.ctx, &model.LogLine{EventTime: s.base, Type: "CHAT", Player1ID: &missing, Raw: "x"})
	s.ErrorIs(err, model.ErrUnknownIdentity)
}

// Config tests

func (s *Suite) TestConfig() {
	v, err := s.store.GetConfig(s.ctx, "welcome_message")
	s.Require().NoError(err)
	s.Nil(v)

	s.Require().NoError(s.store.PutConfig(s.ctx, "welcome_message", json.RawMessage(`{"text":"hi"}`)))
	s.Require().NoError(s.store.PutConfig(s.ctx, "welcome_message", json.RawMessage(`{"text":"hello"}`)))
	s.Require().NoError(s.store.PutConfig(s.ctx, "votekick", json.RawMessage(`{"enabled":true}`)))

	v, err = s.store.GetConfig(s.ctx, "welcome_message")
	s.Require().NoError(err)
	s.JSONEq(`{"text":"hello"}`, string(v))

	all, err := s.store.ListConfig(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Contains(all, "votekick")
}
