package memory

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Every operation holds the store mutex for its whole duration, which
// gives the same atomicity as a single transaction.
type Storage struct {
	mu sync.RWMutex

	nextID int64

	players    map[model.PlayerID]*model.Player
	steamIndex map[string]model.PlayerID

	names      map[model.PlayerID][]model.NameRecord
	sessions   map[model.PlayerID][]model.SessionRecord
	actions    map[model.PlayerID][]model.ActionRecord
	flags      map[model.PlayerID][]model.PlayerFlag
	blacklist  map[model.PlayerID]model.Blacklist
	watchlist  map[model.PlayerID]model.Watchlist
	steamInfo  map[model.PlayerID]model.SteamInfo
	audit      []model.AuditEntry
	maps       []model.MapRecord
	logLines   []model.LogLine
	logLineKey map[logLineKey]struct{}
	config     map[string]json.RawMessage
}

type logLineKey struct {
	eventTime int64
	raw       string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:    make(map[model.PlayerID]*model.Player),
		steamIndex: make(map[string]model.PlayerID),
		names:      make(map[model.PlayerID][]model.NameRecord),
		sessions:   make(map[model.PlayerID][]model.SessionRecord),
		actions:    make(map[model.PlayerID][]model.ActionRecord),
		flags:      make(map[model.PlayerID][]model.PlayerFlag),
		blacklist:  make(map[model.PlayerID]model.Blacklist),
		watchlist:  make(map[model.PlayerID]model.Watchlist),
		steamInfo:  make(map[model.PlayerID]model.SteamInfo),
		logLineKey: make(map[logLineKey]struct{}),
		config:     make(map[string]json.RawMessage),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) newID() int64 {
	s.nextID++
	return s.nextID
}

// requirePlayer must be called with the lock held
func (s *Storage) requirePlayer(id model.PlayerID) error {
	if _, ok := s.players[id]; !ok {
		return model.ErrUnknownIdentity
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Player operations

func (s *Storage) GetOrCreatePlayer(ctx context.Context, steamID string, at time.Time) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.steamIndex[steamID]; ok {
		p := *s.players[id]
		return &p, nil
	}
	p := &model.Player{
		ID:        model.PlayerID(s.newID()),
		SteamID64: steamID,
		CreatedAt: at,
	}
	s.players[p.ID] = p
	s.steamIndex[steamID] = p.ID
	c := *p
	return &c, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrUnknownIdentity
	}
	c := *p
	return &c, nil
}

func (s *Storage) GetPlayerBySteamID(ctx context.Context, steamID string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.steamIndex[steamID]
	if !ok {
		return nil, model.ErrUnknownIdentity
	}
	c := *s.players[id]
	return &c, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return model.ErrUnknownIdentity
	}
	delete(s.steamIndex, p.SteamID64)
	delete(s.players, id)
	delete(s.names, id)
	delete(s.sessions, id)
	delete(s.actions, id)
	delete(s.flags, id)
	delete(s.blacklist, id)
	delete(s.watchlist, id)
	delete(s.steamInfo, id)
	// Log lines are not owned by the identity; only the reference goes.
	for i := range s.logLines {
		if l := &s.logLines[i]; l.Player1ID != nil && *l.Player1ID == id {
			l.Player1ID = nil
		}
		if l := &s.logLines[i]; l.Player2ID != nil && *l.Player2ID == id {
			l.Player2ID = nil
		}
	}
	return nil
}

func (s *Storage) GetPlayerHistory(ctx context.Context, id model.PlayerID) (*model.PlayerHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrUnknownIdentity
	}
	h := &model.PlayerHistory{
		Player:   *p,
		Names:    s.namesLocked(id),
		Sessions: s.sessionsLocked(id),
		Actions:  s.actionsLocked(id),
		Flags:    slices.Clone(s.flags[id]),
	}
	if b, ok := s.blacklist[id]; ok {
		h.Blacklist = &b
	}
	if w, ok := s.watchlist[id]; ok {
		h.Watchlist = &w
	}
	if info, ok := s.steamInfo[id]; ok {
		info.UpdatedAt = cloneTime(info.UpdatedAt)
		h.SteamInfo = &info
	}
	return h, nil
}

// Name operations

func (s *Storage) UpsertName(ctx context.Context, id model.PlayerID, name string, observedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(id); err != nil {
		return err
	}
	names := s.names[id]
	for i := range names {
		if names[i].Name != name {
			continue
		}
		if names[i].LastSeen == nil || observedAt.After(*names[i].LastSeen) {
			names[i].LastSeen = cloneTime(&observedAt)
		}
		return nil
	}
	s.names[id] = append(names, model.NameRecord{
		ID:        s.newID(),
		PlayerID:  id,
		Name:      name,
		FirstSeen: observedAt,
		LastSeen:  cloneTime(&observedAt),
	})
	return nil
}

func (s *Storage) ListNames(ctx context.Context, id model.PlayerID) ([]model.NameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, err
	}
	return s.namesLocked(id), nil
}

func (s *Storage) namesLocked(id model.PlayerID) []model.NameRecord {
	names := make([]model.NameRecord, len(s.names[id]))
	for i, n := range s.names[id] {
		n.LastSeen = cloneTime(n.LastSeen)
		names[i] = n
	}
	model.SortNamesByLastSeen(names)
	return names
}

// Session operations

func (s *Storage) StartSession(ctx context.Context, id model.PlayerID, at time.Time) (model.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(id); err != nil {
		return 0, err
	}
	if i := s.newestSessionLocked(id); i >= 0 {
		newest := &s.sessions[id][i]
		if newest.StartedAfter(at) {
			return 0, model.ErrSessionOutOfOrder
		}
		if newest.IsOpen() {
			newest.End = cloneTime(&at)
		}
	}
	rec := model.SessionRecord{
		ID:        model.SessionID(s.newID()),
		PlayerID:  id,
		CreatedAt: at,
		Start:     cloneTime(&at),
	}
	s.sessions[id] = append(s.sessions[id], rec)
	return rec.ID, nil
}

func (s *Storage) EndSession(ctx context.Context, id model.PlayerID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(id); err != nil {
		return err
	}
	i := s.newestSessionLocked(id)
	if i < 0 || !s.sessions[id][i].IsOpen() {
		return model.ErrNoOpenSession
	}
	if s.sessions[id][i].StartedAfter(at) {
		return model.ErrSessionOutOfOrder
	}
	s.sessions[id][i].End = cloneTime(&at)
	return nil
}

func (s *Storage) ListSessions(ctx context.Context, id model.PlayerID, limit int) ([]model.SessionRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, 0, err
	}
	sessions := s.sessionsLocked(id)
	total := len(sessions)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, total, nil
}

// newestSessionLocked returns the index of the newest session in the
// unsorted per-player slice, or -1
func (s *Storage) newestSessionLocked(id model.PlayerID) int {
	newest := -1
	for i, rec := range s.sessions[id] {
		if newest < 0 {
			newest = i
			continue
		}
		cur := s.sessions[id][newest]
		if rec.CreatedAt.After(cur.CreatedAt) || (rec.CreatedAt.Equal(cur.CreatedAt) && rec.ID > cur.ID) {
			newest = i
		}
	}
	return newest
}

func (s *Storage) sessionsLocked(id model.PlayerID) []model.SessionRecord {
	sessions := make([]model.SessionRecord, len(s.sessions[id]))
	for i, rec := range s.sessions[id] {
		rec.Start = cloneTime(rec.Start)
		rec.End = cloneTime(rec.End)
		sessions[i] = rec
	}
	model.SortSessionsNewestFirst(sessions)
	return sessions
}

// Action operations

func (s *Storage) InsertAction(ctx context.Context, action *model.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(action.PlayerID); err != nil {
		return err
	}
	action.ID = s.newID()
	s.actions[action.PlayerID] = append(s.actions[action.PlayerID], *action)
	return nil
}

func (s *Storage) ListActions(ctx context.Context, id model.PlayerID) ([]model.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, err
	}
	return s.actionsLocked(id), nil
}

func (s *Storage) actionsLocked(id model.PlayerID) []model.ActionRecord {
	actions := slices.Clone(s.actions[id])
	if actions == nil {
		actions = []model.ActionRecord{}
	}
	model.SortActionsNewestFirst(actions)
	return actions
}

// Attachment operations

func (s *Storage) GetBlacklist(ctx context.Context, id model.PlayerID) (*model.Blacklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, err
	}
	b, ok := s.blacklist[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *Storage) PutBlacklist(ctx context.Context, b *model.Blacklist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(b.PlayerID); err != nil {
		return err
	}
	s.blacklist[b.PlayerID] = *b
	return nil
}

func (s *Storage) GetWatchlist(ctx context.Context, id model.PlayerID) (*model.Watchlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, err
	}
	w, ok := s.watchlist[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *Storage) PutWatchlist(ctx context.Context, w *model.Watchlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(w.PlayerID); err != nil {
		return err
	}
	s.watchlist[w.PlayerID] = *w
	return nil
}

func (s *Storage) GetSteamInfo(ctx context.Context, id model.PlayerID) (*model.SteamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, err
	}
	info, ok := s.steamInfo[id]
	if !ok {
		return nil, nil
	}
	info.UpdatedAt = cloneTime(info.UpdatedAt)
	return &info, nil
}

func (s *Storage) PutSteamInfo(ctx context.Context, info *model.SteamInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(info.PlayerID); err != nil {
		return err
	}
	rec := *info
	if existing, ok := s.steamInfo[info.PlayerID]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		updated := info.CreatedAt
		if info.UpdatedAt != nil {
			updated = *info.UpdatedAt
		}
		rec.UpdatedAt = &updated
	} else {
		rec.ID = s.newID()
		rec.UpdatedAt = nil
	}
	s.steamInfo[info.PlayerID] = rec
	*info = rec
	info.UpdatedAt = cloneTime(rec.UpdatedAt)
	return nil
}

func (s *Storage) PutFlag(ctx context.Context, flag *model.PlayerFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(flag.PlayerID); err != nil {
		return err
	}
	flags := s.flags[flag.PlayerID]
	for i := range flags {
		if flags[i].Flag == flag.Flag {
			flag.ID = flags[i].ID
			flags[i] = *flag
			return nil
		}
	}
	flag.ID = s.newID()
	s.flags[flag.PlayerID] = append(flags, *flag)
	return nil
}

func (s *Storage) DeleteFlag(ctx context.Context, id model.PlayerID, flag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlayer(id); err != nil {
		return err
	}
	flags := s.flags[id]
	for i := range flags {
		if flags[i].Flag == flag {
			s.flags[id] = slices.Delete(flags, i, i+1)
			return nil
		}
	}
	return model.ErrFlagNotFound
}

func (s *Storage) ListFlags(ctx context.Context, id model.PlayerID) ([]model.PlayerFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requirePlayer(id); err != nil {
		return nil, err
	}
	flags := slices.Clone(s.flags[id])
	if flags == nil {
		flags = []model.PlayerFlag{}
	}
	return flags, nil
}

// Audit operations

func (s *Storage) InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.newID()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *Storage) ListAuditEntries(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []model.AuditEntry{}
	for i := len(s.audit) - 1; i >= 0; i-- {
		e := s.audit[i]
		if filter.Username != "" && e.Username != filter.Username {
			continue
		}
		entries = append(entries, e)
	}
	slices.SortStableFunc(entries, func(a, b model.AuditEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

// Map operations

func (s *Storage) StartMap(ctx context.Context, server int, mapName string, at time.Time) (*model.MapRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.maps {
		if s.maps[i].ServerNumber == server && s.maps[i].End == nil {
			s.maps[i].End = cloneTime(&at)
		}
	}
	rec := model.MapRecord{
		ID:           s.newID(),
		CreatedAt:    at,
		Start:        at,
		ServerNumber: server,
		MapName:      mapName,
	}
	s.maps = append(s.maps, rec)
	return &rec, nil
}

func (s *Storage) EndMap(ctx context.Context, server int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.maps) - 1; i >= 0; i-- {
		if s.maps[i].ServerNumber == server && s.maps[i].End == nil {
			s.maps[i].End = cloneTime(&at)
			return nil
		}
	}
	return model.ErrNoOpenMap
}

func (s *Storage) ListMaps(ctx context.Context, server int, limit int) ([]model.MapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maps := []model.MapRecord{}
	for _, m := range s.maps {
		if server >= 0 && m.ServerNumber != server {
			continue
		}
		m.End = cloneTime(m.End)
		maps = append(maps, m)
	}
	slices.SortStableFunc(maps, func(a, b model.MapRecord) int {
		if c := b.Start.Compare(a.Start); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	if limit > 0 && len(maps) > limit {
		maps = maps[:limit]
	}
	return maps, nil
}

// Log line operations

func (s *Storage) InsertLogLine(ctx context.Context, line *model.LogLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pid := range []*model.PlayerID{line.Player1ID, line.Player2ID} {
		if pid == nil {
			continue
		}
		if err := s.requirePlayer(*pid); err != nil {
			return err
		}
	}
	key := logLineKey{eventTime: line.EventTime.UnixNano(), raw: line.Raw}
	if _, ok := s.logLineKey[key]; ok {
		return model.ErrDuplicateLogLine
	}
	s.logLineKey[key] = struct{}{}
	line.ID = s.newID()
	s.logLines = append(s.logLines, *line)
	return nil
}

func (s *Storage) ListLogLines(ctx context.Context, filter model.LogLineFilter) ([]model.LogLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := []model.LogLine{}
	for _, l := range s.logLines {
		if filter.PlayerID != nil && !refersTo(l, *filter.PlayerID) {
			continue
		}
		if filter.Type != "" && !strings.EqualFold(l.Type, filter.Type) {
			continue
		}
		if filter.Server != "" && l.Server != filter.Server {
			continue
		}
		if !filter.Since.IsZero() && l.EventTime.Before(filter.Since) {
			continue
		}
		lines = append(lines, l)
	}
	slices.SortStableFunc(lines, func(a, b model.LogLine) int {
		return b.EventTime.Compare(a.EventTime)
	})
	if filter.Limit > 0 && len(lines) > filter.Limit {
		lines = lines[:filter.Limit]
	}
	return lines, nil
}

func refersTo(l model.LogLine, id model.PlayerID) bool {
	return (l.Player1ID != nil && *l.Player1ID == id) || (l.Player2ID != nil && *l.Player2ID == id)
}

// Config operations

func (s *Storage) GetConfig(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.config[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (s *Storage) PutConfig(ctx context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = slices.Clone(value)
	return nil
}

func (s *Storage) ListConfig(ctx context.Context) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.config))
	for k, v := range s.config {
		out[k] = slices.Clone(v)
	}
	return out, nil
}
