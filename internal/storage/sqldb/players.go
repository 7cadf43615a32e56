package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

const playerColumns = "id, steam_id_64, created"

func scanPlayer(row interface{ Scan(...any) error }) (*model.Player, error) {
	var (
		p       model.Player
		id      int64
		created int64
	)
	if err := row.Scan(&id, &p.SteamID64, &created); err != nil {
		return nil, err
	}
	p.ID = model.PlayerID(id)
	p.CreatedAt = fromMillis(created)
	return &p, nil
}

// GetOrCreatePlayer returns the player for steamID, creating it at the given time
func (s *Store) GetOrCreatePlayer(ctx context.Context, steamID string, at time.Time) (*model.Player, error) {
	var player *model.Player
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			s.dialect.insertIgnore+" steam_id_64 (steam_id_64, created) VALUES (?, ?)",
			steamID, toMillis(at),
		); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		p, err := scanPlayer(tx.QueryRowContext(ctx,
			"SELECT "+playerColumns+" FROM steam_id_64 WHERE steam_id_64 = ?", steamID))
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		player = p
		return nil
	})
	return player, err
}

// GetPlayer looks a player up by internal ID
func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM steam_id_64 WHERE id = ?", int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUnknownIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

// GetPlayerBySteamID looks a player up by SteamID64
func (s *Store) GetPlayerBySteamID(ctx context.Context, steamID string) (*model.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM steam_id_64 WHERE steam_id_64 = ?", steamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUnknownIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("get player by steam id: %w", err)
	}
	return p, nil
}

// DeletePlayer relies on ON DELETE CASCADE for owned rows and
// ON DELETE SET NULL for log line references
func (s *Store) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM steam_id_64 WHERE id = ?", int64(id))
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n == 0 {
		return model.ErrUnknownIdentity
	}
	return nil
}

// GetPlayerHistory loads a player with all attached records in one transaction
func (s *Store) GetPlayerHistory(ctx context.Context, id model.PlayerID) (*model.PlayerHistory, error) {
	h := &model.PlayerHistory{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := scanPlayer(tx.QueryRowContext(ctx,
			"SELECT "+playerColumns+" FROM steam_id_64 WHERE id = ?", int64(id)))
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrUnknownIdentity
		}
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		h.Player = *p

		if h.Names, err = s.listNames(ctx, tx, id); err != nil {
			return err
		}
		if h.Sessions, err = s.listSessions(ctx, tx, id, 0); err != nil {
			return err
		}
		if h.Actions, err = s.listActions(ctx, tx, id); err != nil {
			return err
		}
		if h.Flags, err = s.listFlags(ctx, tx, id); err != nil {
			return err
		}
		if h.Blacklist, err = s.getBlacklist(ctx, tx, id); err != nil {
			return err
		}
		if h.Watchlist, err = s.getWatchlist(ctx, tx, id); err != nil {
			return err
		}
		if h.SteamInfo, err = s.getSteamInfo(ctx, tx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Name operations

// UpsertName records a name, refreshing last_seen when it is already known
func (s *Store) UpsertName(ctx context.Context, id model.PlayerID, name string, observedAt time.Time) error {
	d := s.dialect
	query := d.upsert("player_names",
		[]string{"player_id", "name", "created", "last_seen"},
		[]string{"player_id", "name"},
		fmt.Sprintf("last_seen = %s(COALESCE(last_seen, %s), %s)", d.greatest, d.excluded("last_seen"), d.excluded("last_seen")),
	)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, id, true); err != nil {
			return err
		}
		at := toMillis(observedAt)
		if _, err := tx.ExecContext(ctx, query, int64(id), name, at, at); err != nil {
			return fmt.Errorf("upsert name: %w", err)
		}
		return nil
	})
}

// ListNames returns a player's names in the order first seen
func (s *Store) ListNames(ctx context.Context, id model.PlayerID) ([]model.NameRecord, error) {
	if err := s.requirePlayer(ctx, s.db, id, false); err != nil {
		return nil, err
	}
	return s.listNames(ctx, s.db, id)
}

func (s *Store) listNames(ctx context.Context, q queryer, id model.PlayerID) ([]model.NameRecord, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, player_id, name, created, last_seen FROM player_names WHERE player_id = ? ORDER BY id",
		int64(id))
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	names := []model.NameRecord{}
	for rows.Next() {
		var (
			n        model.NameRecord
			playerID int64
			created  int64
			lastSeen sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &playerID, &n.Name, &created, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		n.PlayerID = model.PlayerID(playerID)
		n.FirstSeen = fromMillis(created)
		n.LastSeen = fromNullMillis(lastSeen)
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	model.SortNamesByLastSeen(names)
	return names, nil
}
