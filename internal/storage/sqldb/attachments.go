package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcoot/rconstore/internal/model"
)

// Blacklist

// GetBlacklist returns nil when the player has no blacklist row
func (s *Store) GetBlacklist(ctx context.Context, id model.PlayerID) (*model.Blacklist, error) {
	if err := s.requirePlayer(ctx, s.db, id, false); err != nil {
		return nil, err
	}
	return s.getBlacklist(ctx, s.db, id)
}

func (s *Store) getBlacklist(ctx context.Context, q queryer, id model.PlayerID) (*model.Blacklist, error) {
	b := model.Blacklist{PlayerID: id}
	err := q.QueryRowContext(ctx,
		"SELECT is_blacklisted, reason, actor FROM player_blacklist WHERE player_id = ?", int64(id),
	).Scan(&b.IsBlacklisted, &b.Reason, &b.By)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blacklist: %w", err)
	}
	return &b, nil
}

// PutBlacklist inserts or replaces the blacklist row
func (s *Store) PutBlacklist(ctx context.Context, b *model.Blacklist) error {
	d := s.dialect
	query := d.upsert("player_blacklist",
		[]string{"player_id", "is_blacklisted", "reason", "actor"},
		[]string{"player_id"},
		d.set("is_blacklisted"), d.set("reason"), d.set("actor"),
	)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, b.PlayerID, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, int64(b.PlayerID), b.IsBlacklisted, b.Reason, b.By); err != nil {
			return fmt.Errorf("put blacklist: %w", err)
		}
		return nil
	})
}

// Watchlist

// GetWatchlist returns nil when the player has no watchlist row
func (s *Store) GetWatchlist(ctx context.Context, id model.PlayerID) (*model.Watchlist, error) {
	if err := s.requirePlayer(ctx, s.db, id, false); err != nil {
		return nil, err
	}
	return s.getWatchlist(ctx, s.db, id)
}

func (s *Store) getWatchlist(ctx context.Context, q queryer, id model.PlayerID) (*model.Watchlist, error) {
	w := model.Watchlist{PlayerID: id}
	err := q.QueryRowContext(ctx,
		"SELECT is_watched, reason, comment FROM player_watchlist WHERE player_id = ?", int64(id),
	).Scan(&w.IsWatched, &w.Reason, &w.Comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watchlist: %w", err)
	}
	return &w, nil
}

// PutWatchlist inserts or replaces the watchlist row
func (s *Store) PutWatchlist(ctx context.Context, w *model.Watchlist) error {
	d := s.dialect
	query := d.upsert("player_watchlist",
		[]string{"player_id", "is_watched", "reason", "comment"},
		[]string{"player_id"},
		d.set("is_watched"), d.set("reason"), d.set("comment"),
	)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, w.PlayerID, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, int64(w.PlayerID), w.IsWatched, w.Reason, w.Comment); err != nil {
			return fmt.Errorf("put watchlist: %w", err)
		}
		return nil
	})
}

// Steam info

// GetSteamInfo returns nil when no profile is cached
func (s *Store) GetSteamInfo(ctx context.Context, id model.PlayerID) (*model.SteamInfo, error) {
	if err := s.requirePlayer(ctx, s.db, id, false); err != nil {
		return nil, err
	}
	return s.getSteamInfo(ctx, s.db, id)
}

func (s *Store) getSteamInfo(ctx context.Context, q queryer, id model.PlayerID) (*model.SteamInfo, error) {
	var (
		info    = model.SteamInfo{PlayerID: id}
		created int64
		updated sql.NullInt64
		profile sql.NullString
		bans    sql.NullString
	)
	err := q.QueryRowContext(ctx,
		"SELECT id, created, updated, profile, country, bans FROM steam_info WHERE player_id = ?", int64(id),
	).Scan(&info.ID, &created, &updated, &profile, &info.Country, &bans)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get steam info: %w", err)
	}
	info.CreatedAt = fromMillis(created)
	info.UpdatedAt = fromNullMillis(updated)
	info.Profile = fromNullJSON(profile)
	info.Bans = fromNullJSON(bans)
	return &info, nil
}

// PutSteamInfo inserts or replaces the cached profile
func (s *Store) PutSteamInfo(ctx context.Context, info *model.SteamInfo) error {
	d := s.dialect
	// The trailing placeholder is the update time, only written on conflict
	query := d.upsert("steam_info",
		[]string{"player_id", "created", "profile", "country", "bans"},
		[]string{"player_id"},
		"updated = ?", d.set("profile"), d.set("country"), d.set("bans"),
	)
	updated := info.CreatedAt
	if info.UpdatedAt != nil {
		updated = *info.UpdatedAt
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, info.PlayerID, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			int64(info.PlayerID), toMillis(info.CreatedAt), nullJSON(info.Profile), info.Country, nullJSON(info.Bans),
			toMillis(updated),
		); err != nil {
			return fmt.Errorf("put steam info: %w", err)
		}
		stored, err := s.getSteamInfo(ctx, tx, info.PlayerID)
		if err != nil {
			return err
		}
		*info = *stored
		return nil
	})
}

// Flags

// PutFlag adds a flag or updates its comment
func (s *Store) PutFlag(ctx context.Context, flag *model.PlayerFlag) error {
	d := s.dialect
	query := d.upsert("player_flags",
		[]string{"player_id", "flag", "comment", "modified"},
		[]string{"player_id", "flag"},
		d.set("comment"), d.set("modified"),
	)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, flag.PlayerID, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			int64(flag.PlayerID), flag.Flag, flag.Comment, toMillis(flag.Modified)); err != nil {
			return fmt.Errorf("put flag: %w", err)
		}
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM player_flags WHERE player_id = ? AND flag = ?", int64(flag.PlayerID), flag.Flag,
		).Scan(&flag.ID); err != nil {
			return fmt.Errorf("get flag id: %w", err)
		}
		return nil
	})
}

// DeleteFlag returns model.ErrFlagNotFound when the flag is absent
func (s *Store) DeleteFlag(ctx context.Context, id model.PlayerID, flag string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, id, true); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"DELETE FROM player_flags WHERE player_id = ? AND flag = ?", int64(id), flag)
		if err != nil {
			return fmt.Errorf("delete flag: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete flag: %w", err)
		}
		if n == 0 {
			return model.ErrFlagNotFound
		}
		return nil
	})
}

// ListFlags returns a player's flags in the order added
func (s *Store) ListFlags(ctx context.Context, id model.PlayerID) ([]model.PlayerFlag, error) {
	if err := s.requirePlayer(ctx, s.db, id, false); err != nil {
		return nil, err
	}
	return s.listFlags(ctx, s.db, id)
}

func (s *Store) listFlags(ctx context.Context, q queryer, id model.PlayerID) ([]model.PlayerFlag, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, flag, comment, modified FROM player_flags WHERE player_id = ? ORDER BY id", int64(id))
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	flags := []model.PlayerFlag{}
	for rows.Next() {
		f := model.PlayerFlag{PlayerID: id}
		var modified int64
		if err := rows.Scan(&f.ID, &f.Flag, &f.Comment, &modified); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		f.Modified = fromMillis(modified)
		flags = append(flags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	return flags, nil
}
