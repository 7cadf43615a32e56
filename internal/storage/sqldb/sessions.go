package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

const sessionColumns = "id, player_id, start_at, end_at, created"

// StartSession closes the open session, if any, and opens a new one at the given time
func (s *Store) StartSession(ctx context.Context, id model.PlayerID, at time.Time) (model.SessionID, error) {
	var sid model.SessionID
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, id, true); err != nil {
			return err
		}

		newest, err := s.newestSession(ctx, tx, id)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if newest != nil && newest.StartedAfter(at) {
			return model.ErrSessionOutOfOrder
		}
		if newest != nil && newest.IsOpen() {
			if err := s.setSessionEnd(ctx, tx, newest.ID, at); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO player_sessions (player_id, start_at, end_at, created) VALUES (?, ?, NULL, ?)",
			int64(id), toMillis(at), toMillis(at))
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		insertID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		sid = model.SessionID(insertID)
		return nil
	})
	return sid, err
}

// EndSession closes the newest session, which must be open
func (s *Store) EndSession(ctx context.Context, id model.PlayerID, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, id, true); err != nil {
			return err
		}
		newest, err := s.newestSession(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNoOpenSession
		}
		if err != nil {
			return err
		}
		if !newest.IsOpen() {
			return model.ErrNoOpenSession
		}
		if newest.StartedAfter(at) {
			return model.ErrSessionOutOfOrder
		}
		return s.setSessionEnd(ctx, tx, newest.ID, at)
	})
}

// ListSessions returns up to limit sessions, newest first, and the total count
func (s *Store) ListSessions(ctx context.Context, id model.PlayerID, limit int) ([]model.SessionRecord, int, error) {
	var (
		sessions []model.SessionRecord
		total    int
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, id, false); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM player_sessions WHERE player_id = ?", int64(id)).Scan(&total); err != nil {
			return fmt.Errorf("count sessions: %w", err)
		}
		var err error
		sessions, err = s.listSessions(ctx, tx, id, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (s *Store) listSessions(ctx context.Context, q queryer, id model.PlayerID, limit int) ([]model.SessionRecord, error) {
	query := "SELECT " + sessionColumns + " FROM player_sessions WHERE player_id = ? ORDER BY created DESC, id DESC"
	args := []any{int64(id)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.SessionRecord{}
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// newestSession returns sql.ErrNoRows when the player has no sessions
func (s *Store) newestSession(ctx context.Context, tx *sql.Tx, id model.PlayerID) (*model.SessionRecord, error) {
	rec, err := scanSession(tx.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM player_sessions WHERE player_id = ? ORDER BY created DESC, id DESC LIMIT 1"+s.dialect.forUpdate,
		int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get newest session: %w", err)
	}
	return rec, nil
}

func (s *Store) setSessionEnd(ctx context.Context, tx *sql.Tx, sid model.SessionID, at time.Time) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE player_sessions SET end_at = ? WHERE id = ?", toMillis(at), int64(sid)); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func scanSession(row interface{ Scan(...any) error }) (*model.SessionRecord, error) {
	var (
		rec      model.SessionRecord
		id       int64
		playerID int64
		start    sql.NullInt64
		end      sql.NullInt64
		created  int64
	)
	if err := row.Scan(&id, &playerID, &start, &end, &created); err != nil {
		return nil, err
	}
	rec.ID = model.SessionID(id)
	rec.PlayerID = model.PlayerID(playerID)
	rec.Start = fromNullMillis(start)
	rec.End = fromNullMillis(end)
	rec.CreatedAt = fromMillis(created)
	return &rec, nil
}
