package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mcoot/rconstore/internal/model"
)

// InsertAction stores an action and sets its ID
func (s *Store) InsertAction(ctx context.Context, action *model.ActionRecord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePlayer(ctx, tx, action.PlayerID, true); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO players_actions (player_id, action_type, reason, actor, action_time) VALUES (?, ?, ?, ?, ?)",
			int64(action.PlayerID), string(action.Type), action.Reason, action.By, toMillis(action.Time))
		if err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
		if action.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
		return nil
	})
}

// ListActions returns a player's actions, newest first
func (s *Store) ListActions(ctx context.Context, id model.PlayerID) ([]model.ActionRecord, error) {
	if err := s.requirePlayer(ctx, s.db, id, false); err != nil {
		return nil, err
	}
	return s.listActions(ctx, s.db, id)
}

func (s *Store) listActions(ctx context.Context, q queryer, id model.PlayerID) ([]model.ActionRecord, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, player_id, action_type, reason, actor, action_time FROM players_actions WHERE player_id = ? ORDER BY action_time DESC, id DESC",
		int64(id))
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	actions := []model.ActionRecord{}
	for rows.Next() {
		var (
			a          model.ActionRecord
			playerID   int64
			actionType string
			at         int64
		)
		if err := rows.Scan(&a.ID, &playerID, &actionType, &a.Reason, &a.By, &at); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.PlayerID = model.PlayerID(playerID)
		a.Type = model.ActionType(actionType)
		a.Time = fromMillis(at)
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}
