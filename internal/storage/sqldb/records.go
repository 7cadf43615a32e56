package sqldb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

// Audit operations

// InsertAuditEntry stores an audit entry and sets its ID
func (s *Store) InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_log (username, creation_time, command, command_arguments, command_result) VALUES (?, ?, ?, ?, ?)",
		entry.Username, toMillis(entry.CreatedAt), entry.Command, entry.Arguments, entry.Result)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns entries matching filter, newest first
func (s *Store) ListAuditEntries(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	query := "SELECT id, username, creation_time, command, command_arguments, command_result FROM audit_log"
	var args []any
	if filter.Username != "" {
		query += " WHERE username = ?"
		args = append(args, filter.Username)
	}
	query += " ORDER BY creation_time DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []model.AuditEntry{}
	for rows.Next() {
		var (
			e       model.AuditEntry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Username, &created, &e.Command, &e.Arguments, &e.Result); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.CreatedAt = fromMillis(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// Map operations

// StartMap closes any open map on server and opens a new one
func (s *Store) StartMap(ctx context.Context, server int, mapName string, at time.Time) (*model.MapRecord, error) {
	rec := &model.MapRecord{
		CreatedAt:    at,
		Start:        at,
		ServerNumber: server,
		MapName:      mapName,
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE map_history SET end_at = ? WHERE server_number = ? AND end_at IS NULL",
			toMillis(at), server); err != nil {
			return fmt.Errorf("end running map: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO map_history (creation_time, start_at, end_at, server_number, map_name) VALUES (?, ?, NULL, ?, ?)",
			toMillis(at), toMillis(at), server, mapName)
		if err != nil {
			return fmt.Errorf("insert map: %w", err)
		}
		if rec.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert map: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// EndMap returns model.ErrNoOpenMap when nothing is open on server
func (s *Store) EndMap(ctx context.Context, server int, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM map_history WHERE server_number = ? AND end_at IS NULL ORDER BY start_at DESC, id DESC LIMIT 1"+s.dialect.forUpdate,
			server).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNoOpenMap
		}
		if err != nil {
			return fmt.Errorf("get running map: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE map_history SET end_at = ? WHERE id = ?", toMillis(at), id); err != nil {
			return fmt.Errorf("end map: %w", err)
		}
		return nil
	})
}

// ListMaps returns the most recent maps on server
func (s *Store) ListMaps(ctx context.Context, server int, limit int) ([]model.MapRecord, error) {
	query := "SELECT id, creation_time, start_at, end_at, server_number, map_name FROM map_history"
	var args []any
	if server >= 0 {
		query += " WHERE server_number = ?"
		args = append(args, server)
	}
	query += " ORDER BY start_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer rows.Close()

	maps := []model.MapRecord{}
	for rows.Next() {
		var (
			m       model.MapRecord
			created int64
			start   int64
			end     sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &created, &start, &end, &m.ServerNumber, &m.MapName); err != nil {
			return nil, fmt.Errorf("scan map: %w", err)
		}
		m.CreatedAt = fromMillis(created)
		m.Start = fromMillis(start)
		m.End = fromNullMillis(end)
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	return maps, nil
}

// Log line operations

func rawHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// InsertLogLine returns model.ErrDuplicateLogLine for a repeated line
func (s *Store) InsertLogLine(ctx context.Context, line *model.LogLine) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, pid := range []*model.PlayerID{line.Player1ID, line.Player2ID} {
			if pid == nil {
				continue
			}
			if err := s.requirePlayer(ctx, tx, *pid, true); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			s.dialect.insertIgnore+` log_lines
    (version, creation_time, event_time, type, player1_name, player1_id, player2_name, player2_id, raw, raw_hash, content, server)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.Version, toMillis(line.CreatedAt), toMillis(line.EventTime), line.Type,
			line.Player1Name, nullPlayerID(line.Player1ID), line.Player2Name, nullPlayerID(line.Player2ID),
			line.Raw, rawHash(line.Raw), line.Content, line.Server)
		if err != nil {
			return fmt.Errorf("insert log line: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert log line: %w", err)
		}
		if n == 0 {
			return model.ErrDuplicateLogLine
		}
		if line.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert log line: %w", err)
		}
		return nil
	})
}

// ListLogLines returns lines matching filter, newest first
func (s *Store) ListLogLines(ctx context.Context, filter model.LogLineFilter) ([]model.LogLine, error) {
	var (
		where []string
		args  []any
	)
	if filter.PlayerID != nil {
		where = append(where, "(player1_id = ? OR player2_id = ?)")
		args = append(args, int64(*filter.PlayerID), int64(*filter.PlayerID))
	}
	if filter.Type != "" {
		where = append(where, "UPPER(type) = ?")
		args = append(args, strings.ToUpper(filter.Type))
	}
	if filter.Server != "" {
		where = append(where, "server = ?")
		args = append(args, filter.Server)
	}
	if !filter.Since.IsZero() {
		where = append(where, "event_time >= ?")
		args = append(args, toMillis(filter.Since))
	}

	query := `SELECT id, version, creation_time, event_time, type, player1_name, player1_id,
    player2_name, player2_id, raw, content, server FROM log_lines`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY event_time DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list log lines: %w", err)
	}
	defer rows.Close()

	lines := []model.LogLine{}
	for rows.Next() {
		var (
			l         model.LogLine
			created   int64
			eventTime int64
			p1, p2    sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.Version, &created, &eventTime, &l.Type, &l.Player1Name, &p1,
			&l.Player2Name, &p2, &l.Raw, &l.Content, &l.Server); err != nil {
			return nil, fmt.Errorf("scan log line: %w", err)
		}
		l.CreatedAt = fromMillis(created)
		l.EventTime = fromMillis(eventTime)
		l.Player1ID = fromNullPlayerID(p1)
		l.Player2ID = fromNullPlayerID(p2)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list log lines: %w", err)
	}
	return lines, nil
}

// Config operations

// GetConfig returns nil when key has never been set
func (s *Store) GetConfig(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT config_value FROM user_config WHERE config_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	return json.RawMessage(value), nil
}

// PutConfig inserts or replaces a setting
func (s *Store) PutConfig(ctx context.Context, key string, value json.RawMessage) error {
	d := s.dialect
	query := d.upsert("user_config",
		[]string{"config_key", "config_value"},
		[]string{"config_key"},
		d.set("config_value"),
	)
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("put config: %w", err)
	}
	return nil
}

// ListConfig returns every stored setting
func (s *Store) ListConfig(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT config_key, config_value FROM user_config")
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()

	out := map[string]json.RawMessage{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	return out, nil
}
