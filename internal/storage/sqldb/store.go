// Package sqldb implements the storage interface over database/sql for
// SQLite and MySQL. Times are stored as UTC unix milliseconds.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
	"github.com/mcoot/rconstore/internal/storage/sqldb/migrations"
)

// Store is a SQL-backed implementation of the storage interface
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// OpenSQLite opens (creating if needed) a SQLite database file and applies migrations
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	return open(ctx, sqliteDialect, dsn)
}

// MySQLConfig holds the connection settings for a MySQL database
type MySQLConfig struct {
	DSN      string // takes precedence over the individual fields
	User     string
	Password string
	Host     string
	Port     int
	Name     string
}

// FormatDSN returns the driver DSN for the config
func (c MySQLConfig) FormatDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Name
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// OpenMySQL connects to MySQL and applies migrations
func OpenMySQL(ctx context.Context, cfg MySQLConfig) (*Store, error) {
	store, err := open(ctx, mysqlDialect, cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	store.db.SetMaxOpenConns(25)
	store.db.SetMaxIdleConns(25)
	store.db.SetConnMaxLifetime(30 * time.Minute)
	return store, nil
}

func open(ctx context.Context, d dialect, dsn string) (*Store, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.name, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", d.name, err)
	}

	if err := applyMigrations(ctx, db, d, migrations.FS, d.name); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withTx runs fn in a transaction, committing only if fn succeeds
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// requirePlayer fails with model.ErrUnknownIdentity when the row is missing.
// Inside a transaction on MySQL the row is locked so it cannot be deleted concurrently.
func (s *Store) requirePlayer(ctx context.Context, q queryer, id model.PlayerID, lock bool) error {
	query := "SELECT 1 FROM steam_id_64 WHERE id = ?"
	if lock {
		query += s.dialect.forUpdate
	}
	var found int
	err := q.QueryRowContext(ctx, query, int64(id)).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrUnknownIdentity
	}
	if err != nil {
		return fmt.Errorf("check player: %w", err)
	}
	return nil
}

// toMillis normalizes timestamps into millisecond precision for storage
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

func nullJSON(value json.RawMessage) sql.NullString {
	if len(value) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(value), Valid: true}
}

func fromNullJSON(value sql.NullString) json.RawMessage {
	if !value.Valid || value.String == "" {
		return nil
	}
	return json.RawMessage(value.String)
}

func nullPlayerID(id *model.PlayerID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func fromNullPlayerID(value sql.NullInt64) *model.PlayerID {
	if !value.Valid {
		return nil
	}
	id := model.PlayerID(value.Int64)
	return &id
}
