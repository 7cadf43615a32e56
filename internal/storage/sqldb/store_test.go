package sqldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/storage"
	"github.com/mcoot/rconstore/internal/storage/storagetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "rcon.db"))
	require.NoError(t, err)
	return store
}

func TestSQLiteStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		New: func(t *testing.T) storage.Storage { return openTestStore(t) },
	})
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMigrationsApplyOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rcon.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	p, err := first.GetOrCreatePlayer(ctx, "76561198000000001", time.Now())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)

	got, err := second.GetPlayerBySteamID(ctx, "76561198000000001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id INTEGER);\n", extractUpMigration(content))
	assert.Equal(t, "SELECT 1", extractUpMigration("SELECT 1"))
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\nCREATE INDEX i ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a (id)"}, stmts)
}

func TestDialectUpsert(t *testing.T) {
	cols := []string{"player_id", "flag", "comment"}
	conflict := []string{"player_id", "flag"}

	assert.Equal(t,
		"INSERT INTO player_flags (player_id, flag, comment) VALUES (?, ?, ?) ON CONFLICT (player_id, flag) DO UPDATE SET comment = excluded.comment",
		sqliteDialect.upsert("player_flags", cols, conflict, sqliteDialect.set("comment")))
	assert.Equal(t,
		"INSERT INTO player_flags (player_id, flag, comment) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE comment = VALUES(comment)",
		mysqlDialect.upsert("player_flags", cols, conflict, mysqlDialect.set("comment")))
}

func TestMySQLConfigFormatDSN(t *testing.T) {
	cfg := MySQLConfig{User: "rcon", Password: "secret", Host: "db", Port: 3306, Name: "rcon"}
	dsn := cfg.FormatDSN()
	assert.Contains(t, dsn, "rcon:secret@tcp(db:3306)/rcon?")
	assert.Contains(t, dsn, "charset=utf8mb4")

	cfg.DSN = "custom"
	assert.Equal(t, "custom", cfg.FormatDSN())
}
