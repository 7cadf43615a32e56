package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rconstore/internal/config"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/storage/sqldb"
	"github.com/mcoot/rconstore/internal/testutil"
)

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(context.Background(), Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	assert.IsType(t, &memory.Storage{}, app.Storage)
	assert.NotNil(t, app.Hub)
	assert.Equal(t, 5, app.SessionLimit)

	// Generated secret still issues tokens, but nobody can log in without operators
	_, err = app.AuthService.Login("anyone", "anything")
	assert.Error(t, err)
}

func TestNewWithSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rcon.db")
	app, err := New(context.Background(), Config{
		StorageType:  StorageTypeSQLite,
		SQLitePath:   path,
		SessionLimit: 3,
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	assert.IsType(t, &sqldb.Store{}, app.Storage)
	assert.Equal(t, 3, app.SessionLimit)

	player, err := app.PlayerService.GetOrCreate(context.Background(), "76561198000000099")
	require.NoError(t, err)
	assert.NotZero(t, player.ID)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "postgres"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{StorageType: StorageTypeSQLite})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{StorageType: StorageTypeMySQL})
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	cfg, err := ConfigFromEnv(config.Config{
		Storage:      config.StorageMySQL,
		MySQL:        config.MySQL{Name: "rcon", Host: "db", Port: 3306},
		RedisURL:     "redis://cache:6379/0",
		AMQPURL:      "amqp://guest:guest@mq:5672/",
		AMQPQueue:    "rcon.player.events",
		SessionLimit: 7,
	}, testutil.NopLogger())
	require.NoError(t, err)

	require.NotNil(t, cfg.MySQLConfig)
	assert.Equal(t, "db", cfg.MySQLConfig.Host)
	assert.Equal(t, 3306, cfg.MySQLConfig.Port)
	assert.Equal(t, "rcon", cfg.MySQLConfig.Name)
	assert.Contains(t, cfg.MySQLConfig.FormatDSN(), "tcp(db:3306)/rcon")
	require.NotNil(t, cfg.RedisConfig)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisConfig.URL)
	assert.Equal(t, 7, cfg.SessionLimit)

	_, err = ConfigFromEnv(config.Config{Operators: "broken"}, testutil.NopLogger())
	assert.Error(t, err)
}
