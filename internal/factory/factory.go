package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/rconstore/internal/api/sse"
	"github.com/mcoot/rconstore/internal/config"
	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/dependencies/ids"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/locking"
	lockredis "github.com/mcoot/rconstore/internal/locking/redis"
	"github.com/mcoot/rconstore/internal/services/audit"
	"github.com/mcoot/rconstore/internal/services/auth"
	"github.com/mcoot/rconstore/internal/services/logs"
	"github.com/mcoot/rconstore/internal/services/maps"
	"github.com/mcoot/rconstore/internal/services/names"
	"github.com/mcoot/rconstore/internal/services/penalties"
	"github.com/mcoot/rconstore/internal/services/players"
	"github.com/mcoot/rconstore/internal/services/sessions"
	"github.com/mcoot/rconstore/internal/services/settings"
	"github.com/mcoot/rconstore/internal/storage"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/storage/sqldb"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeSQLite = config.StorageSQLite
	StorageTypeMySQL  = config.StorageMySQL
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// Infrastructure
	Locker    locking.Locker
	Hub       *sse.Hub
	Publisher events.Publisher

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	PlayerService   *players.Service
	NameService     *names.Service
	SessionService  *sessions.Service
	PenaltyService  *penalties.Service
	AuditService    *audit.Service
	MapService      *maps.Service
	LogService      *logs.Service
	SettingsService *settings.Service
	AuthService     *auth.Service

	SessionLimit int

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "sqlite" or "mysql")
	// If empty, defaults to "memory"
	StorageType string
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// MySQLConfig holds connection settings (required if StorageType is "mysql")
	MySQLConfig *sqldb.MySQLConfig
	// RedisConfig enables the shared session lock. If nil, locking is in-process.
	RedisConfig *lockredis.Config
	// AMQPURL enables publishing events to a broker (optional)
	AMQPURL   string
	AMQPQueue string
	// AuthConfig holds operator credentials and token settings.
	// If Secret is empty a random one is generated, so tokens do not survive restarts.
	// A zero SessionDuration defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SessionLimit is the default number of sessions in a snapshot
	SessionLimit int
}

// ConfigFromEnv maps environment configuration onto the factory config
func ConfigFromEnv(c config.Config, logger *slog.Logger) (Config, error) {
	operators, err := auth.ParseOperators(c.Operators)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Logger:      logger,
		StorageType: c.Storage,
		SQLitePath:  c.SQLitePath,
		AMQPURL:     c.AMQPURL,
		AMQPQueue:   c.AMQPQueue,
		AuthConfig: auth.Config{
			Secret:          c.JWTSecret,
			SessionDuration: c.TokenTTL,
			Operators:       operators,
		},
		SessionLimit: c.SessionLimit,
	}
	if c.Storage == StorageTypeMySQL {
		cfg.MySQLConfig = &sqldb.MySQLConfig{
			DSN:      c.MySQL.DSN,
			User:     c.MySQL.User,
			Password: c.MySQL.Password,
			Host:     c.MySQL.Host,
			Port:     c.MySQL.Port,
			Name:     c.MySQL.Name,
		}
	}
	if c.RedisURL != "" {
		redisCfg := lockredis.DefaultConfig()
		redisCfg.URL = c.RedisURL
		if c.LockTTL > 0 {
			redisCfg.LockTTL = c.LockTTL
		}
		cfg.RedisConfig = &redisCfg
	}
	return cfg, nil
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []func() error
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqlStore, err := sqldb.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqlStore
	case StorageTypeMySQL:
		if cfg.MySQLConfig == nil {
			return nil, errors.New("MySQLConfig required when StorageType is mysql")
		}
		sqlStore, err := sqldb.OpenMySQL(ctx, *cfg.MySQLConfig)
		if err != nil {
			return nil, err
		}
		store = sqlStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'sqlite' or 'mysql'", storageType)
	}
	closers = append(closers, store.Close)

	// Session lock
	var locker locking.Locker = locking.NewKeyedMutex()
	if cfg.RedisConfig != nil {
		redisLocker, err := lockredis.New(*cfg.RedisConfig)
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		locker = redisLocker
		closers = append(closers, redisLocker.Close)
	}

	// Event fan-out: live stream always, broker when configured
	hub := sse.NewHub(logger)
	go hub.Run()
	closers = append(closers, func() error { hub.Close(); return nil })
	publisher := events.Multi{hub}
	if cfg.AMQPURL != "" {
		amqpPublisher := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue, logger)
		publisher = append(publisher, amqpPublisher)
		closers = append(closers, amqpPublisher.Close)
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration <= 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}
	if authCfg.Secret == "" {
		logger.Warn("no JWT secret configured, generating one for this process")
		authCfg.Secret = uuid.NewString() + uuid.NewString()
	}

	app, err := newWithDependencies(store, locker, publisher, clock.New(), ids.New(), authCfg, cfg.SessionLimit, logger)
	if err != nil {
		return fail(err)
	}
	app.Hub = hub
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	locker locking.Locker,
	publisher events.Publisher,
	clk clock.Clock,
	idGen ids.Generator,
	authCfg auth.Config,
	sessionLimit int,
	logger *slog.Logger,
) (*App, error) {
	authService, err := auth.New(clk, idGen, authCfg)
	if err != nil {
		return nil, err
	}
	if sessionLimit <= 0 {
		sessionLimit = players.DefaultSessionLimit
	}

	return &App{
		Storage:         store,
		Locker:          locker,
		Publisher:       publisher,
		Clock:           clk,
		IDs:             idGen,
		PlayerService:   players.New(store, clk, publisher, idGen, logger),
		NameService:     names.New(store, logger),
		SessionService:  sessions.New(store, locker, clk, publisher, idGen, logger),
		PenaltyService:  penalties.New(store, publisher, idGen, logger),
		AuditService:    audit.New(store, clk, logger),
		MapService:      maps.New(store, publisher, idGen, logger),
		LogService:      logs.New(store, clk, logger),
		SettingsService: settings.New(store, logger),
		AuthService:     authService,
		SessionLimit:    sessionLimit,
	}, nil
}

// Close releases every resource in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
