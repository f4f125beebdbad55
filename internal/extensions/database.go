package extensions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/resilience"
)

// ErrDatabaseDisabled is returned when no database URL is configured.
var ErrDatabaseDisabled = errors.New("database not configured")

// dbPool is the subset of *pgxpool.Pool the extension uses.
type dbPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Database owns the Postgres connection pool.
type Database struct {
	pool    dbPool
	cb      *gobreaker.CircuitBreaker
	connect func(ctx context.Context, cfg config.DatabaseConfig) (dbPool, error)
}

// NewDatabase returns an uninitialized database extension.
func NewDatabase() *Database {
	return &Database{connect: connectPool}
}

// InitApp opens the pool. Connections are established lazily, so an
// unreachable server surfaces through the health check, not here.
func (d *Database) InitApp(a *app.Application) error {
	cfg := a.Config.Database
	if cfg.URL == "" {
		a.Logger.Info("Database disabled, DATABASE_URL not set")
		return nil
	}

	pool, err := d.connect(context.Background(), cfg)
	if err != nil {
		return err
	}
	d.pool = pool
	d.cb = resilience.NewBreaker("postgres", a.Logger.Logger, resilience.WithSuccessFilter(serverAnswered))

	a.OnShutdown(func(context.Context) error {
		pool.Close()
		return nil
	})
	a.AddHealthCheck("postgres", d.Ping)
	a.Logger.Info("Database pool opened", zap.Int32("max_conns", cfg.MaxConns))
	return nil
}

// Enabled reports whether a pool was opened.
func (d *Database) Enabled() bool {
	return d.pool != nil
}

// Ping checks the server through the circuit breaker.
func (d *Database) Ping(ctx context.Context) error {
	if d.pool == nil {
		return ErrDatabaseDisabled
	}
	return resilience.Call(ctx, d.cb, d.pool.Ping)
}

// Exec runs a statement and returns the number of affected rows.
func (d *Database) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if d.pool == nil {
		return 0, ErrDatabaseDisabled
	}
	var tag pgconn.CommandTag
	err := resilience.Call(ctx, d.cb, func(ctx context.Context) error {
		var err error
		tag, err = d.pool.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// QueryRow runs a query expected to return at most one row.
func (d *Database) QueryRow(ctx context.Context, sql string, args ...any) (pgx.Row, error) {
	if d.pool == nil {
		return nil, ErrDatabaseDisabled
	}
	return d.pool.QueryRow(ctx, sql, args...), nil
}

// serverAnswered reports errors that say nothing about the server's
// health: SQL errors raised by Postgres for a statement, such as
// constraint violations, and callers giving up.
func serverAnswered(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) || errors.Is(err, context.Canceled)
}

// DatabaseFrom returns the initialized database extension of a.
func DatabaseFrom(a *app.Application) (*Database, bool) {
	ext, ok := a.Extension(DatabaseID)
	if !ok {
		return nil, false
	}
	db, ok := ext.(*Database)
	return db, ok
}

func connectPool(ctx context.Context, cfg config.DatabaseConfig) (dbPool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	return pool, nil
}
