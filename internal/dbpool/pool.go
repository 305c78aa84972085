// Package dbpool provides PostgreSQL connection pool management.
package dbpool

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns         = 10
	defaultStatementTimeout = 30 * time.Second
)

// Pool wraps a pgxpool.Pool. Run storage is the only user, so the pool stays small.
type Pool struct {
	pool *pgxpool.Pool
}

type options struct {
	maxConns         int32
	statementTimeout time.Duration
}

// Option configures NewPool.
type Option func(*options)

// WithMaxConns caps open connections.
func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = int32(n) //nolint:gosec // bounded by config validation.
		}
	}
}

// WithStatementTimeout sets the server-side statement_timeout for every connection.
func WithStatementTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.statementTimeout = d
		}
	}
}

// NewPool connects to databaseURL and pings it before returning.
func NewPool(ctx context.Context, databaseURL string, opts ...Option) (*Pool, error) {
	o := options{maxConns: defaultMaxConns, statementTimeout: defaultStatementTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	cfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(o.statementTimeout.Milliseconds(), 10)
	cfg.ConnConfig.RuntimeParams["application_name"] = "typegraph"

	cfg.MaxConns = o.maxConns
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Exec executes a statement that returns no rows.
func (p *Pool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, arguments...)
}

// Query executes a query that returns rows.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// Begin starts a read-write transaction.
func (p *Pool) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.pool.Begin(ctx)
}

// BeginReadOnly starts a read-only transaction, used to read a run and its rows consistently.
func (p *Pool) BeginReadOnly(ctx context.Context) (pgx.Tx, error) {
	return p.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
}

// HealthCheck pings the database; the readiness check calls it.
func (p *Pool) HealthCheck(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}

	return nil
}

// ConnString returns the connection string used to create the pool. Migrations open a
// database/sql handle from it.
func (p *Pool) ConnString() string {
	return p.pool.Config().ConnString()
}

// Stat reports acquired and idle connection counts.
func (p *Pool) Stat() (acquired, idle int32) {
	s := p.pool.Stat()
	return s.AcquiredConns(), s.IdleConns()
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.pool.Close()
}
