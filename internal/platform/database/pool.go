// Package database opens the Postgres pool and runs units of work on it.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	dErrors "coldchain/pkg/domain-errors"
	txcontext "coldchain/pkg/platform/tx"
)

const (
	defaultTxTimeout = 5 * time.Second
	pingTimeout      = 5 * time.Second
)

var errNotConfigured = errors.New("database not configured")

// Config sizes the pool. An empty URL means no database.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
	}
}

// Pool is a *sql.DB over pgx that also implements tx.Runner.
type Pool struct {
	db *sql.DB
}

// New opens and pings the pool. It returns nil, nil for an empty URL so the
// caller can fall back to in-memory stores.
func New(ctx context.Context, cfg Config) (*Pool, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{db: db}, nil
}

// FromDB wraps a handle opened elsewhere, such as a test container.
func FromDB(db *sql.DB) *Pool {
	return &Pool{db: db}
}

func (p *Pool) DB() *sql.DB {
	return p.db
}

func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return errNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// RunInTx runs fn in a transaction carried on the context so every store
// call inside fn joins it. A call nested in another RunInTx joins the outer
// transaction. Without a caller deadline the transaction gets five seconds.
func (p *Pool) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Err() != nil {
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, nested := txcontext.From(ctx); nested {
		return fn(ctx)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after a successful Commit is a no-op; it also covers a panic in fn.
	defer tx.Rollback() //nolint:errcheck // the fn or Commit error is what matters

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
