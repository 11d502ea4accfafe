package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	Driver           string // "postgres" or "sqlite"
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB bundles the database/sql handle with the underlying pgx pool (postgres
// only) so both can be closed together.
type DB struct {
	SQL  *sql.DB
	pool *pgxpool.Pool
	log  *slog.Logger
}

// Open connects to the configured database. Postgres goes through a pgx pool
// wrapped for database/sql; sqlite goes through modernc with a single
// connection. Both drivers accept the same $n-placeholder SQL.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case "postgres":
		logger.Info("connecting to database", "driver", cfg.Driver)
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			logger.Error("failed to parse database config", "error", err)
			return nil, err
		}
		pc.MaxConns = cfg.MaxConns
		pc.MinConns = cfg.MinConns
		pc.MaxConnLifetime = cfg.MaxConnLifetime
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
		pc.ConnConfig.RuntimeParams["application_name"] = "booklingua"
		if cfg.StatementTimeout > 0 {
			pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
		}

		dialCtx := ctx
		if cfg.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
			defer cancel()
		}
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		logger.Info("successfully connected to database")
		return &DB{SQL: db, pool: pool, log: logger}, nil

	case "sqlite":
		logger.Info("opening sqlite database", "dsn", cfg.DSN)
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			logger.Error("failed to open sqlite database", "error", err)
			return nil, err
		}
		// modernc serializes writes; a single connection also keeps
		// :memory: databases coherent.
		db.SetMaxOpenConns(1)
		return &DB{SQL: db, log: logger}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates the schema if it does not exist. The DDL is portable
// between postgres and sqlite: TEXT ids, Go-supplied timestamps, ON CONFLICT
// upserts.
func (d *DB) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		author_name TEXT NOT NULL,
		book_title TEXT NOT NULL,
		word_count INTEGER NOT NULL DEFAULT 0,
		size_tier TEXT NOT NULL DEFAULT '',
		source_format TEXT NOT NULL DEFAULT '',
		languages TEXT NOT NULL,
		genre TEXT NOT NULL DEFAULT '',
		addons TEXT NOT NULL DEFAULT '[]',
		special_instructions TEXT NOT NULL DEFAULT '',
		amount_paid INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		original_content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		UNIQUE (order_id, type, language)
	);

	CREATE TABLE IF NOT EXISTS job_steps (
		order_id TEXT NOT NULL,
		step TEXT NOT NULL,
		result TEXT NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		PRIMARY KEY (order_id, step)
	);`

	if _, err := d.SQL.ExecContext(ctx, schema); err != nil {
		d.log.Error("migration failed", "error", err)
		return fmt.Errorf("migrate schema: %w", err)
	}
	d.log.Info("database schema up to date")
	return nil
}

// HealthCheck pings the database to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	d.log.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.SQL.PingContext(ctx)
}

// Close closes the database connections gracefully
func (d *DB) Close() {
	d.log.Info("closing database connections")
	if d.SQL != nil {
		if err := d.SQL.Close(); err != nil {
			d.log.Error("failed to close sql handle", "error", err)
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
	d.log.Info("database connections closed")
}
