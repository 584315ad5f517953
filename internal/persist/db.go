package persist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/simcore/server/internal/config"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps a database/sql handle opened either over a pgx pool or over the
// embedded sqlite driver.
type DB struct {
	SQL    *sql.DB
	pool   *pgxpool.Pool
	driver string
	log    *zap.Logger
}

func Open(ctx context.Context, cfg config.JournalConfig, log *zap.Logger) (*DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case DriverSQLite:
		return openSQLite(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unknown journal driver %q", cfg.Driver)
}

func openPostgres(ctx context.Context, cfg config.JournalConfig, log *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &DB{SQL: stdlib.OpenDBFromPool(pool), pool: pool, driver: DriverPostgres, log: log}, nil
}

func openSQLite(ctx context.Context, cfg config.JournalConfig, log *zap.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	return &DB{SQL: db, driver: DriverSQLite, log: log}, nil
}

func (db *DB) Driver() string { return db.driver }

func (db *DB) Close() {
	if err := db.SQL.Close(); err != nil {
		db.log.Warn("close journal db", zap.Error(err))
	}
	if db.pool != nil {
		db.pool.Close()
	}
}
