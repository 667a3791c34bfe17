package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-admin/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// New opens a pgx pool and verifies the connection
func New(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Pinger is satisfied by *pgxpool.Pool and by pgxmock pools
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health pings the database and, for a pgx pool, adds its statistics
func Health(ctx context.Context, db Pinger) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := db.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}
	stats["status"] = "up"

	pool, ok := db.(*pgxpool.Pool)
	if !ok {
		return stats
	}
	s := pool.Stat()
	stats["total_conns"] = fmt.Sprint(s.TotalConns())
	stats["idle_conns"] = fmt.Sprint(s.IdleConns())
	stats["acquired_conns"] = fmt.Sprint(s.AcquiredConns())
	stats["max_conns"] = fmt.Sprint(s.MaxConns())
	return stats
}

// SQLDB exposes the pool through database/sql for goose
func SQLDB(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}
