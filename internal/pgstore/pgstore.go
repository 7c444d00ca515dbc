// Package pgstore reads the inventory from the hosted Postgres database.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dekugames/internal/core"
	"dekugames/internal/inventory"
)

var (
	_ inventory.AccountReader = (*Repository)(nil)
	_ inventory.Pinger        = (*Repository)(nil)
)

// Numerics are read as text so prices stay exact decimals.
const listAccountsSQL = `
SELECT a.id::text,
       COALESCE(a.nickname, ''),
       COALESCE(a.final_price::text, '0'),
       t.item_name,
       t.price::text,
       t.purchase_date::text,
       t.type,
       t.cover_image
FROM nintendo_accounts a
LEFT JOIN account_transactions t ON t.account_id = a.id
ORDER BY a.nickname, a.id, t.id`

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

type Repository struct {
	pool *pgxpool.Pool
}

// NewPool parses dsn, applies the pool settings and verifies connectivity.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	return pool, nil
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ListAccounts implements inventory.AccountReader
func (r *Repository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.pool.Query(ctx, listAccountsSQL)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var joined []inventory.Row
	for rows.Next() {
		var row inventory.Row
		if err := rows.Scan(&row.AccountID, &row.Nickname, &row.FinalPrice,
			&row.ItemName, &row.Price, &row.PurchaseDate, &row.Type, &row.CoverImage); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		joined = append(joined, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	recs, err := inventory.GroupRows(joined)
	if err != nil {
		return nil, err
	}
	batch := inventory.Convert(recs)
	batch.Report(ctx, "postgres")
	return batch.Accounts, nil
}
