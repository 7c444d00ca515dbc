package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dekugames/internal/core"
	"dekugames/internal/inventory"

	_ "modernc.org/sqlite"
)

var (
	_ inventory.AccountReader = (*SQLiteRepository)(nil)
	_ inventory.Pinger        = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements inventory.Pinger
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListAccounts implements inventory.AccountReader
func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, listAccountsSQL)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var joined []inventory.Row
	for rows.Next() {
		var row inventory.Row
		var item, price, date, typ, cover sql.NullString
		if err := rows.Scan(&row.AccountID, &row.Nickname, &row.FinalPrice, &item, &price, &date, &typ, &cover); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		row.ItemName = nullable(item)
		row.Price = nullable(price)
		row.PurchaseDate = nullable(date)
		row.Type = nullable(typ)
		row.CoverImage = nullable(cover)
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
	batch.Report(ctx, "sqlite")
	return batch.Accounts, nil
}

// CountAccounts returns the number of stored accounts.
func (r *SQLiteRepository) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countAccountsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// ImportRecords upserts accounts and replaces their transactions in one transaction.
func (r *SQLiteRepository) ImportRecords(ctx context.Context, recs []inventory.AccountRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("account %s: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, upsertAccountSQL, string(rec.ID), rec.Nickname, rec.FinalPrice.String()); err != nil {
			return fmt.Errorf("upsert account %s: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteTransactionsSQL, string(rec.ID)); err != nil {
			return fmt.Errorf("clear transactions for %s: %w", rec.ID, err)
		}
		for _, t := range rec.Transactions {
			var price any
			if t.Price.Valid {
				price = t.Price.Decimal.String()
			}
			if _, err := tx.ExecContext(ctx, insertTransactionSQL,
				string(rec.ID), t.ItemName, price, t.PurchaseDate, t.Type, t.CoverImage); err != nil {
				return fmt.Errorf("insert transaction %q: %w", t.ItemName, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// SeedFromFile imports a JSON inventory file when the accounts table is empty.
// It returns the number of imported accounts.
func (r *SQLiteRepository) SeedFromFile(ctx context.Context, path string) (int, error) {
	n, err := r.CountAccounts(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	recs, err := inventory.DecodeRecords(data)
	if err != nil {
		return 0, err
	}
	if err := r.ImportRecords(ctx, recs); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Seeded inventory", "path", path, "accounts", len(recs))
	return len(recs), nil
}

// RecordIntent stores an intent. Redelivered intents are ignored and
// reported as not inserted.
func (r *SQLiteRepository) RecordIntent(ctx context.Context, in core.PurchaseIntent) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertIntentSQL,
		in.ID, in.AccountID, in.Nickname, in.Price.String(),
		string(in.Currency), string(in.Channel), in.Message, in.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert purchase intent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// MarkIntentNotified stamps the seller notification time.
func (r *SQLiteRepository) MarkIntentNotified(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, markIntentNotifiedSQL, id); err != nil {
		return fmt.Errorf("mark intent notified: %w", err)
	}
	return nil
}

// IntentNotified reports whether the seller was already told about id.
// An unknown id reports false.
func (r *SQLiteRepository) IntentNotified(ctx context.Context, id string) (bool, error) {
	var notified bool
	err := r.db.QueryRowContext(ctx, intentNotifiedSQL, id).Scan(&notified)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query intent %s: %w", id, err)
	}
	return notified, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
