package backend

import (
	"context"
	"fmt"
	"log/slog"

	"dekugames/internal/inventory/google"
	"dekugames/internal/inventory/memory"
	"dekugames/internal/pgstore"
	"dekugames/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.InventoryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory file: %w", err)
	}

	f.logger.Info("Initialized memory backend", "inventory_file", config.InventoryFile)

	return &BackendResult{Backend: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if config.SeedFile != "" {
		n, err := repo.SeedFromFile(ctx, config.SeedFile)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to seed SQLite inventory: %w", err)
		}
		if n > 0 {
			f.logger.Info("Seeded SQLite inventory", "seed_file", config.SeedFile, "accounts", n)
		}
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	pool, err := pgstore.NewPool(ctx, pgstore.PoolConfig{
		DSN:      config.PostgresDSN,
		MaxConns: config.PostgresMaxConns,
		MinConns: config.PostgresMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres pool: %w", err)
	}
	repo := pgstore.NewRepository(pool)

	f.logger.Info("Initialized postgres backend",
		"max_conns", config.PostgresMaxConns,
		"min_conns", config.PostgresMinConns)

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		AccountsSheet:      config.GoogleAccountsSheet,
		TransactionsSheet:  config.GoogleTransactionsSheet,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{Backend: cli}, nil
}
