package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"dekugames/internal/core"
	"dekugames/internal/inventory"
)

var _ inventory.AccountReader = (*Store)(nil)

// Store keeps accounts in memory. It is seeded from a JSON file shaped
// like the hosted store's response.
type Store struct {
	mu       sync.RWMutex
	accounts []core.Account
}

func New(accounts []core.Account) *Store {
	return &Store{accounts: cloneAccounts(accounts)}
}

// NewFromFile loads path. A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Warn("Inventory seed file not found, starting empty", "path", path)
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read inventory file: %w", err)
	}
	recs, err := inventory.DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	batch := inventory.Convert(recs)
	batch.Report(context.Background(), "file")
	return New(batch.Accounts), nil
}

// ListAccounts returns a copy of the stored accounts.
func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAccounts(s.accounts), nil
}

// Replace swaps the whole inventory.
func (s *Store) Replace(accounts []core.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = cloneAccounts(accounts)
}

func cloneAccounts(in []core.Account) []core.Account {
	out := make([]core.Account, len(in))
	for i, a := range in {
		a.Transactions = append([]core.Transaction(nil), a.Transactions...)
		out[i] = a
	}
	return out
}
