package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dekugames/internal/config"
)

const seedJSON = `[
  {"id": 1, "nickname": "Zelda", "final_price": 25,
   "account_transactions": [{"item_name": "Breath of the Wild", "price": "59.99", "type": "game", "cover_image": "breath-of-the-wild"}]}
]`

func TestBackendType_IsValid(t *testing.T) {
	for _, s := range GetBackendTypeStrings() {
		if !BackendType(s).IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BackendType("mongo").IsValid() {
		t.Error("mongo should be invalid")
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "csv"}); err == nil {
		t.Error("unknown backend should fail")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "postgres", PostgresDSN: "postgres://x", PostgresMaxConns: 4})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != PostgresBackend || cfg.PostgresDSN != "postgres://x" || cfg.PostgresMaxConns != 4 {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory ok", Config{Type: MemoryBackend, InventoryFile: "data/inventory.json"}, false},
		{"memory without file", Config{Type: MemoryBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without dsn", Config{Type: PostgresBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_Memory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte(seedJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, InventoryFile: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	accounts, err := res.Backend.ListAccounts(context.Background())
	if err != nil || len(accounts) != 1 || accounts[0].Nickname != "Zelda" {
		t.Fatalf("ListAccounts() = %+v, %v", accounts, err)
	}
}

func TestFactory_SQLiteWithSeed(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(seed, []byte(seedJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(dir, "db", "dekugames.db"),
		SeedFile:     seed,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	accounts, err := res.Backend.ListAccounts(context.Background())
	if err != nil || len(accounts) != 1 {
		t.Fatalf("ListAccounts() = %+v, %v", accounts, err)
	}
	if got := len(accounts[0].Transactions); got != 1 {
		t.Errorf("transactions = %d, want 1", got)
	}
}

func TestBackendResult_CloseNil(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Error(err)
	}
	if err := (&BackendResult{}).Close(); err != nil {
		t.Error(err)
	}
}
