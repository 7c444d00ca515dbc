package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dekugames/internal/core"
)

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.json")
	body := `[{"id": 1, "nickname": "A", "final_price": 10, "account_transactions": [{"item_name": "Zelda", "type": "game"}]},
	          {"id": "", "nickname": "broken", "final_price": 1}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	got, err := s.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("ListAccounts() = %+v", got)
	}
}

func TestNewFromFile_Missing(t *testing.T) {
	s, err := NewFromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	got, _ := s.ListAccounts(context.Background())
	if len(got) != 0 {
		t.Errorf("expected empty store, got %d", len(got))
	}
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := New([]core.Account{{ID: "1", Transactions: []core.Transaction{{ItemName: "x", Type: core.TypeGame}}}})
	got, _ := s.ListAccounts(context.Background())
	got[0].Transactions[0].ItemName = "mutated"
	again, _ := s.ListAccounts(context.Background())
	if again[0].Transactions[0].ItemName != "x" {
		t.Error("ListAccounts() leaked internal state")
	}

	s.Replace(nil)
	again, _ = s.ListAccounts(context.Background())
	if len(again) != 0 {
		t.Error("Replace(nil) should empty the store")
	}
}
