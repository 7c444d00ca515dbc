package google

import (
	"testing"

	"dekugames/internal/inventory"
)

func TestParseInventory(t *testing.T) {
	accounts := [][]interface{}{
		{"ID", "Nickname", "Final_Price"},
		{"1", "Link", "$45.50"},
		{"2", "Empty", "3"},
		{"", "skipped", "1"},
	}
	txs := [][]interface{}{
		{"account_id", "item_name", "price", "purchase_date", "type", "cover_image"},
		{"1", "Zelda", "69,99", "2023-05-12", "game", "zelda"},
		{"1", "Pass", "24.99", "", "dlc"},
		{"9", "Orphan", "1", "", "game", ""},
		{"1", "", "1", "", "game", ""},
	}

	rows, orphans, err := parseInventory(accounts, txs)
	if err != nil {
		t.Fatalf("parseInventory() error = %v", err)
	}
	if orphans != 1 {
		t.Errorf("orphans = %d, want 1", orphans)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].AccountID != "1" || *rows[0].ItemName != "Zelda" || *rows[0].Price != "69.99" {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].CoverImage != nil {
		t.Errorf("missing cover should be nil")
	}
	if rows[2].AccountID != "2" || rows[2].ItemName != nil {
		t.Errorf("account without transactions = %+v", rows[2])
	}

	recs, err := inventory.GroupRows(rows)
	if err != nil {
		t.Fatalf("GroupRows() error = %v", err)
	}
	b := inventory.Convert(recs)
	if len(b.Accounts) != 2 || len(b.Accounts[0].Transactions) != 2 {
		t.Fatalf("converted = %+v", b.Accounts)
	}
	if b.Accounts[0].FinalPrice.String() != "45.5" {
		t.Errorf("final price = %s", b.Accounts[0].FinalPrice)
	}
}

func TestParseInventory_BadHeaders(t *testing.T) {
	if _, _, err := parseInventory([][]interface{}{{"name"}}, nil); err == nil {
		t.Error("expected error for missing account columns")
	}
	accounts := [][]interface{}{{"id", "final_price"}, {"1", "2"}}
	if _, _, err := parseInventory(accounts, [][]interface{}{{"foo"}}); err == nil {
		t.Error("expected error for missing transaction columns")
	}
}

func TestNormalizeNumber(t *testing.T) {
	tests := map[string]string{
		"$12.50":   "12.50",
		"12,50":    "12.50",
		"1,234.50": "1234.50",
		" 7 ":      "7",
	}
	for in, want := range tests {
		if got := normalizeNumber(in); got != want {
			t.Errorf("normalizeNumber(%q) = %q, want %q", in, got, want)
		}
	}
}
