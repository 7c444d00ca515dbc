package inventory

import (
	"testing"

	"dekugames/internal/core"
)

const sampleJSON = `[
  {
    "id": 7,
    "nickname": " Link ",
    "final_price": 45.5,
    "account_transactions": [
      {"item_name": "Zelda TOTK", "price": 69.99, "purchase_date": "2023-05-12", "type": "game", "cover_image": "zelda-totk"},
      {"item_name": "Expansion Pass", "price": "24.99", "purchase_date": null, "type": "DLC", "cover_image": null},
      {"item_name": "Amiibo Bundle", "price": null, "type": "bundle"}
    ]
  },
  {"id": "uuid-2", "nickname": "Empty", "final_price": 3},
  {"id": "", "nickname": "NoID", "final_price": 3},
  {"id": 9, "nickname": "Negative", "final_price": -1},
  {"id": 10, "nickname": "BadItem", "final_price": 1, "account_transactions": [{"item_name": "", "type": "game"}]}
]`

func TestConvert(t *testing.T) {
	recs, err := DecodeRecords([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	b := Convert(recs)

	if len(b.Accounts) != 3 {
		t.Fatalf("accounts = %d, want 3 (rejected: %+v)", len(b.Accounts), b.Rejected)
	}
	if len(b.Rejected) != 2 {
		t.Errorf("rejected = %d, want 2", len(b.Rejected))
	}

	link := b.Accounts[0]
	if link.ID != "7" || link.Nickname != "Link" {
		t.Errorf("account = %q/%q", link.ID, link.Nickname)
	}
	if link.FinalPrice.String() != "45.5" {
		t.Errorf("final price = %s", link.FinalPrice)
	}
	if len(link.Transactions) != 3 {
		t.Fatalf("transactions = %d", len(link.Transactions))
	}
	if link.Transactions[1].Type != core.TypeDLC {
		t.Errorf("DLC type = %s", link.Transactions[1].Type)
	}
	if link.Transactions[2].Type != core.TypeOther {
		t.Errorf("unknown type = %s, want other", link.Transactions[2].Type)
	}
	if b.UnknownTypes["bundle"] != 1 {
		t.Errorf("UnknownTypes = %v", b.UnknownTypes)
	}
	if link.Transactions[0].PurchaseDate.String() != "2023-05-12" {
		t.Errorf("purchase date = %s", link.Transactions[0].PurchaseDate)
	}
	if !link.Transactions[2].Price.IsZero() {
		t.Errorf("null price = %s, want 0", link.Transactions[2].Price)
	}

	empty := b.Accounts[1]
	if empty.Transactions == nil || len(empty.Transactions) != 0 {
		t.Errorf("missing transactions should decode to an empty slice, got %#v", empty.Transactions)
	}

	badItem := b.Accounts[2]
	if badItem.ID != "10" || len(badItem.Transactions) != 0 {
		t.Errorf("nameless transaction kept: %+v", badItem)
	}
	if b.DroppedTransactions != 1 {
		t.Errorf("DroppedTransactions = %d, want 1", b.DroppedTransactions)
	}
}

func TestConvert_BadDateKeepsAccount(t *testing.T) {
	bad := "13/13/2020"
	recs := []AccountRecord{{ID: "1", Transactions: []TransactionRecord{{ItemName: "x", Type: "game", PurchaseDate: &bad}}}}
	b := Convert(recs)
	if len(b.Accounts) != 1 || len(b.Rejected) != 0 {
		t.Fatalf("Convert() = %d accounts, %d rejected", len(b.Accounts), len(b.Rejected))
	}
	tx := b.Accounts[0].Transactions
	if len(tx) != 1 || !tx[0].PurchaseDate.IsEmpty() {
		t.Errorf("transactions = %+v, want one with an empty date", tx)
	}
	if b.BadDates != 1 {
		t.Errorf("BadDates = %d, want 1", b.BadDates)
	}
}

func TestConvert_PostgresTimestamp(t *testing.T) {
	ts := "2024-01-05 10:00:00+00"
	recs := []AccountRecord{{ID: "1", Transactions: []TransactionRecord{{ItemName: "Zelda", Type: "game", PurchaseDate: &ts}}}}
	b := Convert(recs)
	if len(b.Accounts) != 1 {
		t.Fatalf("accounts = %d, rejected = %+v", len(b.Accounts), b.Rejected)
	}
	if got := b.Accounts[0].Transactions[0].PurchaseDate.String(); got != "2024-01-05" {
		t.Errorf("purchase date = %s, want 2024-01-05", got)
	}
	if b.BadDates != 0 {
		t.Errorf("BadDates = %d, want 0", b.BadDates)
	}
}

func TestConvert_NamelessTransactionSkipped(t *testing.T) {
	recs := []AccountRecord{{ID: "1", Transactions: []TransactionRecord{
		{ItemName: "  ", Type: "game"},
		{ItemName: "Kirby", Type: "game"},
	}}}
	b := Convert(recs)
	if len(b.Accounts) != 1 {
		t.Fatalf("accounts = %d, rejected = %+v", len(b.Accounts), b.Rejected)
	}
	tx := b.Accounts[0].Transactions
	if len(tx) != 1 || tx[0].ItemName != "Kirby" {
		t.Errorf("transactions = %+v, want only Kirby", tx)
	}
	if b.DroppedTransactions != 1 {
		t.Errorf("DroppedTransactions = %d, want 1", b.DroppedTransactions)
	}
}

func TestDecodeRecords_Invalid(t *testing.T) {
	if _, err := DecodeRecords([]byte(`{"id": 1}`)); err == nil {
		t.Fatal("expected error for non-array payload")
	}
}
