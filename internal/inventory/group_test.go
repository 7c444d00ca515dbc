package inventory

import "testing"

func strp(s string) *string { return &s }

func TestGroupRows(t *testing.T) {
	rows := []Row{
		{AccountID: "2", Nickname: "B", FinalPrice: "10.00", ItemName: strp("Mario"), Price: strp("40"), Type: strp("game")},
		{AccountID: "1", Nickname: "A", FinalPrice: "5.50"},
		{AccountID: "2", Nickname: "B", FinalPrice: "10.00", ItemName: strp("Pass"), Type: strp("dlc"), CoverImage: strp("pass")},
	}
	recs, err := GroupRows(rows)
	if err != nil {
		t.Fatalf("GroupRows() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].ID != "2" || recs[1].ID != "1" {
		t.Errorf("order = %s,%s want 2,1", recs[0].ID, recs[1].ID)
	}
	if len(recs[0].Transactions) != 2 {
		t.Errorf("account 2 transactions = %d", len(recs[0].Transactions))
	}
	if recs[1].Transactions == nil || len(recs[1].Transactions) != 0 {
		t.Errorf("account without rows should have empty transactions")
	}
	if !recs[0].Transactions[0].Price.Valid || recs[0].Transactions[1].Price.Valid {
		t.Errorf("price validity wrong: %+v", recs[0].Transactions)
	}
}

func TestGroupRows_BadTransactionPriceIsAbsent(t *testing.T) {
	recs, err := GroupRows([]Row{{AccountID: "1", FinalPrice: "3", ItemName: strp("Zelda"), Price: strp("n/a"), Type: strp("game")}})
	if err != nil {
		t.Fatalf("GroupRows() error = %v", err)
	}
	if len(recs) != 1 || len(recs[0].Transactions) != 1 || recs[0].Transactions[0].Price.Valid {
		t.Errorf("records = %+v, want one transaction with no price", recs)
	}
}

func TestGroupRows_BadPrice(t *testing.T) {
	if _, err := GroupRows([]Row{{AccountID: "1", FinalPrice: "abc"}}); err == nil {
		t.Fatal("expected error for bad final price")
	}
}
