package catalog

import (
	"testing"

	"dekugames/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		g, d int
		want Category
	}{
		{"empty account", 0, 0, Uncategorized},
		{"one game", 1, 0, SingleGame},
		{"one game one dlc", 1, 1, DLCBundle},
		{"dlc only", 0, 2, DLCBundle},
		{"two games", 2, 0, GamePack},
		{"pack with dlc", 3, 1, GamePack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(account("1", "x", 1, tt.g, tt.d)); got != tt.want {
				t.Errorf("Classify(g=%d,d=%d) = %s, want %s", tt.g, tt.d, got, tt.want)
			}
		})
	}
}

func TestPredicatesMatchCounts(t *testing.T) {
	for g := 0; g <= 3; g++ {
		for d := 0; d <= 3; d++ {
			a := account("1", "x", 1, g, d)
			if IsSingleGame(a) != (g == 1 && d == 0) {
				t.Errorf("IsSingleGame(g=%d,d=%d) wrong", g, d)
			}
			if IsGamePack(a) != (g > 1) {
				t.Errorf("IsGamePack(g=%d,d=%d) wrong", g, d)
			}
			if IsDLCBundle(a) != (d >= 1) {
				t.Errorf("IsDLCBundle(g=%d,d=%d) wrong", g, d)
			}
			if (Classify(a) == Uncategorized) != (g == 0 && d == 0) {
				t.Errorf("Uncategorized(g=%d,d=%d) wrong", g, d)
			}
		}
	}
}

func TestClassify_ReclassifiesOnDataChange(t *testing.T) {
	a := account("1", "solo", 20, 1, 0)
	if Classify(a) != SingleGame {
		t.Fatalf("Classify() = %s, want single_game", Classify(a))
	}
	a.Transactions = append(a.Transactions, core.Transaction{ItemName: "Pass", Type: core.TypeDLC})
	if Classify(a) != DLCBundle {
		t.Fatalf("Classify() after DLC = %s, want dlc_bundle", Classify(a))
	}
}

func TestClassify_IgnoresUnknownTypes(t *testing.T) {
	a := core.Account{ID: "1", Transactions: []core.Transaction{{ItemName: "?", Type: core.TypeOther}}}
	if Classify(a) != Uncategorized {
		t.Errorf("Classify() = %s, want uncategorized", Classify(a))
	}
}

func TestPartition(t *testing.T) {
	in := []core.Account{
		account("a", "a", 1, 1, 0),
		account("b", "b", 1, 2, 0),
		account("c", "c", 1, 1, 0),
		account("d", "d", 1, 0, 0),
	}
	got := Partition(in)
	if !equalIDs(ids(got[SingleGame]), []string{"a", "c"}) {
		t.Errorf("single_game = %v", ids(got[SingleGame]))
	}
	if !equalIDs(ids(got[GamePack]), []string{"b"}) {
		t.Errorf("game_pack = %v", ids(got[GamePack]))
	}
	if !equalIDs(ids(got[Uncategorized]), []string{"d"}) {
		t.Errorf("uncategorized = %v", ids(got[Uncategorized]))
	}
}
