package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"dekugames/internal/core"
)

func TestSort_TwoAccountScenario(t *testing.T) {
	in := []core.Account{
		account("A", "A", 10, 2, 0),
		account("B", "B", 5, 3, 1),
	}
	if got := ids(Sort(in, PriceAsc, SortOptions{})); !equalIDs(got, []string{"B", "A"}) {
		t.Errorf("price_asc = %v, want [B A]", got)
	}
	if got := ids(Sort(in, GamesDesc, SortOptions{})); !equalIDs(got, []string{"B", "A"}) {
		t.Errorf("games_desc = %v, want [B A]", got)
	}
	if got := ids(Sort(in, GamesAsc, SortOptions{})); !equalIDs(got, []string{"A", "B"}) {
		t.Errorf("games_asc = %v, want [A B]", got)
	}
}

func TestSort_TieBreaksOnID(t *testing.T) {
	in := []core.Account{
		account("c", "x", 5, 1, 0),
		account("a", "y", 5, 1, 0),
		account("b", "z", 1, 1, 0),
	}
	got := ids(Sort(in, PriceAsc, SortOptions{}))
	if !equalIDs(got, []string{"b", "a", "c"}) {
		t.Errorf("price_asc = %v, want [b a c]", got)
	}
	got = ids(Sort(in, PriceDesc, SortOptions{}))
	if !equalIDs(got, []string{"a", "c", "b"}) {
		t.Errorf("price_desc = %v, want [a c b]", got)
	}
}

func TestSort_Idempotent(t *testing.T) {
	in := []core.Account{
		account("1", "delta", 30, 2, 1),
		account("2", "Alpha", 10, 1, 0),
		account("3", "charlie", 10, 4, 0),
		account("4", "bravo", 25, 2, 0),
		account("5", "alpha", 10, 1, 2),
	}
	for _, key := range []SortKey{PriceAsc, PriceDesc, NameAsc, NameDesc, GamesAsc, GamesDesc} {
		for _, names := range []NameSource{NameNickname, NamePrimaryGame} {
			opts := SortOptions{Names: names}
			once := Sort(in, key, opts)
			twice := Sort(once, key, opts)
			if !equalIDs(ids(once), ids(twice)) {
				t.Errorf("%s not idempotent: %v vs %v", key, ids(once), ids(twice))
			}
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []core.Account{account("b", "b", 2, 1, 0), account("a", "a", 1, 1, 0)}
	_ = Sort(in, PriceAsc, SortOptions{})
	if !equalIDs(ids(in), []string{"b", "a"}) {
		t.Errorf("input reordered: %v", ids(in))
	}
}

func TestSort_NameIsLocaleAware(t *testing.T) {
	mk := func(id, nick string) core.Account {
		return core.Account{ID: id, Nickname: nick, FinalPrice: decimal.Zero}
	}
	in := []core.Account{mk("1", "Zelda"), mk("2", "éclair"), mk("3", "apple"), mk("4", "Echo")}

	got := ids(Sort(in, NameAsc, SortOptions{Names: NameNickname}))
	if !equalIDs(got, []string{"3", "4", "2", "1"}) {
		t.Errorf("name_asc = %v, want [3 4 2 1]", got)
	}
	got = ids(Sort(in, NameDesc, SortOptions{Names: NameNickname}))
	if !equalIDs(got, []string{"1", "2", "4", "3"}) {
		t.Errorf("name_desc = %v, want [1 2 4 3]", got)
	}
}

func TestSort_NameByPrimaryGame(t *testing.T) {
	in := []core.Account{
		{ID: "1", Nickname: "aaa", Transactions: []core.Transaction{{ItemName: "Splatoon", Type: core.TypeGame}}},
		{ID: "2", Nickname: "zzz", Transactions: []core.Transaction{{ItemName: "Bayonetta", Type: core.TypeGame}}},
	}
	got := ids(Sort(in, NameAsc, SortOptions{Names: NamePrimaryGame}))
	if !equalIDs(got, []string{"2", "1"}) {
		t.Errorf("name_asc by game = %v, want [2 1]", got)
	}
}

func TestSort_UnknownKeyKeepsOrder(t *testing.T) {
	in := []core.Account{account("b", "b", 2, 1, 0), account("a", "a", 1, 1, 0)}
	if got := ids(Sort(in, SortKey("bogus"), SortOptions{})); !equalIDs(got, []string{"b", "a"}) {
		t.Errorf("unknown key = %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if k, ok := ParseSortKey("games_desc"); !ok || k != GamesDesc {
		t.Errorf("ParseSortKey(games_desc) = %v,%v", k, ok)
	}
	if _, ok := ParseSortKey("price"); ok {
		t.Error("ParseSortKey(price) should be unknown")
	}
}
