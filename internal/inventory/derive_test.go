package inventory

import (
	"testing"

	"dekugames/internal/core"
)

func TestGameTitlesAndCoverRefs(t *testing.T) {
	accounts := []core.Account{
		{ID: "1", Transactions: []core.Transaction{
			{ItemName: "Zelda", Type: core.TypeGame, CoverImage: "zelda"},
			{ItemName: "Pass", Type: core.TypeDLC, CoverImage: "pass"},
		}},
		{ID: "2", Transactions: []core.Transaction{
			{ItemName: "Animal Crossing", Type: core.TypeGame},
			{ItemName: "Zelda", Type: core.TypeGame, CoverImage: " zelda "},
		}},
	}
	titles := GameTitles(accounts)
	if len(titles) != 2 || titles[0] != "Animal Crossing" || titles[1] != "Zelda" {
		t.Errorf("GameTitles() = %v", titles)
	}
	refs := CoverRefs(accounts)
	if len(refs) != 2 {
		t.Errorf("CoverRefs() = %v", refs)
	}
	if _, ok := refs["zelda"]; !ok {
		t.Error("zelda should be referenced")
	}
}
