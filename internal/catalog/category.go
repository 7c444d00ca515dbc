// Package catalog turns an account snapshot into storefront listings.
//
// Everything here is a pure function over an immutable slice: classify,
// then filter, then sort, then paginate. Per-request state travels in a
// View value and never in package globals.
package catalog

import "dekugames/internal/core"

const (
	SingleGame    Category = "single_game"
	GamePack      Category = "game_pack"
	DLCBundle     Category = "dlc_bundle"
	Uncategorized Category = "uncategorized"
)

// Category is derived from transaction counts and never stored.
type Category string

func (c Category) String() string { return string(c) }

// IsSingleGame reports exactly one game and no DLC.
func IsSingleGame(a core.Account) bool {
	g, d := a.Counts()
	return g == 1 && d == 0
}

// IsGamePack reports more than one game, DLCs allowed.
func IsGamePack(a core.Account) bool {
	g, _ := a.Counts()
	return g > 1
}

// IsDLCBundle reports at least one DLC regardless of the game count.
func IsDLCBundle(a core.Account) bool {
	_, d := a.Counts()
	return d >= 1
}

// Classify maps an account to exactly one category. When predicates
// overlap a pack wins over a DLC bundle, and a DLC bundle wins over a
// single game.
func Classify(a core.Account) Category {
	g, d := a.Counts()
	switch {
	case g > 1:
		return GamePack
	case d >= 1:
		return DLCBundle
	case g == 1:
		return SingleGame
	default:
		return Uncategorized
	}
}

// Partition groups accounts by Classify, keeping input order within each group.
func Partition(accounts []core.Account) map[Category][]core.Account {
	out := make(map[Category][]core.Account, 4)
	for _, a := range accounts {
		c := Classify(a)
		out[c] = append(out[c], a)
	}
	return out
}
