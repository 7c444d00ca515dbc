package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"dekugames/internal/core"
)

const (
	PriceAsc  SortKey = "price_asc"
	PriceDesc SortKey = "price_desc"
	NameAsc   SortKey = "name_asc"
	NameDesc  SortKey = "name_desc"
	GamesAsc  SortKey = "games_asc"
	GamesDesc SortKey = "games_desc"
)

const (
	// NameNickname sorts names by the account nickname.
	NameNickname NameSource = iota
	// NamePrimaryGame sorts names by the first game's title.
	NamePrimaryGame
)

type (
	SortKey    string
	NameSource int

	SortOptions struct {
		Names NameSource
		Lang  language.Tag
	}
)

// ParseSortKey returns the key and whether it is one of the known keys.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(s)
	switch k {
	case PriceAsc, PriceDesc, NameAsc, NameDesc, GamesAsc, GamesDesc:
		return k, true
	}
	return "", false
}

func (k SortKey) String() string { return string(k) }

// Sort returns a sorted copy of accounts. Equal primary keys fall back to
// account ID ascending, so repeated sorts are idempotent.
// An unknown key returns the copy unchanged.
func Sort(accounts []core.Account, key SortKey, opts SortOptions) []core.Account {
	out := make([]core.Account, len(accounts))
	copy(out, accounts)

	primary := comparator(key, opts)
	if primary == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := primary(out[i], out[j]); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// comparator returns a three-way compare for key, or nil for unknown keys.
func comparator(key SortKey, opts SortOptions) func(a, b core.Account) int {
	switch key {
	case PriceAsc:
		return func(a, b core.Account) int { return a.FinalPrice.Cmp(b.FinalPrice) }
	case PriceDesc:
		return func(a, b core.Account) int { return b.FinalPrice.Cmp(a.FinalPrice) }
	case GamesAsc:
		return func(a, b core.Account) int { return compareInt(gameCount(a), gameCount(b)) }
	case GamesDesc:
		return func(a, b core.Account) int { return compareInt(gameCount(b), gameCount(a)) }
	case NameAsc, NameDesc:
		lang := opts.Lang
		if lang == language.Und {
			lang = language.English
		}
		// Collators are not safe for concurrent use; one per call.
		col := collate.New(lang, collate.IgnoreCase)
		name := nameFunc(opts.Names)
		if key == NameDesc {
			return func(a, b core.Account) int { return col.CompareString(name(b), name(a)) }
		}
		return func(a, b core.Account) int { return col.CompareString(name(a), name(b)) }
	}
	return nil
}

func nameFunc(src NameSource) func(core.Account) string {
	if src == NamePrimaryGame {
		return func(a core.Account) string {
			if g, ok := a.PrimaryGame(); ok {
				return g.ItemName
			}
			return ""
		}
	}
	return func(a core.Account) string { return a.Nickname }
}

func gameCount(a core.Account) int {
	g, _ := a.Counts()
	return g
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
