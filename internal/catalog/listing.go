package catalog

import (
	"fmt"
	"strings"

	"dekugames/internal/core"
)

const (
	ListingGames ListingID = "games"
	ListingPacks ListingID = "packs"
	ListingDLCs  ListingID = "dlcs"
)

const (
	// CrossList lets an account with several games and DLCs appear on
	// both the packs and the DLC listings.
	CrossList OverlapPolicy = "cross_list"
	// Exclusive lists an account only under its Classify category.
	Exclusive OverlapPolicy = "exclusive"
)

// HomeSectionSize caps each home page strip.
const HomeSectionSize = 10

type (
	ListingID     string
	OverlapPolicy string

	// Listing describes one catalog page.
	Listing struct {
		ID          ListingID
		Title       string
		Path        string
		Category    Category
		Sorts       []SortKey
		DefaultSort SortKey
		Names       NameSource
		SearchScope []core.TransactionType
	}
)

var listings = []Listing{
	{
		ID:          ListingGames,
		Title:       "Games",
		Path:        "/games",
		Category:    SingleGame,
		Sorts:       []SortKey{PriceAsc, PriceDesc, NameAsc, NameDesc},
		DefaultSort: PriceAsc,
		Names:       NamePrimaryGame,
		SearchScope: []core.TransactionType{core.TypeGame},
	},
	{
		ID:          ListingPacks,
		Title:       "Game Packs",
		Path:        "/game-packs",
		Category:    GamePack,
		Sorts:       []SortKey{PriceAsc, PriceDesc, GamesAsc, GamesDesc},
		DefaultSort: GamesAsc,
		Names:       NameNickname,
		SearchScope: []core.TransactionType{core.TypeGame},
	},
	{
		ID:          ListingDLCs,
		Title:       "DLCs",
		Path:        "/dlcs",
		Category:    DLCBundle,
		Sorts:       []SortKey{PriceAsc, PriceDesc, NameAsc, NameDesc},
		DefaultSort: PriceAsc,
		Names:       NameNickname,
		SearchScope: []core.TransactionType{core.TypeDLC},
	},
}

// ParseOverlapPolicy accepts "cross_list" or "exclusive"; empty is CrossList.
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CrossList:
		return CrossList, nil
	case Exclusive:
		return Exclusive, nil
	}
	return "", fmt.Errorf("unknown overlap policy %q", s)
}

// Listings returns the catalog listings in navigation order.
func Listings() []Listing {
	out := make([]Listing, len(listings))
	copy(out, listings)
	return out
}

// ListingByID looks up a listing.
func ListingByID(id ListingID) (Listing, bool) {
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

// Includes reports whether a belongs on the listing under policy.
func (l Listing) Includes(a core.Account, policy OverlapPolicy) bool {
	if policy == Exclusive {
		return Classify(a) == l.Category
	}
	switch l.Category {
	case SingleGame:
		return IsSingleGame(a)
	case GamePack:
		return IsGamePack(a)
	case DLCBundle:
		return IsDLCBundle(a)
	}
	return false
}

// AllowsSort reports whether key is offered on this listing.
func (l Listing) AllowsSort(key SortKey) bool {
	for _, k := range l.Sorts {
		if k == key {
			return true
		}
	}
	return false
}

// Home holds the two strips of the landing page.
type Home struct {
	Featured []core.Account
	Singles  []core.Account
}

// BuildHome picks the cheapest packs and the cheapest one-game accounts.
// Singles here allow DLCs, unlike the games listing.
func BuildHome(accounts []core.Account, opts SortOptions) Home {
	packs := Filter(accounts, IsGamePack)
	singles := Filter(accounts, func(a core.Account) bool {
		g, _ := a.Counts()
		return g == 1
	})
	return Home{
		Featured: head(Sort(packs, PriceAsc, opts), HomeSectionSize),
		Singles:  head(Sort(singles, PriceAsc, opts), HomeSectionSize),
	}
}

func head(in []core.Account, n int) []core.Account {
	if len(in) > n {
		return in[:n]
	}
	return in
}
