package http

import (
	"net/url"
	"strconv"

	"dekugames/internal/catalog"
	"dekugames/internal/core"
)

const collageSize = 4

// cardView is one account tile.
type cardView struct {
	ID       string
	Title    string
	Nickname string
	Price    string
	Games    int
	DLCs     int
	Covers   []coverView
	Href     string
}

type coverView struct {
	Name string
	URL  string
}

// itemView is one game or DLC line on the account page.
type itemView struct {
	Name  string
	Price string
	Date  string
	Cover string
}

type sortOption struct {
	Key      string
	Label    string
	Selected bool
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type pagerView struct {
	Show  bool
	Prev  string
	Next  string
	Pages []pageLink
}

var sortLabels = map[catalog.SortKey]string{
	catalog.PriceAsc:  "Price: Low to High",
	catalog.PriceDesc: "Price: High to Low",
	catalog.NameAsc:   "Name: A to Z",
	catalog.NameDesc:  "Name: Z to A",
	catalog.GamesAsc:  "Games: Fewest first",
	catalog.GamesDesc: "Games: Most first",
}

func newCard(a core.Account, names catalog.NameSource, pricing core.Pricing, country string) cardView {
	g, d := a.Counts()
	c := cardView{
		ID:       a.ID,
		Title:    a.Nickname,
		Nickname: a.Nickname,
		Price:    pricing.Convert(a.FinalPrice, country, core.KindAccount).String(),
		Games:    g,
		DLCs:     d,
		Href:     "/accounts/" + url.PathEscape(a.ID),
	}
	if names == catalog.NamePrimaryGame {
		if p, ok := a.PrimaryGame(); ok {
			c.Title = p.ItemName
		}
	}
	for _, t := range a.TopGames(collageSize) {
		c.Covers = append(c.Covers, coverView{Name: t.ItemName, URL: core.CoverURL(t.CoverImage)})
	}
	if len(c.Covers) == 0 {
		c.Covers = []coverView{{Name: c.Title, URL: core.PlaceholderURL()}}
	}
	return c
}

func newCards(accounts []core.Account, names catalog.NameSource, pricing core.Pricing, country string) []cardView {
	cards := make([]cardView, 0, len(accounts))
	for _, a := range accounts {
		cards = append(cards, newCard(a, names, pricing, country))
	}
	return cards
}

func newItems(items []core.Transaction, pricing core.Pricing, country string) []itemView {
	out := make([]itemView, 0, len(items))
	for _, t := range items {
		out = append(out, itemView{
			Name:  t.ItemName,
			Price: pricing.Convert(t.Price, country, core.KindItem).String(),
			Date:  t.PurchaseDate.String(),
			Cover: core.CoverURL(t.CoverImage),
		})
	}
	return out
}

func sortOptions(l catalog.Listing, selected catalog.SortKey) []sortOption {
	opts := make([]sortOption, 0, len(l.Sorts))
	for _, k := range l.Sorts {
		label, ok := sortLabels[k]
		if !ok {
			label = k.String()
		}
		opts = append(opts, sortOption{Key: k.String(), Label: label, Selected: k == selected})
	}
	return opts
}

// listingURL builds a listing link keeping the search and sort.
func listingURL(path, query string, sort catalog.SortKey, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if sort != "" {
		v.Set("sort", sort.String())
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func newPager(res catalog.Result) pagerView {
	p := res.Page
	pv := pagerView{Show: p.ShowControls()}
	if !pv.Show {
		return pv
	}
	path := res.Listing.Path
	if p.HasPrev() {
		pv.Prev = listingURL(path, res.Query, res.Sort, p.Prev())
	}
	if p.HasNext() {
		pv.Next = listingURL(path, res.Query, res.Sort, p.Next())
	}
	for _, n := range p.Pages() {
		pv.Pages = append(pv.Pages, pageLink{Number: n, URL: listingURL(path, res.Query, res.Sort, n), Current: n == p.Number})
	}
	return pv
}
