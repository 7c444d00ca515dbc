package http

import (
	"testing"

	"github.com/shopspring/decimal"

	"dekugames/internal/catalog"
	"dekugames/internal/core"
)

func TestListingURL(t *testing.T) {
	tests := []struct {
		query string
		sort  catalog.SortKey
		page  int
		want  string
	}{
		{"", "", 1, "/games"},
		{"", catalog.PriceAsc, 1, "/games?sort=price_asc"},
		{"zelda & link", catalog.NameDesc, 3, "/games?page=3&q=zelda+%26+link&sort=name_desc"},
	}
	for _, tt := range tests {
		if got := listingURL("/games", tt.query, tt.sort, tt.page); got != tt.want {
			t.Errorf("listingURL(%q, %q, %d) = %q, want %q", tt.query, tt.sort, tt.page, got, tt.want)
		}
	}
}

func TestNewPager(t *testing.T) {
	games, _ := catalog.ListingByID(catalog.ListingGames)
	items := make([]core.Account, 30)

	one := newPager(catalog.Result{Listing: games, Page: catalog.Paginate(items[:5], 1, 12)})
	if one.Show {
		t.Error("single page shows controls")
	}

	mid := newPager(catalog.Result{Listing: games, Sort: catalog.PriceAsc, Page: catalog.Paginate(items, 2, 12)})
	if !mid.Show || len(mid.Pages) != 3 {
		t.Fatalf("pager = %+v", mid)
	}
	if mid.Prev != "/games?sort=price_asc" || mid.Next != "/games?page=3&sort=price_asc" {
		t.Errorf("prev = %q next = %q", mid.Prev, mid.Next)
	}
	if !mid.Pages[1].Current || mid.Pages[0].Current {
		t.Errorf("current page flags wrong: %+v", mid.Pages)
	}

	last := newPager(catalog.Result{Listing: games, Page: catalog.Paginate(items, 3, 12)})
	if last.Next != "" {
		t.Errorf("last page next = %q", last.Next)
	}
}

func TestNewCard(t *testing.T) {
	a := core.Account{
		ID:         "acc 1",
		Nickname:   "Collector",
		FinalPrice: decimal.RequireFromString("50"),
		Transactions: []core.Transaction{
			{ItemName: "Cheap", Type: core.TypeGame, Price: decimal.NewFromInt(5), CoverImage: "cheap"},
			{ItemName: "Pricey", Type: core.TypeGame, Price: decimal.NewFromInt(60), CoverImage: "pricey"},
			{ItemName: "Mid", Type: core.TypeGame, Price: decimal.NewFromInt(20)},
			{ItemName: "Extra", Type: core.TypeDLC, Price: decimal.NewFromInt(10)},
		},
	}

	c := newCard(a, catalog.NamePrimaryGame, core.DefaultPricing(), "CL")
	if c.Title != "Cheap" {
		t.Errorf("Title = %q, want primary game", c.Title)
	}
	if c.Price != "$57.500 CLP" {
		t.Errorf("Price = %q", c.Price)
	}
	if c.Games != 3 || c.DLCs != 1 {
		t.Errorf("counts = %d/%d", c.Games, c.DLCs)
	}
	if c.Href != "/accounts/acc%201" {
		t.Errorf("Href = %q", c.Href)
	}
	want := []string{"/game-covers/pricey.png", "/game-covers/game-placeholder.png", "/game-covers/cheap.png"}
	if len(c.Covers) != len(want) {
		t.Fatalf("covers = %+v", c.Covers)
	}
	for i, w := range want {
		if c.Covers[i].URL != w {
			t.Errorf("cover %d = %q, want %q", i, c.Covers[i].URL, w)
		}
	}

	empty := newCard(core.Account{ID: "x", Nickname: "Empty"}, catalog.NameNickname, core.DefaultPricing(), "US")
	if len(empty.Covers) != 1 || empty.Covers[0].URL != core.PlaceholderURL() {
		t.Errorf("empty collage = %+v", empty.Covers)
	}
	if empty.Price != "$0.00" {
		t.Errorf("empty price = %q", empty.Price)
	}
}

func TestNewItems_UsesItemRate(t *testing.T) {
	items := newItems([]core.Transaction{{ItemName: "Hades", Price: decimal.RequireFromString("24.99")}}, core.DefaultPricing(), "CL")
	// 24.99 * 1000 = 24990
	if items[0].Price != "$24.990 CLP" {
		t.Errorf("Price = %q", items[0].Price)
	}
}
