package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"dekugames/internal/core"
)

// View is the per-request state of a listing page.
type View struct {
	Listing  ListingID
	Query    string
	Sort     SortKey
	Page     int
	PageSize int
}

// Options are process-wide pipeline settings.
type Options struct {
	Overlap  OverlapPolicy
	Lang     language.Tag
	PageSize int
}

// Result is what a listing page renders.
type Result struct {
	Listing Listing
	Query   string
	Sort    SortKey
	Page    Page[core.Account]
}

// Normalize fills defaults for l: unknown or disallowed sorts become the
// listing default, pages below 1 become 1, pages above MaxPage become
// MaxPage, and the query is trimmed.
func (v View) Normalize(l Listing, defaultSize int) View {
	v.Listing = l.ID
	v.Query = strings.TrimSpace(v.Query)
	if !l.AllowsSort(v.Sort) {
		v.Sort = l.DefaultSort
	}
	if v.Page < 1 {
		v.Page = 1
	}
	if v.Page > MaxPage {
		v.Page = MaxPage
	}
	if v.PageSize <= 0 {
		v.PageSize = defaultSize
	}
	if v.PageSize <= 0 {
		v.PageSize = DefaultPageSize
	}
	return v
}

// Key identifies a normalized view for caching.
func (v View) Key() string {
	return string(v.Listing) + "|" + string(v.Sort) + "|" +
		strconv.Itoa(v.Page) + "|" + strconv.Itoa(v.PageSize) + "|" +
		strings.ToLower(v.Query)
}

// Run applies membership, search, sort and pagination for view.
func Run(accounts []core.Account, l Listing, view View, opts Options) Result {
	view = view.Normalize(l, opts.PageSize)

	members := Filter(accounts, func(a core.Account) bool {
		return l.Includes(a, opts.Overlap) && Matches(a, view.Query, l.SearchScope...)
	})
	sorted := Sort(members, view.Sort, SortOptions{Names: l.Names, Lang: opts.Lang})

	return Result{
		Listing: l,
		Query:   view.Query,
		Sort:    view.Sort,
		Page:    Paginate(sorted, view.Page, view.PageSize),
	}
}
