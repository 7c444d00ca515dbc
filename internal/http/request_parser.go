// Package http serves the storefront pages, the JSON catalog API and the
// cover images.
package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dekugames/internal/catalog"
)

const (
	maxQueryLen   = 100
	countryCookie = "country"
)

// ParseView reads q, sort and page from the query string for listing l.
// Invalid values are dropped and left to View.Normalize.
func ParseView(query url.Values, l catalog.Listing, pageSize int) catalog.View {
	v := catalog.View{
		Listing:  l.ID,
		Query:    sanitizeInput(query.Get("q")),
		PageSize: pageSize,
	}
	if len(v.Query) > maxQueryLen {
		v.Query = truncateRunes(v.Query, maxQueryLen)
	}
	if k, ok := catalog.ParseSortKey(strings.TrimSpace(query.Get("sort"))); ok {
		v.Sort = k
	}
	if p, err := strconv.Atoi(strings.TrimSpace(query.Get("page"))); err == nil {
		v.Page = p
	}
	return v.Normalize(l, pageSize)
}

// CountryFrom picks the shopper country: an explicit ?country= wins, then
// the country cookie, then the CDN's CF-IPCountry header, then fallback.
// The second return reports whether the value came from the query string.
func CountryFrom(r *http.Request, fallback string) (string, bool) {
	if c := normalizeCountry(r.URL.Query().Get("country")); c != "" {
		return c, true
	}
	if ck, err := r.Cookie(countryCookie); err == nil {
		if c := normalizeCountry(ck.Value); c != "" {
			return c, false
		}
	}
	if c := normalizeCountry(r.Header.Get("CF-IPCountry")); c != "" {
		return c, false
	}
	if c := normalizeCountry(fallback); c != "" {
		return c, false
	}
	return "US", false
}

// normalizeCountry accepts ISO 3166 alpha-2 codes only. Cloudflare's XX
// (unknown) and T1 (Tor) are rejected.
func normalizeCountry(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 || s == "XX" {
		return ""
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return s
}

// IsHTMX reports whether the request came from htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
