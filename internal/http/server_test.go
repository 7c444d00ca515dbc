package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"dekugames/internal/core"
	"dekugames/internal/covers"
	"dekugames/internal/inventory/memory"
	"dekugames/internal/log"
	"dekugames/internal/services"
)

type failingReader struct{}

func (failingReader) ListAccounts(context.Context) ([]core.Account, error) {
	return nil, errors.New("connection refused")
}

func (failingReader) Ping(context.Context) error { return errors.New("connection refused") }

func account(id, nick, price string, games, dlcs int) core.Account {
	a := core.Account{ID: id, Nickname: nick, FinalPrice: decimal.RequireFromString(price)}
	for i := 0; i < games; i++ {
		a.Transactions = append(a.Transactions, core.Transaction{
			ItemName:   nick + " Game " + string(rune('A'+i)),
			Type:       core.TypeGame,
			Price:      decimal.NewFromInt(int64(10 + i)),
			CoverImage: strings.ToLower(id) + "-cover",
		})
	}
	for i := 0; i < dlcs; i++ {
		a.Transactions = append(a.Transactions, core.Transaction{
			ItemName: nick + " DLC " + string(rune('A'+i)),
			Type:     core.TypeDLC,
			Price:    decimal.NewFromInt(5),
		})
	}
	return a
}

func fixture() []core.Account {
	accounts := []core.Account{
		account("1", "Zelda Solo", "19.99", 1, 0),
		account("2", "Mario Pack", "49.99", 3, 0),
		account("3", "Kirby Plus", "29.99", 1, 2),
		account("4", "Big Bundle", "99.5", 4, 1),
	}
	accounts[0].Transactions[0].ItemName = "Breath of the Wild"
	return accounts
}

func newTestServer(t *testing.T, accounts []core.Account, store covers.AssetStore) *Server {
	t.Helper()
	return newTestServerWithCatalog(t, services.NewCatalogService(memory.New(accounts), services.DefaultCatalogConfig()), store)
}

func newTestServerWithCatalog(t *testing.T, cat *services.CatalogService, store covers.AssetStore) *Server {
	t.Helper()
	pur, err := services.NewPurchaseService(cat, nil, services.PurchaseConfig{
		Channel:       core.ChannelWhatsApp,
		WhatsAppPhone: "+56912345678",
	})
	if err != nil {
		t.Fatalf("NewPurchaseService() error = %v", err)
	}
	srv, err := NewServer(Config{
		Addr:           ":0",
		DefaultCountry: "US",
		SupportEmail:   "support@example.com",
		Logger:         log.Discard(),
	}, cat, pur, store)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func do(srv *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestPagesRender(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Featured Game Packs", "Mario Pack", "Breath of the Wild"}},
		{"/games", []string{"Breath of the Wild", `id="grid"`, `hx-sync="this:replace"`}},
		{"/game-packs", []string{"Mario Pack", "Big Bundle"}},
		{"/dlcs", []string{"Kirby Plus", "Big Bundle"}},
		{"/faq", []string{"Frequently Asked Questions", "What is your refund policy?", "support@example.com"}},
		{"/accounts/2", []string{"Mario Pack", "/buy/2", "Is it still available?"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := do(srv, http.MethodGet, tt.path, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			body := rr.Body.String()
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("X-Request-ID not set")
			}
			if rr.Header().Get("Content-Security-Policy") == "" {
				t.Error("security headers not applied")
			}
		})
	}
}

func TestListingMembership(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	// Kirby Plus has one game and DLCs: it is not a single game.
	body := do(srv, http.MethodGet, "/games", nil).Body.String()
	if strings.Contains(body, "Kirby Plus") {
		t.Error("account with DLC listed on /games")
	}
	// The home singles strip does allow DLC.
	if !strings.Contains(do(srv, http.MethodGet, "/", nil).Body.String(), "Kirby Plus Game A") {
		t.Error("home singles missing one-game account with DLC")
	}
}

func TestListingHTMXPartial(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	rr := do(srv, http.MethodGet, "/game-packs?q=mario&sort=price_desc", map[string]string{"HX-Request": "true"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("htmx request got a full page")
	}
	if !strings.Contains(body, "Mario Pack") || strings.Contains(body, "Big Bundle") {
		t.Errorf("search not applied: %s", body)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "catalog:updated") {
		t.Errorf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
	if got := rr.Header().Get("HX-Push-Url"); got != "/game-packs?q=mario&sort=price_desc" {
		t.Errorf("HX-Push-Url = %q", got)
	}
}

func TestListingPagination(t *testing.T) {
	var accounts []core.Account
	for i := 0; i < 14; i++ {
		accounts = append(accounts, account(string(rune('a'+i)), "Pack "+string(rune('A'+i)), "10", 2, 0))
	}
	srv := newTestServer(t, accounts, nil)

	body := do(srv, http.MethodGet, "/game-packs?page=2&sort=price_asc", nil).Body.String()
	if !strings.Contains(body, "Pack M") || !strings.Contains(body, "Pack N") {
		t.Error("page 2 missing items 13 and 14")
	}
	if strings.Contains(body, "Pack A<") {
		t.Error("page 2 contains page 1 items")
	}
	if !strings.Contains(body, `class="pagination"`) {
		t.Error("pagination controls missing")
	}

	// A page past the end renders empty, not an error.
	rr := do(srv, http.MethodGet, "/game-packs?page=9", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("page past end status = %d", rr.Code)
	}

	for _, target := range []string{"/game-packs?page=9223372036854775807", "/api/catalog/packs?page=9223372036854775807"} {
		if rr := do(srv, http.MethodGet, target, nil); rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", target, rr.Code)
		}
	}
}

func TestFetchFailureRenders503(t *testing.T) {
	cat := services.NewCatalogService(failingReader{}, services.DefaultCatalogConfig())
	srv := newTestServerWithCatalog(t, cat, nil)

	for _, path := range []string{"/", "/games", "/dlcs"} {
		rr := do(srv, http.MethodGet, path, nil)
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "load the catalog right now") {
			t.Errorf("%s body missing error message", path)
		}
	}

	rr := do(srv, http.MethodGet, "/api/catalog/games", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("api status = %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil || body["error"] == "" {
		t.Errorf("api body = %v, err = %v", body, err)
	}

	if rr := do(srv, http.MethodGet, "/readyz", nil); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz status = %d, want 503", rr.Code)
	}
}

func TestAPICatalog(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	rr := do(srv, http.MethodGet, "/api/catalog/packs?sort=games_desc", map[string]string{"CF-IPCountry": "CL"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var out apiListing
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Listing != "packs" || out.Sort != "games_desc" || out.TotalItems != 2 {
		t.Fatalf("listing = %+v", out)
	}
	if out.Accounts[0].ID != "4" {
		t.Errorf("first account = %s, want 4 (most games)", out.Accounts[0].ID)
	}
	// 99.5 * 1150 = 114425
	if got := out.Accounts[0].DisplayPrice; got != "$114.425 CLP" {
		t.Errorf("display price = %q", got)
	}
	if out.Accounts[0].Category != "game_pack" {
		t.Errorf("category = %q", out.Accounts[0].Category)
	}

	if rr := do(srv, http.MethodGet, "/api/catalog/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown listing status = %d", rr.Code)
	}
}

func TestBuyRedirect(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	rr := do(srv, http.MethodGet, "/buy/2", nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Host != "wa.me" || loc.Path != "/56912345678" {
		t.Errorf("location = %s", loc)
	}
	text := loc.Query().Get("text")
	for _, want := range []string{"Mario Pack", "Mario Pack Game A", "Mario Pack Game C", "$49.99"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q: %s", want, text)
		}
	}

	if rr := do(srv, http.MethodGet, "/buy/missing", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown account status = %d", rr.Code)
	}
	if rr := do(srv, http.MethodGet, "/accounts/missing", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown account page status = %d", rr.Code)
	}
}

func TestCountryQuerySetsCookie(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	rr := do(srv, http.MethodGet, "/games?country=cl", nil)
	if !strings.Contains(rr.Body.String(), "CLP") {
		t.Error("prices not shown in CLP")
	}
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == countryCookie && c.Value == "CL" {
			found = true
		}
	}
	if !found {
		t.Error("country cookie not set")
	}
}

func TestCovers(t *testing.T) {
	store, err := covers.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), "hades.png", strings.NewReader("png-bytes")); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, fixture(), store)

	rr := do(srv, http.MethodGet, "/game-covers/hades.png", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "png-bytes" {
		t.Errorf("cover status = %d body = %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}

	rr = do(srv, http.MethodGet, "/game-covers/missing.png", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("missing cover status = %d", rr.Code)
	}
	if rr.Header().Get("X-Cover-Fallback") != "placeholder" {
		t.Error("missing cover did not fall back to the placeholder")
	}
	if !strings.HasPrefix(rr.Body.String(), "\x89PNG") {
		t.Error("placeholder body is not a PNG")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := do(srv, http.MethodGet, path, nil); rr.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rr.Code)
		}
	}

	do(srv, http.MethodGet, "/games", nil)
	rr := do(srv, http.MethodGet, "/metrics", nil)
	var m metricsResponse
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.HTTP.TotalRequests < 3 {
		t.Errorf("total requests = %d", m.HTTP.TotalRequests)
	}
	if m.Catalog.Accounts != 4 {
		t.Errorf("catalog accounts = %d", m.Catalog.Accounts)
	}
}

func TestNotFoundAndMethods(t *testing.T) {
	srv := newTestServer(t, fixture(), nil)

	if rr := do(srv, http.MethodGet, "/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown page status = %d", rr.Code)
	}
	rr := do(srv, http.MethodDelete, "/games", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d", rr.Code)
	}
	if rr := do(srv, http.MethodGet, "/static/css/app.css", nil); rr.Code != http.StatusOK {
		t.Errorf("static status = %d", rr.Code)
	}
}
