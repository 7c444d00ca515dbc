package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"dekugames/internal/catalog"
	"dekugames/internal/core"
	"dekugames/internal/inventory"
	"dekugames/internal/log"
	"dekugames/internal/services"
)

const unavailableMessage = "We couldn't load the catalog right now. Please try again shortly."

type homeData struct {
	layoutData
	Featured []cardView
	Singles  []cardView
	Error    string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	country := s.country(w, r)
	data := homeData{layoutData: s.layout("Nintendo Switch Accounts", "/", country)}

	status := http.StatusOK
	home, err := s.catalog.Home(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Home catalog error", log.FieldOperation, log.OpList, log.FieldError, err.Error())
		data.Error = unavailableMessage
		status = http.StatusServiceUnavailable
	} else {
		data.Featured = newCards(home.Featured, catalog.NameNickname, s.config.Pricing, country)
		data.Singles = newCards(home.Singles, catalog.NamePrimaryGame, s.config.Pricing, country)
	}
	s.render(w, r, status, "home.html", data)
}

type listingData struct {
	layoutData
	Listing catalog.Listing
	Query   string
	Sort    string
	Sorts   []sortOption
	Cards   []cardView
	Total   int
	Pager   pagerView
	Error   string
}

func (s *Server) handleListing(l catalog.Listing) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country := s.country(w, r)
		view := ParseView(r.URL.Query(), l, s.config.PageSize)

		data := listingData{
			layoutData: s.layout(l.Title, l.Path, country),
			Listing:    l,
			Query:      view.Query,
			Sort:       view.Sort.String(),
			Sorts:      sortOptions(l, view.Sort),
		}

		status := http.StatusOK
		res, err := s.catalog.Listing(r.Context(), view)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Listing catalog error",
				log.FieldOperation, log.OpList,
				log.FieldListing, string(l.ID),
				log.FieldError, err.Error())
			data.Error = unavailableMessage
			status = http.StatusServiceUnavailable
		} else {
			data.Cards = newCards(res.Page.Items, l.Names, s.config.Pricing, country)
			data.Total = res.Page.TotalItems
			data.Pager = newPager(res)
			log.NewStructuredLogger(log.FromContext(r.Context()).WithComponent(log.ComponentCatalog)).
				LogCatalogView(r.Context(), string(l.ID), res.Sort.String(), res.Page.Number, res.Query, res.Page.TotalItems)
		}

		if !IsHTMX(r) {
			s.render(w, r, status, "listing.html", data)
			return
		}

		body, ok := s.execute(r, "listing_grid", data)
		if !ok {
			ErrorResponse(http.StatusInternalServerError, "Something went wrong rendering this page.").Write(w)
			return
		}
		b := NewHTMXResponse().
			Status(status).
			Header("Vary", "HX-Request").
			BodyHTML(string(body))
		if err == nil {
			b.TriggerCatalogUpdated(string(l.ID), res.Page.Number, res.Page.TotalPages).
				PushURL(listingURL(l.Path, res.Query, res.Sort, res.Page.Number))
		}
		b.Write(w)
	}
}

type accountData struct {
	layoutData
	Card    cardView
	Games   []itemView
	DLCs    []itemView
	Message string
	BuyURL  string
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	country := s.country(w, r)
	id := mux.Vars(r)["id"]

	account, err := s.catalog.Account(r.Context(), id)
	switch {
	case errors.Is(err, inventory.ErrAccountNotFound):
		s.renderError(w, r, http.StatusNotFound, "That account is no longer available.")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Account lookup error", log.FieldAccountID, id, log.FieldError, err.Error())
		s.renderError(w, r, http.StatusServiceUnavailable, unavailableMessage)
		return
	}

	data := accountData{
		layoutData: s.layout(account.Nickname, "", country),
		Card:       newCard(account, catalog.NameNickname, s.config.Pricing, country),
		Games:      newItems(account.Games(), s.config.Pricing, country),
		DLCs:       newItems(account.DLCs(), s.config.Pricing, country),
		BuyURL:     "/buy/" + account.ID,
	}
	if s.purchase != nil {
		if msg, err := s.purchase.Message(account, country); err == nil {
			data.Message = msg
		}
	}
	s.render(w, r, http.StatusOK, "account.html", data)
}

type apiItem struct {
	Name       string          `json:"item_name"`
	Type       string          `json:"type"`
	Price      decimal.Decimal `json:"price"`
	CoverImage string          `json:"cover_image,omitempty"`
	CoverURL   string          `json:"cover_url"`
}

type apiAccount struct {
	ID           string          `json:"id"`
	Nickname     string          `json:"nickname"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	DisplayPrice string          `json:"display_price"`
	Currency     string          `json:"currency"`
	Category     string          `json:"category"`
	Games        int             `json:"games"`
	DLCs         int             `json:"dlcs"`
	Items        []apiItem       `json:"transactions"`
}

type apiListing struct {
	Listing    string       `json:"listing"`
	Query      string       `json:"query"`
	Sort       string       `json:"sort"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	TotalItems int          `json:"total_items"`
	Accounts   []apiAccount `json:"accounts"`
}

func (s *Server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	l, ok := catalog.ListingByID(catalog.ListingID(mux.Vars(r)["listing"]))
	if !ok {
		writeJSONError(w, http.StatusNotFound, services.ErrUnknownListing.Error())
		return
	}
	country, _ := CountryFrom(r, s.config.DefaultCountry)

	res, err := s.catalog.Listing(r.Context(), ParseView(r.URL.Query(), l, s.config.PageSize))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "API catalog error", log.FieldListing, string(l.ID), log.FieldError, err.Error())
		writeJSONError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}

	out := apiListing{
		Listing:    string(l.ID),
		Query:      res.Query,
		Sort:       res.Sort.String(),
		Page:       res.Page.Number,
		PageSize:   res.Page.Size,
		TotalPages: res.Page.TotalPages,
		TotalItems: res.Page.TotalItems,
		Accounts:   make([]apiAccount, 0, len(res.Page.Items)),
	}
	for _, a := range res.Page.Items {
		out.Accounts = append(out.Accounts, s.apiAccount(a, country))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiAccount(a core.Account, country string) apiAccount {
	price := s.config.Pricing.Convert(a.FinalPrice, country, core.KindAccount)
	g, d := a.Counts()
	out := apiAccount{
		ID:           a.ID,
		Nickname:     a.Nickname,
		FinalPrice:   a.FinalPrice,
		DisplayPrice: price.String(),
		Currency:     string(price.Currency),
		Category:     catalog.Classify(a).String(),
		Games:        g,
		DLCs:         d,
		Items:        make([]apiItem, 0, len(a.Transactions)),
	}
	for _, t := range a.Transactions {
		out.Items = append(out.Items, apiItem{
			Name:       t.ItemName,
			Type:       t.Type.String(),
			Price:      t.Price,
			CoverImage: t.CoverImage,
			CoverURL:   core.CoverURL(t.CoverImage),
		})
	}
	return out
}
