package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"dekugames/internal/inventory"
	"dekugames/internal/log"
)

// handleBuy sends the shopper to the messaging app with the order text filled in.
func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if s.purchase == nil {
		s.renderError(w, r, http.StatusServiceUnavailable, "Purchases are temporarily disabled.")
		return
	}

	country, _ := CountryFrom(r, s.config.DefaultCountry)
	p, err := s.purchase.Intent(r.Context(), id, country)
	switch {
	case errors.Is(err, inventory.ErrAccountNotFound):
		s.renderError(w, r, http.StatusNotFound, "That account is no longer available.")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Purchase intent failed",
			log.FieldComponent, log.ComponentPurchase,
			log.FieldAccountID, id,
			log.FieldError, err.Error())
		s.renderError(w, r, http.StatusServiceUnavailable, unavailableMessage)
		return
	}

	if IsHTMX(r) {
		// htmx would follow a 303 itself and swap in the chat page.
		NewHTMXResponse().Header("HX-Redirect", p.Link).Write(w)
		return
	}
	http.Redirect(w, r, p.Link, http.StatusSeeOther)
}
