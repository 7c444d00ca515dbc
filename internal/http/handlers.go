package http

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"dekugames/internal/catalog"
	"dekugames/internal/log"
	"dekugames/internal/middleware/ratelimit"
	"dekugames/internal/middleware/security"
	"dekugames/internal/middleware/trace"
	"dekugames/internal/services"
)

type navLink struct {
	Title  string
	Path   string
	Active bool
}

// layoutData is shared by every full page.
type layoutData struct {
	Title        string
	Nav          []navLink
	Country      string
	Currency     string
	SupportEmail string
	Year         int
}

func (s *Server) layout(title, active, country string) layoutData {
	nav := []navLink{{Title: "Home", Path: "/", Active: active == "/"}}
	for _, l := range catalog.Listings() {
		nav = append(nav, navLink{Title: l.Title, Path: l.Path, Active: active == l.Path})
	}
	nav = append(nav, navLink{Title: "FAQ", Path: "/faq", Active: active == "/faq"})

	return layoutData{
		Title:        title,
		Nav:          nav,
		Country:      country,
		Currency:     string(s.config.Pricing.CurrencyFor(country)),
		SupportEmail: s.config.SupportEmail,
		Year:         time.Now().Year(),
	}
}

// country resolves the shopper country and remembers an explicit choice.
func (s *Server) country(w http.ResponseWriter, r *http.Request) string {
	c, fromQuery := CountryFrom(r, s.config.DefaultCountry)
	if fromQuery {
		http.SetCookie(w, &http.Cookie{
			Name:     countryCookie,
			Value:    c,
			Path:     "/",
			MaxAge:   30 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return c
}

// execute renders a named template into memory so a failing template never
// leaves a half-written page.
func (s *Server) execute(r *http.Request, name string, data any) ([]byte, bool) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldComponent, log.ComponentTemplate,
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err.Error())
		return nil, false
	}
	return buf.Bytes(), true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, ok := s.execute(r, name, data)
	if !ok {
		ErrorResponse(http.StatusInternalServerError, "Something went wrong rendering this page.").Write(w)
		return
	}
	NewHTMXResponse().
		Status(status).
		Header("Content-Type", "text/html; charset=utf-8").
		Body(body).
		Write(w)
}

type errorData struct {
	layoutData
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if IsHTMX(r) {
		ErrorResponse(status, message).Write(w)
		return
	}
	country, _ := CountryFrom(r, s.config.DefaultCountry)
	s.render(w, r, status, "error.html", errorData{
		layoutData: s.layout(http.StatusText(status), "", country),
		Status:     status,
		Message:    message,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	s.renderError(w, r, http.StatusNotFound, "We couldn't find that page.")
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports ready only when the inventory backend answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"templates": "ok"}
	status, code := "ready", http.StatusOK
	if err := s.catalog.Ping(ctx); err != nil {
		checks["inventory"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
		s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldComponent, log.ComponentInventory, log.FieldError, err.Error())
	} else {
		checks["inventory"] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

type metricsResponse struct {
	UptimeSeconds int64                     `json:"uptime_seconds"`
	HTTP          trace.Metrics             `json:"http"`
	RateLimit     ratelimit.Metrics         `json:"rate_limit"`
	Security      security.DetectionMetrics `json:"security"`
	Catalog       services.CatalogStats     `json:"catalog"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, metricsResponse{
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		HTTP:          s.traceMiddleware.GetMetrics(),
		RateLimit:     s.rateLimiter.GetMetrics(),
		Security:      s.securityDetector.GetMetrics(),
		Catalog:       s.catalog.Stats(),
	})
}

type faqData struct {
	layoutData
	Items []faqItem
}

func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	country := s.country(w, r)
	s.render(w, r, http.StatusOK, "faq.html", faqData{
		layoutData: s.layout("Frequently Asked Questions", "/faq", country),
		Items:      faqItems,
	})
}
