package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"dekugames/internal/catalog"
	"dekugames/internal/core"
	"dekugames/internal/covers"
	"dekugames/internal/log"
	"dekugames/internal/middleware/ratelimit"
	"dekugames/internal/middleware/security"
	"dekugames/internal/middleware/trace"
	"dekugames/internal/services"
	appweb "dekugames/web"
)

// Catalog serves listing data.
type Catalog interface {
	Listing(ctx context.Context, view catalog.View) (catalog.Result, error)
	Home(ctx context.Context) (catalog.Home, error)
	Account(ctx context.Context, id string) (core.Account, error)
	Ping(ctx context.Context) error
	Stats() services.CatalogStats
}

// Purchaser builds purchase deep links.
type Purchaser interface {
	Intent(ctx context.Context, accountID, country string) (services.Purchase, error)
	Message(account core.Account, country string) (string, error)
}

// Config holds server settings.
type Config struct {
	Addr              string
	PageSize          int
	DefaultCountry    string
	SupportEmail      string
	Pricing           core.Pricing
	RequestsPerMinute int
	TrustedProxies    []string
	Logger            *log.Logger
}

// Server is the storefront HTTP server.
type Server struct {
	http.Server
	templates *template.Template
	catalog   Catalog
	purchase  Purchaser
	covers    covers.AssetStore
	config    Config
	logger    *log.Logger

	traceMiddleware  *trace.Middleware
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	started          time.Time
	placeholder      []byte

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware.
// store may be nil, in which case every cover is the placeholder.
func NewServer(cfg Config, cat Catalog, pur Purchaser, store covers.AssetStore) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = catalog.DefaultPageSize
	}
	if cfg.Pricing.AccountRate.IsZero() {
		cfg.Pricing = core.DefaultPricing()
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	placeholder, err := fs.ReadFile(appweb.StaticFS, "static/img/"+core.PlaceholderCover)
	if err != nil {
		return nil, fmt.Errorf("read placeholder cover: %w", err)
	}

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates:        t,
		catalog:          cat,
		purchase:         pur,
		covers:           store,
		config:           cfg,
		logger:           cfg.Logger.WithComponent(log.ComponentHTTP),
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		securityDetector: detector,
		started:          time.Now(),
		placeholder:      placeholder,
	}

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.StrictSlash(true)

	limited := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)
	page := func(h http.HandlerFunc) http.Handler { return limited(h) }

	r.Handle("/", page(s.handleHome)).Methods(http.MethodGet, http.MethodHead)
	for _, l := range catalog.Listings() {
		r.Handle(l.Path, page(s.handleListing(l))).Methods(http.MethodGet, http.MethodHead)
	}
	r.Handle("/faq", page(s.handleFAQ)).Methods(http.MethodGet, http.MethodHead)
	r.Handle("/accounts/{id}", page(s.handleAccount)).Methods(http.MethodGet, http.MethodHead)
	r.Handle("/buy/{id}", page(s.handleBuy)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/api/catalog/{listing}", page(s.handleAPICatalog)).Methods(http.MethodGet)

	assets := security.StaticAssetMiddleware(86400)
	r.Handle("/game-covers/{file}", assets(http.HandlerFunc(s.handleCover))).Methods(http.MethodGet, http.MethodHead)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.PathPrefix("/static/").Handler(security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		MethodNotAllowedError("GET, HEAD").Write(w)
	})

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	// Outermost first.
	return chain(r,
		s.traceMiddleware.Middleware,
		log.Middleware(s.logger),
		log.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) }),
		s.securityDetector.Middleware,
		headers.Middleware,
	)
}

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again in a minute.").Write(w)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
		"placeholder": core.PlaceholderURL,
	}
}
