package security

import (
	"fmt"
	"net/http"
	"strings"
)

// HTMXOrigin serves the htmx script loaded by the page layout.
const HTMXOrigin = "https://unpkg.com"

// HeadersConfig holds the response headers applied to every request.
type HeadersConfig struct {
	// CSP overrides the policy built from the origins below when set.
	CSP string

	// ScriptOrigins and ImageOrigins are allowed besides 'self'.
	ScriptOrigins []string
	ImageOrigins  []string

	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginOpener   string
	CrossOriginEmbedder string
	CrossOriginResource string
}

// DefaultHeadersConfig allows htmx from its CDN. Covers are always served
// from /game-covers, so images stay same-origin.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		ScriptOrigins: []string{HTMXOrigin},

		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,

		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy:   "geolocation=(), microphone=(), camera=(), payment=()",
		CrossOriginOpener:   "same-origin",
		CrossOriginResource: "same-origin",
	}
}

// ContentSecurityPolicy builds the storefront policy. Inline scripts stay
// blocked; the placeholder swap for broken covers lives in app.js.
func ContentSecurityPolicy(scriptOrigins, imageOrigins []string) string {
	directives := [][]string{
		{"default-src", "'self'"},
		append([]string{"script-src", "'self'"}, scriptOrigins...),
		{"style-src", "'self'"},
		append([]string{"img-src", "'self'", "data:"}, imageOrigins...),
		// htmx requests and the purchase form only ever target this host.
		{"connect-src", "'self'"},
		{"form-action", "'self'"},
		{"object-src", "'none'"},
		{"frame-ancestors", "'none'"},
		{"base-uri", "'self'"},
	}
	parts := make([]string, len(directives))
	for i, d := range directives {
		parts[i] = strings.Join(d, " ")
	}
	return strings.Join(parts, "; ")
}

// HeadersMiddleware applies security headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
	csp    string
}

// NewHeadersMiddleware creates a new security headers middleware
func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	csp := config.CSP
	if csp == "" {
		csp = ContentSecurityPolicy(config.ScriptOrigins, config.ImageOrigins)
	}
	return &HeadersMiddleware{config: config, csp: csp}
}

// Middleware returns the HTTP middleware function
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.applyHeaders(w, r)
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) applyHeaders(w http.ResponseWriter, r *http.Request) {
	headers := w.Header()
	set := func(name, value string) {
		if value != "" {
			headers.Set(name, value)
		}
	}

	set("Content-Security-Policy", h.csp)
	set("X-Content-Type-Options", h.config.XContentTypeOptions)
	set("X-Frame-Options", h.config.XFrameOptions)
	set("Referrer-Policy", h.config.ReferrerPolicy)
	set("Permissions-Policy", h.config.PermissionsPolicy)
	set("Cross-Origin-Opener-Policy", h.config.CrossOriginOpener)
	set("Cross-Origin-Resource-Policy", h.config.CrossOriginResource)
	set("Cross-Origin-Embedder-Policy", h.config.CrossOriginEmbedder)

	// HSTS header (only for HTTPS)
	if r.TLS != nil && h.config.HSTSMaxAge > 0 {
		hstsValue := fmt.Sprintf("max-age=%d", h.config.HSTSMaxAge)
		if h.config.HSTSIncludeSubdomains {
			hstsValue += "; includeSubDomains"
		}
		if h.config.HSTSPreload {
			hstsValue += "; preload"
		}
		headers.Set("Strict-Transport-Security", hstsValue)
	}
}

// StaticAssetMiddleware sets a public Cache-Control for maxAge seconds.
// Covers and static files are never fingerprinted, so they are not marked
// immutable.
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
