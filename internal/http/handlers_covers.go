package http

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"dekugames/internal/core"
	"dekugames/internal/covers"
	"dekugames/internal/log"
)

// handleCover serves a cover from the asset store and falls back to the
// placeholder when the file is missing.
func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]

	if s.covers != nil {
		rc, err := s.covers.Open(r.Context(), name)
		if err == nil {
			defer rc.Close()
			w.Header().Set("Content-Type", covers.ContentType(name))
			if r.Method == http.MethodHead {
				return
			}
			if _, err := io.Copy(w, rc); err != nil {
				s.logger.WarnContext(r.Context(), "Cover copy interrupted", log.FieldCover, name, log.FieldError, err.Error())
			}
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(r.Context(), "Cover store error",
				log.FieldComponent, log.ComponentCovers,
				log.FieldCover, name,
				log.FieldError, err.Error())
		}
	}

	s.servePlaceholder(w, r)
}

func (s *Server) servePlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", covers.ContentType(core.PlaceholderCover))
	w.Header().Set("X-Cover-Fallback", "placeholder")
	// The real cover may be uploaded later.
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, core.PlaceholderCover, s.started, bytes.NewReader(s.placeholder))
}
