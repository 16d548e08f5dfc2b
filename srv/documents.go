package srv

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/opd-ai/chordbook/catalog"
	"github.com/opd-ai/chordbook/export"
	"github.com/opd-ai/chordbook/songbook"
)

type document struct {
	data []byte
	etag string
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	kind := catalog.Kind(chi.URLParam(r, "kind"))
	slug := chi.URLParam(r, "slug")
	key := string(kind) + "/" + slug

	doc, err := s.document(kind, slug, key)
	switch {
	case errors.Is(err, export.ErrUnknownEntity), errors.Is(err, songbook.ErrEmptyDocument):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("cannot render document", "kind", kind, "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "cannot render document")
		return
	}

	w.Header().Set("ETag", doc.etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == doc.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.data)))
	w.Write(doc.data)
}

// document renders the document of kind and slug, or returns the copy
// rendered earlier.
func (s *Server) document(kind catalog.Kind, slug, key string) (document, error) {
	if v, ok := s.docs.Get(key); ok {
		return v.(document), nil
	}
	job, err := s.exporter.Lookup(kind, slug)
	if err != nil {
		return document{}, err
	}
	var buf bytes.Buffer
	if _, err := s.exporter.Render(job, &buf); err != nil {
		return document{}, err
	}
	doc := document{data: buf.Bytes(), etag: `"` + export.Checksum(buf.Bytes()) + `"`}
	s.docs.Set(key, doc, cache.DefaultExpiration)
	return doc, nil
}
