package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kamusis/pixdex/internal/logger"
	"github.com/kamusis/pixdex/internal/store"
)

type handlers struct {
	q          Searcher
	defaultCap int
}

type results struct {
	Paths []string `json:"paths"`
	Count int      `json:"count"`
}

func newResults(paths []string) results {
	if paths == nil {
		paths = []string{}
	}
	return results{Paths: paths, Count: len(paths)}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]string{"status": "ok"})
}

// search handles GET /v1/search?q=<term>&cap=<n>.
func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		respondError(w, r, http.StatusBadRequest, errors.New("query parameter q is required"))
		return
	}
	limit := h.defaultCap
	if s := r.URL.Query().Get("cap"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondError(w, r, http.StatusBadRequest, fmt.Errorf("invalid cap %q", s))
			return
		}
		limit = n
	}
	respondOK(w, r, newResults(h.q.Search(term, limit)))
}

// color handles GET /v1/color?color=<name>[&category=<name>].
func (h *handlers) color(w http.ResponseWriter, r *http.Request) {
	color := r.URL.Query().Get("color")
	if color == "" {
		respondError(w, r, http.StatusBadRequest, errors.New("query parameter color is required"))
		return
	}
	category := r.URL.Query().Get("category")

	paths, err := h.q.SearchColor(r.Context(), category, color)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, r, http.StatusNotFound, fmt.Errorf("category %q is not indexed", category))
		return
	case err != nil:
		log := logger.Named("http")
		log.Error().Err(err).Str("request_id", reqID(r)).Msg("color query failed")
		respondError(w, r, http.StatusInternalServerError, errors.New("color query failed"))
		return
	}
	respondOK(w, r, newResults(paths))
}
