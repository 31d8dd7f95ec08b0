package catalog

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"booktrack/internal/httpx"

	"github.com/go-playground/validator/v10"
)

// Trender is the trending read side exposed on the books endpoint.
// Refresh runs a synchronous ingestion pass; Trending reads the current
// top entries without one.
type Trender interface {
	Refresh(ctx context.Context) error
	Trending(ctx context.Context, limit int) ([]Entry, error)
}

type HTTPHandler struct {
	svc      *Service
	trender  Trender
	validate *validator.Validate
}

func NewHTTPHandler(svc *Service, trender Trender) *HTTPHandler {
	return &HTTPHandler{
		svc:      svc,
		trender:  trender,
		validate: validator.New(),
	}
}

type browseParams struct {
	Type  string `validate:"omitempty,oneof=trending featured new"`
	Page  int    `validate:"min=1"`
	Limit int    `validate:"min=1,max=40"`
}

// Browse handles GET /v1/books.
//
// With ?q= it searches the catalog; otherwise ?type= selects a section:
// trending (optionally ?refresh=1 to run an ingestion pass first),
// featured, or new.
func (h *HTTPHandler) Browse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 12
	}

	params := browseParams{
		Type:  query.Get("type"),
		Page:  page,
		Limit: limit,
	}
	if err := h.validate.Struct(params); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid query parameters", nil)
		return
	}

	if q := query.Get("q"); q != "" {
		h.search(w, r, q, page, limit)
		return
	}

	switch params.Type {
	case "trending":
		h.trending(w, r, query.Get("refresh") != "", limit)
	case "featured":
		entries, err := h.svc.Featured(r.Context(), limit)
		h.writeSection(w, r, entries, err)
	case "new":
		entries, err := h.svc.NewReleases(r.Context(), limit)
		h.writeSection(w, r, entries, err)
	default:
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid type parameter", nil)
	}
}

func (h *HTTPHandler) search(w http.ResponseWriter, r *http.Request, q string, page, limit int) {
	entries, total, err := h.svc.Search(r.Context(), SearchQuery{
		Q:      q,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"entries": entries,
		"pagination": map[string]any{
			"total":       total,
			"pages":       (total + limit - 1) / limit,
			"currentPage": page,
		},
	}, nil)
}

func (h *HTTPHandler) trending(w http.ResponseWriter, r *http.Request, refresh bool, limit int) {
	if refresh {
		// A failed pass degrades to whatever the catalog already holds.
		if err := h.trender.Refresh(r.Context()); err != nil {
			log.Printf("trending refresh failed: %v", err)
		}
	}

	entries, err := h.trender.Trending(r.Context(), limit)
	h.writeSection(w, r, entries, err)
}

func (h *HTTPHandler) writeSection(w http.ResponseWriter, r *http.Request, entries []Entry, err error) {
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSONSuccess(w, r, entries, nil)
}

// GetByKey handles GET /v1/books/{key}.
func (h *HTTPHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book key is required", nil)
		return
	}

	entry, err := h.svc.GetByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found in catalog", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, entry, nil)
}
