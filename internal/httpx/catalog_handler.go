package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/velocityathletics/velocity/internal/catalog"
)

// DefaultPageSize bounds product listings when the caller does not pick one.
const DefaultPageSize = 8

// CatalogHandler serves the read-only storefront data.
type CatalogHandler struct {
	Source catalog.Source
	Log    zerolog.Logger
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/{id}", h.getProduct)
	r.Get("/api/categories", h.listCategories)
	r.Get("/api/sizes", h.listSizes)
	r.Get("/api/testimonials", h.listTestimonials)
	r.Get("/api/stats", h.getStats)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Source.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q, err := queryFromURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := catalog.Apply(products, q)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": res.Items,
		"total": res.Total,
	})
}

func queryFromURL(r *http.Request) (catalog.Query, error) {
	q := catalog.Query{
		Text:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Sort:     catalog.Sort(r.URL.Query().Get("sort")),
		Page:     1,
		PageSize: DefaultPageSize,
	}
	var err error
	if v := r.URL.Query().Get("min_price"); v != "" {
		d, perr := decimal.NewFromString(v)
		if perr != nil {
			return q, errors.New("invalid min_price")
		}
		q.MinPrice = &d
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		d, perr := decimal.NewFromString(v)
		if perr != nil {
			return q, errors.New("invalid max_price")
		}
		q.MaxPrice = &d
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil || q.Page < 1 {
			return q, errors.New("invalid page")
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if q.PageSize, err = strconv.Atoi(v); err != nil || q.PageSize < 1 {
			return q, errors.New("invalid page_size")
		}
	}
	return q, nil
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := h.Source.GetProduct(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Source.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) listSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.Source.ListSizes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sizes)
}

func (h *CatalogHandler) listTestimonials(w http.ResponseWriter, r *http.Request) {
	ts, err := h.Source.ListTestimonials(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *CatalogHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Source.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
