package httpx

import (
	"context"
	"errors"
	"github.com/ariefcatur/healtheek-storefront/internal/academy"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
	"net/http"
	"strconv"
	"time"
)

type CourseReader interface {
	List(ctx context.Context) ([]academy.Course, error)
	Get(ctx context.Context, id string) (academy.Course, error)
}

// StorefrontHandler serves the read-only catalog and academy pages.
type StorefrontHandler struct {
	Catalog *catalog.Service
	Courses CourseReader
}

type categoryPage struct {
	Category catalog.Canonical `json:"category"`
	catalog.Result
}

type courseView struct {
	academy.Course
	DiscountPercent int `json:"discountPercent"`
}

func (h *StorefrontHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/featured", h.featured)
	r.Get("/products/category/{category}", h.categoryProducts)
	r.Get("/products/{slug}", h.productBySlug)
	r.Get("/categories", h.listCategories)
	r.Get("/categories/{id}", h.getCategory)
	r.Get("/courses", h.listCourses)
	r.Get("/courses/{id}", h.getCourse)
}

func queryParams(r *http.Request) catalog.Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	return catalog.Params{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
		Sort:       q.Get("sort"),
		Page:       page,
	}
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	res, err := h.Catalog.Browse(ctx, queryParams(r))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *StorefrontHandler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, res, err := h.Catalog.BrowseCategory(ctx, chi.URLParam(r, "category"), queryParams(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, categoryPage{Category: c, Result: res})
}

func (h *StorefrontHandler) productBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.ProductBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StorefrontHandler) featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Catalog.Featured(ctx))
}

func (h *StorefrontHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Catalog.Categories(ctx))
}

func (h *StorefrontHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Catalog.Category(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *StorefrontHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Courses.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "courses unavailable")
		return
	}
	out := make([]courseView, 0, len(cs))
	for _, c := range cs {
		out = append(out, courseView{Course: c, DiscountPercent: c.DiscountPercent()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StorefrontHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Courses.Get(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, academy.ErrNotFound):
		writeError(w, http.StatusNotFound, "course not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "courses unavailable")
	default:
		writeJSON(w, http.StatusOK, courseView{Course: c, DiscountPercent: c.DiscountPercent()})
	}
}
