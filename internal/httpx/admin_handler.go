package httpx

import (
	"context"
	"crypto/subtle"
	"errors"
	"github.com/ariefcatur/healtheek-storefront/internal/academy"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/events"
	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"net/http"
	"strings"
	"time"
)

type CatalogAdmin interface {
	CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BackfillSlugs(ctx context.Context) (int, error)
	CreateCategory(ctx context.Context, in catalog.CategoryInput) (catalog.Category, error)
	UpdateCategory(ctx context.Context, id string, in catalog.CategoryInput) (catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CourseAdmin interface {
	Create(ctx context.Context, in academy.CourseInput) (academy.Course, error)
	Delete(ctx context.Context, id string) error
}

// AdminHandler is the admin console API. Every catalog mutation publishes catalog.changed.
type AdminHandler struct {
	Catalog   CatalogAdmin
	Courses   CourseAdmin
	Orders    OrderStore
	Publisher events.Publisher
	Token     string
	Service   string
	Log       *zap.Logger
}

type StatusReq struct {
	Status orders.Status `json:"status" validate:"required"`
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireToken)

		r.Post("/products", h.createProduct)
		r.Post("/products/slugs", h.backfillSlugs)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)

		r.Post("/categories", h.createCategory)
		r.Put("/categories/{id}", h.updateCategory)
		r.Delete("/categories/{id}", h.deleteCategory)

		r.Post("/courses", h.createCourse)
		r.Delete("/courses/{id}", h.deleteCourse)

		r.Put("/orders/{id}/status", h.updateOrderStatus)
	})
}

// requireToken checks the static bearer token. An unset token disables the admin API.
func (h *AdminHandler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if h.Token == "" || !ok || subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) changed(r *http.Request, entity, id, action string) {
	env, err := events.New(events.EventCatalogChanged, h.Service, middleware.GetReqID(r.Context()), id,
		events.CatalogChangedPayload{Entity: entity, EntityID: id, Action: action})
	if err == nil {
		err = events.Emit(r.Context(), h.Publisher, id, env)
	}
	if err != nil {
		h.Log.Error("publish catalog changed", zap.String("entity", entity), zap.String("entity_id", id), zap.Error(err))
	}
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if !decodeValid(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Catalog.CreateProduct(ctx, in)
	if err != nil {
		h.storeError(w, "create product", err)
		return
	}
	h.changed(r, events.EntityProduct, p.ID, events.ActionCreated)
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if !decodeValid(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Catalog.UpdateProduct(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.storeError(w, "update product", err)
		return
	}
	h.changed(r, events.EntityProduct, p.ID, events.ActionUpdated)
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Catalog.DeleteProduct(ctx, id); err != nil {
		h.storeError(w, "delete product", err)
		return
	}
	h.changed(r, events.EntityProduct, id, events.ActionDeleted)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) backfillSlugs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	n, err := h.Catalog.BackfillSlugs(ctx)
	if err != nil {
		h.storeError(w, "backfill slugs", err)
		return
	}
	if n > 0 {
		h.changed(r, events.EntityProduct, "*", events.ActionUpdated)
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *AdminHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if !decodeValid(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Catalog.CreateCategory(ctx, in)
	if err != nil {
		h.storeError(w, "create category", err)
		return
	}
	h.changed(r, events.EntityCategory, c.ID, events.ActionCreated)
	writeJSON(w, http.StatusCreated, c)
}

func (h *AdminHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if !decodeValid(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Catalog.UpdateCategory(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.storeError(w, "update category", err)
		return
	}
	h.changed(r, events.EntityCategory, c.ID, events.ActionUpdated)
	writeJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Catalog.DeleteCategory(ctx, id); err != nil {
		h.storeError(w, "delete category", err)
		return
	}
	h.changed(r, events.EntityCategory, id, events.ActionDeleted)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var in academy.CourseInput
	if !decodeValid(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Courses.Create(ctx, in)
	if err != nil {
		h.storeError(w, "create course", err)
		return
	}
	h.changed(r, events.EntityCourse, c.ID, events.ActionCreated)
	writeJSON(w, http.StatusCreated, courseView{Course: c, DiscountPercent: c.DiscountPercent()})
}

func (h *AdminHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Courses.Delete(ctx, id); err != nil {
		h.storeError(w, "delete course", err)
		return
	}
	h.changed(r, events.EntityCourse, id, events.ActionDeleted)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusReq
	if !decodeValid(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status "+string(req.Status))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if errors.Is(err, orders.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.storeError(w, "update order status", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, academy.ErrNotFound) || errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	h.Log.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, op+" failed")
}
